// Package scoring computes an item's overall purchase score as a weighted
// average over its field scores. Pure arithmetic, no I/O.
package scoring

import (
	"time"

	"github.com/finplan-dev/finplan/internal/config"
	"github.com/finplan-dev/finplan/internal/model"
)

// Result holds the per-field scores and the weighted overall score.
type Result struct {
	Date      float64
	Cost      float64
	Urgency   float64
	Value     float64
	PriceComp float64
	Effect    float64
	Overall   float64
}

// ScoreItem scores one item against the configured weights at the given time.
func ScoreItem(item model.ItemRecord, w config.Weights, now time.Time) Result {
	result := Result{
		Date:      scoreDate(item, w, now),
		Cost:      scoreCost(item.Cost.InexactFloat64(), w.CostBands),
		Urgency:   float64(item.Urgency),
		Value:     float64(item.Value),
		PriceComp: float64(item.PriceComp),
		Effect:    float64(item.Effect),
	}
	result.Overall = weightedAvg([][2]float64{
		{result.Date, w.Weights.Date},
		{result.Cost, w.Weights.Cost},
		{result.Urgency, w.Weights.Urgency},
		{result.Value, w.Weights.Value},
		{result.PriceComp, w.Weights.PriceComp},
		{result.Effect, w.Weights.Effect},
	})
	return result
}

// scoreDate rewards items that have waited on the list: recently added items
// score low, old ones high. Maximum urgency overrides the wait entirely.
func scoreDate(item model.ItemRecord, w config.Weights, now time.Time) float64 {
	if item.Urgency == w.UrgencyOverride {
		return 5
	}
	daysOld := daysBetween(item.Date, now)
	switch {
	case daysOld <= w.DateScoring.RecentDays:
		return 1
	case daysOld <= w.DateScoring.MidDays:
		return 3
	default:
		return 5
	}
}

// daysBetween counts calendar days, not 24-hour spans. An item added late on
// the 21st is a day old on the morning of the 22nd even though less than 24
// hours have passed.
func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func scoreCost(cost float64, bands []config.CostBand) float64 {
	for _, band := range bands {
		if band.Max == nil || cost <= *band.Max {
			return band.Score
		}
	}
	return 1
}

func weightedAvg(pairs [][2]float64) float64 {
	var num, den float64
	for _, p := range pairs {
		num += p[0] * p[1]
		den += p[1]
	}
	if den == 0 {
		return 0
	}
	return num / den
}

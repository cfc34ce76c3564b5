package scoring

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/finplan-dev/finplan/internal/config"
	"github.com/finplan-dev/finplan/internal/model"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func item(daysOld int, cost string, urgency int) model.ItemRecord {
	c, _ := decimal.NewFromString(cost)
	return model.ItemRecord{
		ID:        uuid.New(),
		Date:      now.AddDate(0, 0, -daysOld),
		Product:   "test",
		Cost:      c,
		Urgency:   urgency,
		Value:     3,
		PriceComp: 3,
		Effect:    3,
	}
}

func TestDateBands(t *testing.T) {
	w := config.DefaultWeights()

	tests := []struct {
		daysOld int
		want    float64
	}{
		{0, 1},
		{7, 1},
		{8, 3},
		{30, 3},
		{31, 5},
		{365, 5},
	}
	for _, tt := range tests {
		got := ScoreItem(item(tt.daysOld, "10", 3), w, now)
		assert.InDelta(t, tt.want, got.Date, 0.001, "%d days old", tt.daysOld)
	}
}

// Age counts calendar days, not elapsed 24-hour spans: an item added late in
// the evening eight days ago is eight days old the next morning even though
// fewer than 8*24 hours have passed.
func TestDateBandsUseCalendarDays(t *testing.T) {
	w := config.DefaultWeights()

	it := item(0, "10", 3)
	it.Date = time.Date(2025, 2, 21, 23, 0, 0, 0, time.UTC)
	at := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	got := ScoreItem(it, w, at)
	assert.InDelta(t, 3.0, got.Date, 0.001, "8 calendar days is past the recent band")

	// Added earlier the same day: zero days old.
	it.Date = time.Date(2025, 3, 1, 1, 0, 0, 0, time.UTC)
	got = ScoreItem(it, w, at)
	assert.InDelta(t, 1.0, got.Date, 0.001)
}

func TestUrgencyOverridesDate(t *testing.T) {
	w := config.DefaultWeights()

	// A brand-new item would score 1 on date, but maximum urgency pins it to 5.
	got := ScoreItem(item(0, "10", 5), w, now)
	assert.InDelta(t, 5.0, got.Date, 0.001)
}

func TestCostBands(t *testing.T) {
	w := config.DefaultWeights()

	tests := []struct {
		cost string
		want float64
	}{
		{"10", 5},
		{"50", 5},
		{"100", 4},
		{"300", 3},
		{"500", 2},
		{"5000", 1},
	}
	for _, tt := range tests {
		got := ScoreItem(item(0, tt.cost, 3), w, now)
		assert.InDelta(t, tt.want, got.Cost, 0.001, "cost %s", tt.cost)
	}
}

func TestOverallIsWeightedAverage(t *testing.T) {
	w := config.DefaultWeights()

	// 60 days old, cheap, ratings 4/4/4/4: all field scores known.
	it := item(60, "20", 4)
	it.Value, it.PriceComp, it.Effect = 4, 4, 4

	got := ScoreItem(it, w, now)
	// (5 + 5 + 4 + 4 + 4 + 4) / 6 with equal weights.
	assert.InDelta(t, 26.0/6.0, got.Overall, 0.001)
}

func TestWeightsSkewOverall(t *testing.T) {
	w := config.DefaultWeights()
	w.Weights = config.WeightValues{Urgency: 1} // everything else weightless

	got := ScoreItem(item(0, "1000", 2), w, now)
	assert.InDelta(t, 2.0, got.Overall, 0.001)
}

func TestZeroWeightsScoreZero(t *testing.T) {
	w := config.DefaultWeights()
	w.Weights = config.WeightValues{}

	got := ScoreItem(item(0, "10", 3), w, now)
	assert.Zero(t, got.Overall)
}

package config

// Weights is the weights.yaml configuration driving item scoring.
type Weights struct {
	Weights         WeightValues `yaml:"weights"`
	DateScoring     DateScoring  `yaml:"date_scoring"`
	CostBands       []CostBand   `yaml:"cost_bands"`
	UrgencyOverride int          `yaml:"urgency_override"`
}

// WeightValues holds the relative weight of each scored field.
type WeightValues struct {
	Date      float64 `yaml:"date"`
	Cost      float64 `yaml:"cost"`
	Urgency   float64 `yaml:"urgency"`
	Value     float64 `yaml:"value"`
	PriceComp float64 `yaml:"price_comp"`
	Effect    float64 `yaml:"effect"`
}

// DateScoring sets the age boundaries for the date score bands.
type DateScoring struct {
	RecentDays int `yaml:"recent_days"`
	MidDays    int `yaml:"mid_days"`
}

// CostBand maps a cost ceiling to a score. A nil Max is the open-ended band.
type CostBand struct {
	Max   *float64 `yaml:"max"`
	Score float64  `yaml:"score"`
}

// DefaultWeights returns the weights written on first run.
func DefaultWeights() Weights {
	f := func(v float64) *float64 { return &v }
	return Weights{
		Weights: WeightValues{
			Date:      1.0,
			Cost:      1.0,
			Urgency:   1.0,
			Value:     1.0,
			PriceComp: 1.0,
			Effect:    1.0,
		},
		DateScoring: DateScoring{
			RecentDays: 7,
			MidDays:    30,
		},
		CostBands: []CostBand{
			{Max: f(50), Score: 5},
			{Max: f(150), Score: 4},
			{Max: f(400), Score: 3},
			{Max: f(800), Score: 2},
			{Max: nil, Score: 1},
		},
		UrgencyOverride: 5,
	}
}

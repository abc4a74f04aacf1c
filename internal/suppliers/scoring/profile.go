package scoring

import (
	"time"

	"backoffice_backend/internal/scoring/engine"
)

// Metric names used in the supplier breakdown.
const (
	MetricDelivery       = "delivery"
	MetricResponsiveness = "responsiveness"
	MetricCompliance     = "compliance"
	MetricQuality        = "quality"
	MetricPrice          = "price"
)

// neutralScore is what pluggable metrics report until a real provider is
// wired in. Neutral rather than zero so an absent subsystem neither
// rewards nor punishes the supplier.
const neutralScore = 50.0

// Weights is the supplier weight table. It must sum to 1.0.
type Weights struct {
	Delivery       float64
	Responsiveness float64
	Compliance     float64
	Quality        float64
	Price          float64
}

func (w Weights) table() engine.Weights {
	return engine.Weights{
		{Category: MetricDelivery, Value: w.Delivery},
		{Category: MetricResponsiveness, Value: w.Responsiveness},
		{Category: MetricCompliance, Value: w.Compliance},
		{Category: MetricQuality, Value: w.Quality},
		{Category: MetricPrice, Value: w.Price},
	}
}

// Profile is the supplier scoring tuning. Quality and price come from
// pluggable providers; the defaults report not-implemented and score
// neutral.
type Profile struct {
	Weights Weights

	// OnTimeBands score the on-time delivery percentage.
	OnTimeBands engine.ValueBands

	// ResponseBands score the average response time to inquiries.
	ResponseBands engine.DecayBands

	// RequiredDocs are the compliance documents every supplier must keep
	// current. Compliance is the percentage present and valid.
	RequiredDocs []string
	// ComplianceBands score that percentage.
	ComplianceBands engine.ValueBands

	Quality engine.MetricProvider
	Price   engine.MetricProvider
}

// DefaultWeights per the standard supplier model.
func DefaultWeights() Weights {
	return Weights{
		Delivery:       0.30,
		Responsiveness: 0.20,
		Compliance:     0.15,
		Quality:        0.20,
		Price:          0.15,
	}
}

// DefaultProfile returns the stock tuning with not-implemented quality
// and price providers.
func DefaultProfile() Profile {
	return Profile{
		Weights: DefaultWeights(),
		OnTimeBands: engine.ValueBands{
			Bands: []engine.ValueBand{
				{Min: 98, Score: 100},
				{Min: 95, Score: 90},
				{Min: 90, Score: 75},
				{Min: 80, Score: 55},
				{Min: 60, Score: 30},
			},
			Fallback: 10,
		},
		ResponseBands: engine.DecayBands{
			Bands: []engine.DecayBand{
				{UpTo: time.Hour, Score: 100},
				{UpTo: 24 * time.Hour, Score: 70},
				{UpTo: 7 * 24 * time.Hour, Score: 40},
			},
			Fallback: 10,
		},
		RequiredDocs: []string{"insurance", "tax-clearance", "quality-certificate"},
		ComplianceBands: engine.ValueBands{
			Bands: []engine.ValueBand{
				{Min: 100, Score: 100},
				{Min: 67, Score: 65},
				{Min: 34, Score: 35},
			},
			Fallback: 0,
		},
		Quality: engine.NotImplemented(MetricQuality, neutralScore),
		Price:   engine.NotImplemented(MetricPrice, neutralScore),
	}
}

// rules lists the supplier recommendations in evaluation order.
func rules() engine.RuleSet {
	return engine.RuleSet{
		{
			When: func(b engine.Breakdown, total float64) bool {
				return b.Get(MetricDelivery) < 50
			},
			Priority: engine.PriorityHigh,
			Title:    "Review delivery commitments",
			Reason:   "Too many orders arrive after the promised date.",
			Icon:     "truck",
		},
		{
			When: func(b engine.Breakdown, total float64) bool {
				return b.Get(MetricCompliance) < 60
			},
			Priority: engine.PriorityHigh,
			Title:    "Request missing documents",
			Reason:   "Required compliance documents are absent or expired.",
			Icon:     "file-warning",
		},
		{
			When: func(b engine.Breakdown, total float64) bool {
				return b.Get(MetricResponsiveness) < 40
			},
			Priority: engine.PriorityMedium,
			Title:    "Escalate communication",
			Reason:   "Inquiries go unanswered for days.",
			Icon:     "message-circle",
		},
		{
			When: func(b engine.Breakdown, total float64) bool {
				return total >= 80
			},
			Priority: engine.PriorityLow,
			Title:    "Consider preferred status",
			Reason:   "Consistently strong performance across metrics.",
			Icon:     "award",
		},
	}
}

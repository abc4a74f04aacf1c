// Package scoring computes lead qualification scores: a weighted composite
// over demographic, firmographic, engagement, and behavioral categories,
// with a letter grade, conversion probability, and action recommendations.
package scoring

import (
	"time"

	"backoffice_backend/internal/scoring/engine"
)

// Category names used in the lead breakdown.
const (
	CategoryDemographic  = "demographic"
	CategoryFirmographic = "firmographic"
	CategoryEngagement   = "engagement"
	CategoryBehavioral   = "behavioral"
)

// Profile is the immutable configuration for one lead scoring engine
// instance. Injected at construction so tenant-specific tuning never
// touches global state.
type Profile struct {
	Weights Weights

	// Seniority keyword tables, matched case-insensitively against the
	// job title. First matching tier wins, executive first.
	ExecutiveKeywords []string
	ManagerKeywords   []string
	SeniorKeywords    []string

	// Seniority tier points.
	ExecutivePoints float64
	ManagerPoints   float64
	SeniorPoints    float64
	OtherTitlePoints float64

	// Contact quality bonuses on the demographic category.
	EmailBonus      float64
	ValidPhoneBonus float64

	// Firmographic indicator tables.
	CompanySizeBands engine.ValueBands
	IndustryBonus    float64
	CountryBonus     float64

	// Engagement indicator tables.
	EmailOpenBands    engine.ValueBands
	EmailClickBands   engine.ValueBands
	WebsiteVisitBands engine.ValueBands

	// Behavioral indicator tables.
	MeetingBands        engine.ValueBands
	FormSubmissionBands engine.ValueBands
	DownloadBands       engine.ValueBands

	// Recency decay applied to behavioral score from the latest activity.
	RecencyBands engine.DecayBands
}

// Weights is the lead category weight table.
type Weights struct {
	Demographic  float64
	Firmographic float64
	Engagement   float64
	Behavioral   float64
}

func (w Weights) table() engine.Weights {
	return engine.Weights{
		{Category: CategoryDemographic, Value: w.Demographic},
		{Category: CategoryFirmographic, Value: w.Firmographic},
		{Category: CategoryEngagement, Value: w.Engagement},
		{Category: CategoryBehavioral, Value: w.Behavioral},
	}
}

// DefaultProfile returns the stock lead scoring configuration.
func DefaultProfile() Profile {
	return Profile{
		Weights: Weights{
			Demographic:  0.30,
			Firmographic: 0.20,
			Engagement:   0.25,
			Behavioral:   0.25,
		},

		ExecutiveKeywords: []string{
			"ceo", "cto", "cfo", "coo", "chief", "founder", "co-founder",
			"president", "owner", "partner", "vp", "vice president", "director",
		},
		ManagerKeywords: []string{"manager", "head of", "lead", "teamlead"},
		SeniorKeywords:  []string{"senior", "principal", "staff"},

		ExecutivePoints:  90,
		ManagerPoints:    60,
		SeniorPoints:     45,
		OtherTitlePoints: 25,

		EmailBonus:      5,
		ValidPhoneBonus: 5,

		CompanySizeBands: engine.ValueBands{
			Bands: []engine.ValueBand{
				{Min: 1000, Score: 95},
				{Min: 500, Score: 85},
				{Min: 100, Score: 65},
				{Min: 50, Score: 45},
				{Min: 10, Score: 25},
				{Min: 1, Score: 10},
			},
		},
		IndustryBonus: 10,
		CountryBonus:  5,

		EmailOpenBands: engine.ValueBands{
			Bands: []engine.ValueBand{
				{Min: 10, Score: 70},
				{Min: 5, Score: 45},
				{Min: 2, Score: 25},
				{Min: 1, Score: 10},
			},
		},
		EmailClickBands: engine.ValueBands{
			Bands: []engine.ValueBand{
				{Min: 5, Score: 20},
				{Min: 2, Score: 12},
				{Min: 1, Score: 6},
			},
		},
		WebsiteVisitBands: engine.ValueBands{
			Bands: []engine.ValueBand{
				{Min: 10, Score: 15},
				{Min: 5, Score: 10},
				{Min: 2, Score: 5},
			},
		},

		MeetingBands: engine.ValueBands{
			Bands: []engine.ValueBand{
				{Min: 3, Score: 85},
				{Min: 2, Score: 50},
				{Min: 1, Score: 30},
			},
		},
		FormSubmissionBands: engine.ValueBands{
			Bands: []engine.ValueBand{
				{Min: 2, Score: 15},
				{Min: 1, Score: 8},
			},
		},
		DownloadBands: engine.ValueBands{
			Bands: []engine.ValueBand{
				{Min: 3, Score: 10},
				{Min: 1, Score: 5},
			},
		},

		RecencyBands: engine.DecayBands{
			Bands: []engine.DecayBand{
				{UpTo: 24 * time.Hour, Score: 15},
				{UpTo: 72 * time.Hour, Score: 10},
				{UpTo: 7 * 24 * time.Hour, Score: 5},
			},
			Fallback: 0,
		},
	}
}

// rules returns the recommendation rule set for lead scores.
func rules() engine.RuleSet {
	return engine.RuleSet{
		{
			When:     func(b engine.Breakdown, total float64) bool { return total >= 80 },
			Priority: engine.PriorityHigh,
			Title:    "Fast-track to sales",
			Reason:   "High composite score indicates a sales-ready lead",
			Icon:     "zap",
		},
		{
			When: func(b engine.Breakdown, total float64) bool {
				return b.Get(CategoryDemographic) >= 80 && b.Get(CategoryEngagement) < 40
			},
			Priority: engine.PriorityHigh,
			Title:    "Contact the decision-maker directly",
			Reason:   "Senior contact with low engagement responds better to direct outreach",
			Icon:     "phone",
		},
		{
			When:     func(b engine.Breakdown, total float64) bool { return b.Get(CategoryEngagement) < 30 },
			Priority: engine.PriorityMedium,
			Title:    "Start a re-engagement sequence",
			Reason:   "Email and website engagement is below the nurture threshold",
			Icon:     "mail",
		},
		{
			When:     func(b engine.Breakdown, total float64) bool { return b.Get(CategoryFirmographic) < 30 },
			Priority: engine.PriorityLow,
			Title:    "Enrich company data",
			Reason:   "Company size or industry is missing, which depresses the score",
			Icon:     "building",
		},
		{
			When: func(b engine.Breakdown, total float64) bool {
				return b.Get(CategoryBehavioral) >= 50 && total < 60
			},
			Priority: engine.PriorityMedium,
			Title:    "Qualify the buying intent",
			Reason:   "Strong activity signals despite a modest composite score",
			Icon:     "search",
		},
	}
}

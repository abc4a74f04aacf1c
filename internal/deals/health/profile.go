package health

import (
	"time"

	"backoffice_backend/internal/deals/domain"
	"backoffice_backend/internal/deals/velocity"
	"backoffice_backend/internal/scoring/engine"
)

// Category names used in the deal health breakdown.
const (
	CategoryActivity   = "activity"
	CategoryEngagement = "engagement"
	CategoryVelocity   = "velocity"
	CategoryValue      = "value"
	CategoryStage      = "stage"
)

// Weights is the health weight table. It must sum to 1.0.
type Weights struct {
	Activity   float64
	Engagement float64
	Velocity   float64
	Value      float64
	Stage      float64
}

func (w Weights) table() engine.Weights {
	return engine.Weights{
		{Category: CategoryActivity, Value: w.Activity},
		{Category: CategoryEngagement, Value: w.Engagement},
		{Category: CategoryVelocity, Value: w.Velocity},
		{Category: CategoryValue, Value: w.Value},
		{Category: CategoryStage, Value: w.Stage},
	}
}

// Profile is the full deal health tuning. Immutable after construction;
// per-tenant overrides build their own profile.
type Profile struct {
	Weights Weights

	// ActivityBands score the time since the last logged touchpoint.
	ActivityBands engine.DecayBands

	// EngagementWindow bounds which activities count as recent.
	EngagementWindow time.Duration
	// EngagementBands score the recent activity count.
	EngagementBands engine.ValueBands
	// MeetingBonus is added when a recent meeting exists.
	MeetingBonus float64

	// ValueBands score the deal amount in cents.
	ValueBands engine.ValueBands

	// StageScores map pipeline progression to a base score.
	StageScores map[string]float64
	// UnknownStageScore covers stages outside the standard pipeline.
	UnknownStageScore float64
	// OverstayPenalty is subtracted from the stage score when the current
	// stage overruns its expected duration by OverstayRatio or more.
	OverstayPenalty float64
	OverstayRatio   float64

	Velocity velocity.Config
}

// DefaultWeights per the standard deal health model.
func DefaultWeights() Weights {
	return Weights{
		Activity:   0.25,
		Engagement: 0.20,
		Velocity:   0.20,
		Value:      0.15,
		Stage:      0.20,
	}
}

// DefaultProfile returns the stock tuning.
func DefaultProfile() Profile {
	day := 24 * time.Hour
	return Profile{
		Weights: DefaultWeights(),
		ActivityBands: engine.DecayBands{
			Bands: []engine.DecayBand{
				{UpTo: day, Score: 100},
				{UpTo: 3 * day, Score: 85},
				{UpTo: 7 * day, Score: 65},
				{UpTo: 14 * day, Score: 40},
				{UpTo: 30 * day, Score: 20},
			},
			Fallback: 5,
		},
		EngagementWindow: 30 * day,
		EngagementBands: engine.ValueBands{
			Bands: []engine.ValueBand{
				{Min: 10, Score: 90},
				{Min: 6, Score: 70},
				{Min: 3, Score: 50},
				{Min: 1, Score: 25},
			},
			Fallback: 0,
		},
		MeetingBonus: 10,
		ValueBands: engine.ValueBands{
			Bands: []engine.ValueBand{
				{Min: 10_000_000, Score: 100},
				{Min: 5_000_000, Score: 80},
				{Min: 2_000_000, Score: 60},
				{Min: 500_000, Score: 40},
				{Min: 1, Score: 20},
			},
			Fallback: 0,
		},
		StageScores: map[string]float64{
			domain.StageProspecting:   20,
			domain.StageQualification: 40,
			domain.StageProposal:      60,
			domain.StageNegotiation:   80,
			domain.StageClosing:       95,
		},
		UnknownStageScore: 10,
		OverstayPenalty:   15,
		OverstayRatio:     1.5,
		Velocity:          velocity.DefaultConfig(),
	}
}

// rules lists the deal health recommendations in evaluation order.
func rules() engine.RuleSet {
	return engine.RuleSet{
		{
			When: func(b engine.Breakdown, total float64) bool {
				return b.Get(CategoryValue) >= 80 && total < 50
			},
			Priority: engine.PriorityHigh,
			Title:    "Rescue the high-value deal",
			Reason:   "A large deal is drifting; losing it costs disproportionate revenue.",
			Icon:     "alert-triangle",
		},
		{
			When: func(b engine.Breakdown, total float64) bool {
				return b.Get(CategoryActivity) < 40
			},
			Priority: engine.PriorityHigh,
			Title:    "Re-engage the buyer",
			Reason:   "No recent activity on this deal; silence is how deals die.",
			Icon:     "phone",
		},
		{
			When: func(b engine.Breakdown, total float64) bool {
				return b.Get(CategoryVelocity) < 40
			},
			Priority: engine.PriorityMedium,
			Title:    "Unblock the current stage",
			Reason:   "The deal is moving well below the expected pipeline pace.",
			Icon:     "clock",
		},
		{
			When: func(b engine.Breakdown, total float64) bool {
				return b.Get(CategoryEngagement) < 30
			},
			Priority: engine.PriorityMedium,
			Title:    "Schedule a touchpoint",
			Reason:   "Too few recent interactions to keep momentum.",
			Icon:     "calendar",
		},
		{
			When: func(b engine.Breakdown, total float64) bool {
				return total >= 80 && b.Get(CategoryStage) >= 60
			},
			Priority: engine.PriorityLow,
			Title:    "Push for close",
			Reason:   "Healthy, late-stage deal; propose final terms.",
			Icon:     "flag",
		},
	}
}

package health

import (
	"strings"
	"time"

	"backoffice_backend/internal/deals/domain"
	"backoffice_backend/internal/deals/velocity"
	"backoffice_backend/internal/scoring/engine"
)

// Extractor converts a deal plus its activity and stage history into the
// bounded category breakdown. Pure; the caller anchors the clock.
type Extractor struct {
	profile  Profile
	analyzer *velocity.Analyzer
}

func NewExtractor(profile Profile) *Extractor {
	return &Extractor{
		profile:  profile,
		analyzer: velocity.NewAnalyzer(profile.Velocity),
	}
}

func (e *Extractor) Extract(deal domain.Deal, activities []domain.Activity, history []domain.StageEntry, now time.Time) engine.Breakdown {
	vel := e.analyzer.ForDeal(deal, history, now)
	return engine.Breakdown{
		CategoryActivity:   e.activityScore(deal, activities, now),
		CategoryEngagement: e.engagementScore(activities, now),
		CategoryVelocity:   vel.Score,
		CategoryValue:      e.profile.ValueBands.Score(float64(deal.ValueCents)),
		CategoryStage:      e.stageScore(deal, now),
	}
}

// Pace exposes the underlying velocity verdict for the velocity endpoints.
func (e *Extractor) Pace(deal domain.Deal, history []domain.StageEntry, now time.Time) velocity.Velocity {
	return e.analyzer.ForDeal(deal, history, now)
}

func (e *Extractor) activityScore(deal domain.Deal, activities []domain.Activity, now time.Time) float64 {
	last := deal.LastActivityAt
	for _, act := range activities {
		if last == nil || act.OccurredAt.After(*last) {
			ts := act.OccurredAt
			last = &ts
		}
	}
	if last == nil {
		// Never touched. Conservative floor, not the band fallback.
		return 0
	}
	return e.profile.ActivityBands.Score(now.Sub(*last))
}

func (e *Extractor) engagementScore(activities []domain.Activity, now time.Time) float64 {
	recent := 0
	meeting := false
	cutoff := now.Add(-e.profile.EngagementWindow)
	for _, act := range activities {
		if act.OccurredAt.Before(cutoff) {
			continue
		}
		recent++
		if strings.EqualFold(act.Kind, "meeting") {
			meeting = true
		}
	}

	score := e.profile.EngagementBands.Score(float64(recent))
	if meeting {
		score += e.profile.MeetingBonus
	}
	return engine.Clamp(score, 0, 100)
}

func (e *Extractor) stageScore(deal domain.Deal, now time.Time) float64 {
	score, ok := e.profile.StageScores[deal.Stage]
	if !ok {
		score = e.profile.UnknownStageScore
	}

	if !deal.StageEnteredAt.IsZero() {
		expected := e.profile.Velocity.Durations.Expected[deal.Stage]
		if expected == 0 {
			expected = e.profile.Velocity.Durations.Default
		}
		dwell := now.Sub(deal.StageEnteredAt)
		if dwell > 0 && float64(dwell) >= e.profile.OverstayRatio*float64(expected) {
			score -= e.profile.OverstayPenalty
		}
	}
	return engine.Clamp(score, 0, 100)
}

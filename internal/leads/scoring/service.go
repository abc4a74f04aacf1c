package scoring

import (
	"context"
	"time"

	"backoffice_backend/internal/events"
	"backoffice_backend/internal/leads/domain"
	"backoffice_backend/internal/scoring/engine"
	"backoffice_backend/platform/apperr"
	"backoffice_backend/platform/logger"

	"github.com/google/uuid"
)

// scoreVersion tracks the scoring model for debugging and analysis.
// Bump this when changing scoring logic significantly.
const scoreVersion = "leads-v1"

// conversionCap bounds the reported conversion probability.
const conversionCap = 95.0

// Repository is the persistence surface the scoring service consumes.
// The caller-side fetch/persist split keeps the engine itself pure: all
// auxiliary context is loaded up front and score writes happen after.
type Repository interface {
	GetByID(ctx context.Context, leadID, tenantID uuid.UUID) (domain.Lead, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Lead, error)
	ListInteractions(ctx context.Context, leadID, tenantID uuid.UUID) ([]domain.Interaction, error)
	ListInteractionsForLeads(ctx context.Context, leadIDs []uuid.UUID, tenantID uuid.UUID) (map[uuid.UUID][]domain.Interaction, error)
	UpdateScore(ctx context.Context, leadID, tenantID uuid.UUID, score float64, grade string, version string) error
}

// LeadScore is the full scoring artifact for one lead.
type LeadScore struct {
	LeadID                uuid.UUID               `json:"id"`
	Name                  string                  `json:"name"`
	TotalScore            float64                 `json:"totalScore"`
	Grade                 string                  `json:"grade"`
	Status                engine.Status           `json:"status"`
	ConversionProbability float64                 `json:"conversionProbability"`
	Breakdown             engine.Breakdown        `json:"breakdown"`
	Contributions         []engine.Contribution   `json:"contributions"`
	Recommendations       []engine.Recommendation `json:"recommendations"`
	Version               string                  `json:"version"`
}

// BatchScore is the outcome of scoring a collection of leads.
type BatchScore struct {
	Results  []LeadScore         `json:"results"`
	Errors   []engine.BatchError `json:"errors"`
	AvgScore float64             `json:"avgScore"`
}

// Service computes lead qualification scores.
type Service struct {
	repo      Repository
	extractor *Extractor
	scorer    *engine.Scorer
	rules     engine.RuleSet
	runner    engine.Runner
	bus       events.Bus
	log       *logger.Logger
}

// New creates a lead scoring service. The profile's weight table is
// validated here; a table that does not sum to 1.0 is a fatal
// misconfiguration surfaced at startup.
func New(repo Repository, profile Profile, runner engine.Runner, bus events.Bus, log *logger.Logger) (*Service, error) {
	scorer, err := engine.NewScorer(profile.Weights.table())
	if err != nil {
		return nil, err
	}

	return &Service{
		repo:      repo,
		extractor: NewExtractor(profile),
		scorer:    scorer,
		rules:     rules(),
		runner:    runner,
		bus:       bus,
		log:       log,
	}, nil
}

// ScoreLead fetches a lead with its interaction log, computes the score,
// persists it, and returns the full artifact.
func (s *Service) ScoreLead(ctx context.Context, leadID, tenantID uuid.UUID) (*LeadScore, error) {
	lead, err := s.repo.GetByID(ctx, leadID, tenantID)
	if err != nil {
		return nil, err
	}

	interactions, err := s.repo.ListInteractions(ctx, leadID, tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load lead interactions", err)
	}

	result := s.Compute(lead, interactions, time.Now().UTC())

	if err := s.repo.UpdateScore(ctx, leadID, tenantID, result.TotalScore, result.Grade, scoreVersion); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "persist lead score", err)
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadScored{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    leadID,
			TenantID:  tenantID,
			Score:     result.TotalScore,
			Grade:     result.Grade,
		})
	}

	return &result, nil
}

// Compute scores a single lead synchronously. Pure apart from the caller
// supplied clock anchor: same inputs, same artifact.
func (s *Service) Compute(lead domain.Lead, interactions []domain.Interaction, now time.Time) LeadScore {
	breakdown := s.extractor.Extract(lead, interactions, now)
	total := s.scorer.Score(breakdown)

	return LeadScore{
		LeadID:                lead.ID,
		Name:                  lead.Name,
		TotalScore:            total,
		Grade:                 engine.GradeFor(total),
		Status:                engine.StatusFor(total),
		ConversionProbability: conversionProbability(total, breakdown),
		Breakdown:             s.scorer.Normalize(breakdown),
		Contributions:         s.scorer.Contributions(breakdown),
		Recommendations:       s.rules.Evaluate(breakdown, total),
		Version:               scoreVersion,
	}
}

// ScoreBatch scores every lead of the tenant, persists the results, and
// returns them ranked by descending score with input order on ties.
func (s *Service) ScoreBatch(ctx context.Context, tenantID uuid.UUID) (*BatchScore, error) {
	leads, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return s.scoreLeads(ctx, tenantID, leads)
}

// ScoreSelection scores the given leads only.
func (s *Service) ScoreSelection(ctx context.Context, tenantID uuid.UUID, leadIDs []uuid.UUID) (*BatchScore, error) {
	leads := make([]domain.Lead, 0, len(leadIDs))
	for _, id := range leadIDs {
		lead, err := s.repo.GetByID(ctx, id, tenantID)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return s.scoreLeads(ctx, tenantID, leads)
}

func (s *Service) scoreLeads(ctx context.Context, tenantID uuid.UUID, leads []domain.Lead) (*BatchScore, error) {
	interactionsByLead, err := s.repo.ListInteractionsForLeads(ctx, leadIDs(leads), tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load lead interactions", err)
	}

	now := time.Now().UTC()

	batch := engine.Run(ctx, s.runner, leads,
		func(l domain.Lead) string { return l.ID.String() },
		func(l domain.Lead) (engine.Result, error) {
			score := s.Compute(l, interactionsByLead[l.ID], now)
			return engine.Result{
				Total:           score.TotalScore,
				Grade:           score.Grade,
				Status:          score.Status,
				Breakdown:       score.Breakdown,
				Contributions:   score.Contributions,
				Recommendations: score.Recommendations,
			}, nil
		})

	out := &BatchScore{
		Results:  make([]LeadScore, 0, len(batch.Results)),
		Errors:   batch.Errors,
		AvgScore: batch.AvgScore,
	}

	for _, scored := range batch.Results {
		lead := leads[scored.Index]
		ls := LeadScore{
			LeadID:                lead.ID,
			Name:                  lead.Name,
			TotalScore:            scored.Result.Total,
			Grade:                 scored.Result.Grade,
			Status:                scored.Result.Status,
			ConversionProbability: conversionProbability(scored.Result.Total, scored.Result.Breakdown),
			Breakdown:             scored.Result.Breakdown,
			Contributions:         scored.Result.Contributions,
			Recommendations:       scored.Result.Recommendations,
			Version:               scoreVersion,
		}
		out.Results = append(out.Results, ls)

		if err := s.repo.UpdateScore(ctx, lead.ID, tenantID, ls.TotalScore, ls.Grade, scoreVersion); err != nil && s.log != nil {
			s.log.DatabaseError("update lead score", err)
		}
	}

	if s.log != nil {
		s.log.BatchSummary("leads", len(out.Results), len(out.Errors), out.AvgScore)
	}
	if s.bus != nil {
		s.bus.Publish(ctx, events.BatchRescoreCompleted{
			BaseEvent: events.NewBaseEvent(),
			TenantID:  tenantID,
			Kind:      "leads",
			Scored:    len(out.Results),
			Failed:    len(out.Errors),
			AvgScore:  out.AvgScore,
		})
	}

	return out, nil
}

// Ranked returns the tenant's top leads by score without persisting.
func (s *Service) Ranked(ctx context.Context, tenantID uuid.UUID, limit int) ([]LeadScore, error) {
	leads, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	interactionsByLead, err := s.repo.ListInteractionsForLeads(ctx, leadIDs(leads), tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load lead interactions", err)
	}

	now := time.Now().UTC()
	batch := engine.Run(ctx, s.runner, leads,
		func(l domain.Lead) string { return l.ID.String() },
		func(l domain.Lead) (engine.Result, error) {
			score := s.Compute(l, interactionsByLead[l.ID], now)
			return engine.Result{
				Total:           score.TotalScore,
				Grade:           score.Grade,
				Status:          score.Status,
				Breakdown:       score.Breakdown,
				Contributions:   score.Contributions,
				Recommendations: score.Recommendations,
			}, nil
		})

	if limit <= 0 || limit > len(batch.Results) {
		limit = len(batch.Results)
	}

	out := make([]LeadScore, 0, limit)
	for _, scored := range batch.Results[:limit] {
		lead := leads[scored.Index]
		out = append(out, LeadScore{
			LeadID:                lead.ID,
			Name:                  lead.Name,
			TotalScore:            scored.Result.Total,
			Grade:                 scored.Result.Grade,
			Status:                scored.Result.Status,
			ConversionProbability: conversionProbability(scored.Result.Total, scored.Result.Breakdown),
			Breakdown:             scored.Result.Breakdown,
			Contributions:         scored.Result.Contributions,
			Recommendations:       scored.Result.Recommendations,
			Version:               scoreVersion,
		})
	}
	return out, nil
}

func leadIDs(leads []domain.Lead) []uuid.UUID {
	ids := make([]uuid.UUID, len(leads))
	for i, lead := range leads {
		ids[i] = lead.ID
	}
	return ids
}

// conversionProbability estimates the close likelihood from the composite
// score with a modest engagement lift, capped below certainty.
func conversionProbability(total float64, breakdown engine.Breakdown) float64 {
	prob := total*0.8 + breakdown.Get(CategoryEngagement)*0.1
	return engine.Round2(engine.Clamp(prob, 0, conversionCap))
}

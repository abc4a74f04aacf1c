package health

import (
	"context"
	"time"

	"backoffice_backend/internal/deals/domain"
	"backoffice_backend/internal/deals/velocity"
	"backoffice_backend/internal/events"
	"backoffice_backend/internal/scoring/engine"
	"backoffice_backend/platform/apperr"
	"backoffice_backend/platform/logger"

	"github.com/google/uuid"
)

const scoreVersion = "deals-v1"

// atRiskCutoff partitions deals whose health needs attention.
const atRiskCutoff = 40.0

// slowPipelineThreshold triggers the batch-level pipeline recommendation.
const slowPipelineThreshold = 60.0

// Repository is the persistence surface the health service consumes.
type Repository interface {
	GetByID(ctx context.Context, dealID, tenantID uuid.UUID) (domain.Deal, error)
	ListOpenByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Deal, error)
	ListActivities(ctx context.Context, dealID, tenantID uuid.UUID) ([]domain.Activity, error)
	ListActivitiesForDeals(ctx context.Context, dealIDs []uuid.UUID, tenantID uuid.UUID) (map[uuid.UUID][]domain.Activity, error)
	ListStageHistory(ctx context.Context, dealID, tenantID uuid.UUID) ([]domain.StageEntry, error)
	ListStageHistoryForDeals(ctx context.Context, dealIDs []uuid.UUID, tenantID uuid.UUID) (map[uuid.UUID][]domain.StageEntry, error)
	UpdateHealth(ctx context.Context, dealID, tenantID uuid.UUID, score float64, status string, version string) error
}

// DealHealth is the full health artifact for one deal.
type DealHealth struct {
	DealID          uuid.UUID               `json:"id"`
	Name            string                  `json:"name"`
	Stage           string                  `json:"stage"`
	TotalScore      float64                 `json:"totalScore"`
	Status          engine.Status           `json:"status"`
	Breakdown       engine.Breakdown        `json:"breakdown"`
	Contributions   []engine.Contribution   `json:"contributions"`
	Recommendations []engine.Recommendation `json:"recommendations"`
	Pace            velocity.Velocity       `json:"pace"`
	Version         string                  `json:"version"`
}

// DealVelocity pairs a deal with its pace verdict for velocity reports.
type DealVelocity struct {
	DealID   uuid.UUID         `json:"id"`
	Name     string            `json:"name"`
	Stage    string            `json:"stage"`
	Velocity velocity.Velocity `json:"velocity"`
}

// VelocityReport aggregates pipeline pace across a batch of deals.
type VelocityReport struct {
	Results           []DealVelocity          `json:"results"`
	Errors            []engine.BatchError     `json:"errors"`
	AvgVelocityScore  float64                 `json:"avgVelocityScore"`
	CommonBottlenecks []engine.Bottleneck     `json:"commonBottlenecks"`
	SlowDeals         []DealVelocity          `json:"slowDeals"`
	Recommendations   []engine.Recommendation `json:"recommendations"`
}

// Service evaluates deal health and pipeline velocity.
type Service struct {
	repo      Repository
	extractor *Extractor
	scorer    *engine.Scorer
	rules     engine.RuleSet
	runner    engine.Runner
	slowCut   float64
	bus       events.Bus
	log       *logger.Logger
}

// New creates a deal health service. The weight table is validated here; a
// table that does not sum to 1.0 is a fatal misconfiguration.
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
		slowCut:   profile.Velocity.SlowCutoff,
		bus:       bus,
		log:       log,
	}, nil
}

// EvaluateHealth fetches a deal with its context, scores it, persists the
// result, and returns the full artifact.
func (s *Service) EvaluateHealth(ctx context.Context, dealID, tenantID uuid.UUID) (*DealHealth, error) {
	deal, err := s.repo.GetByID(ctx, dealID, tenantID)
	if err != nil {
		return nil, err
	}

	activities, err := s.repo.ListActivities(ctx, dealID, tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load deal activities", err)
	}
	history, err := s.repo.ListStageHistory(ctx, dealID, tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load deal stage history", err)
	}

	result := s.Compute(deal, activities, history, time.Now().UTC())

	if err := s.repo.UpdateHealth(ctx, dealID, tenantID, result.TotalScore, result.Status.Level, scoreVersion); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "persist deal health", err)
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.DealHealthEvaluated{
			BaseEvent: events.NewBaseEvent(),
			DealID:    dealID,
			TenantID:  tenantID,
			Score:     result.TotalScore,
			Level:     result.Status.Level,
		})
	}

	return &result, nil
}

// Compute scores one deal synchronously. Pure given the clock anchor.
func (s *Service) Compute(deal domain.Deal, activities []domain.Activity, history []domain.StageEntry, now time.Time) DealHealth {
	breakdown := s.extractor.Extract(deal, activities, history, now)
	total := s.scorer.Score(breakdown)

	return DealHealth{
		DealID:          deal.ID,
		Name:            deal.Name,
		Stage:           deal.Stage,
		TotalScore:      total,
		Status:          engine.StatusFor(total),
		Breakdown:       s.scorer.Normalize(breakdown),
		Contributions:   s.scorer.Contributions(breakdown),
		Recommendations: s.rules.Evaluate(breakdown, total),
		Pace:            s.extractor.Pace(deal, history, now),
		Version:         scoreVersion,
	}
}

// VelocityBatch measures pace for every open deal of the tenant and
// aggregates bottleneck statistics.
func (s *Service) VelocityBatch(ctx context.Context, tenantID uuid.UUID) (*VelocityReport, error) {
	deals, err := s.repo.ListOpenByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	historyByDeal, err := s.repo.ListStageHistoryForDeals(ctx, dealIDs(deals), tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load deal stage history", err)
	}

	now := time.Now().UTC()
	paces := make([]velocity.Velocity, len(deals))

	indexes := make([]int, len(deals))
	for i := range deals {
		indexes[i] = i
	}

	batch := engine.Run(ctx, s.runner, indexes,
		func(i int) string { return deals[i].ID.String() },
		func(i int) (engine.Result, error) {
			pace := s.extractor.Pace(deals[i], historyByDeal[deals[i].ID], now)
			paces[i] = pace
			return engine.Result{
				Total:  pace.Score,
				Status: engine.StatusFor(pace.Score),
			}, nil
		})

	report := &VelocityReport{
		Results:          make([]DealVelocity, 0, len(batch.Results)),
		Errors:           batch.Errors,
		AvgVelocityScore: batch.AvgScore,
		SlowDeals:        make([]DealVelocity, 0),
		Recommendations:  make([]engine.Recommendation, 0),
	}

	bottlenecks := make([]string, 0, len(batch.Results))
	for _, scored := range batch.Results {
		i := indexes[scored.Index]
		deal := deals[i]
		report.Results = append(report.Results, DealVelocity{
			DealID:   deal.ID,
			Name:     deal.Name,
			Stage:    deal.Stage,
			Velocity: paces[i],
		})
	}
	for _, scored := range engine.BelowCutoff(batch.Results, s.slowCut, func(r engine.Scored) float64 { return r.Result.Total }) {
		i := indexes[scored.Index]
		deal := deals[i]
		report.SlowDeals = append(report.SlowDeals, DealVelocity{
			DealID:   deal.ID,
			Name:     deal.Name,
			Stage:    deal.Stage,
			Velocity: paces[i],
		})
		if paces[i].Bottleneck != "" {
			bottlenecks = append(bottlenecks, paces[i].Bottleneck)
		}
	}

	report.CommonBottlenecks = engine.TopBottlenecks(bottlenecks, len(batch.Results), 3)

	if len(batch.Results) > 0 && report.AvgVelocityScore < slowPipelineThreshold {
		report.Recommendations = append(report.Recommendations, engine.Recommendation{
			Priority: engine.PriorityHigh,
			Title:    "Accelerate the pipeline",
			Reason:   "Average deal velocity is well below the expected pace.",
			Icon:     "fast-forward",
		})
	}

	if s.log != nil {
		s.log.BatchSummary("deal-velocity", len(report.Results), len(report.Errors), report.AvgVelocityScore)
	}

	return report, nil
}

// HealthBatch evaluates health for every open deal, persists results, and
// publishes the batch completion event.
func (s *Service) HealthBatch(ctx context.Context, tenantID uuid.UUID) ([]DealHealth, []engine.BatchError, error) {
	deals, err := s.repo.ListOpenByTenant(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}

	activitiesByDeal, err := s.repo.ListActivitiesForDeals(ctx, dealIDs(deals), tenantID)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.KindInternal, "load deal activities", err)
	}
	historyByDeal, err := s.repo.ListStageHistoryForDeals(ctx, dealIDs(deals), tenantID)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.KindInternal, "load deal stage history", err)
	}

	now := time.Now().UTC()
	healths := make([]DealHealth, len(deals))

	indexes := make([]int, len(deals))
	for i := range deals {
		indexes[i] = i
	}

	batch := engine.Run(ctx, s.runner, indexes,
		func(i int) string { return deals[i].ID.String() },
		func(i int) (engine.Result, error) {
			h := s.Compute(deals[i], activitiesByDeal[deals[i].ID], historyByDeal[deals[i].ID], now)
			healths[i] = h
			return engine.Result{Total: h.TotalScore, Status: h.Status, Breakdown: h.Breakdown}, nil
		})

	out := make([]DealHealth, 0, len(batch.Results))
	avg := batch.AvgScore
	for _, scored := range batch.Results {
		h := healths[indexes[scored.Index]]
		out = append(out, h)
		if err := s.repo.UpdateHealth(ctx, h.DealID, tenantID, h.TotalScore, h.Status.Level, scoreVersion); err != nil && s.log != nil {
			s.log.DatabaseError("update deal health", err)
		}
	}

	if s.log != nil {
		s.log.BatchSummary("deals", len(out), len(batch.Errors), avg)
	}
	if s.bus != nil {
		s.bus.Publish(ctx, events.BatchRescoreCompleted{
			BaseEvent: events.NewBaseEvent(),
			TenantID:  tenantID,
			Kind:      "deals",
			Scored:    len(out),
			Failed:    len(batch.Errors),
			AvgScore:  avg,
		})
	}

	return out, batch.Errors, nil
}

// AtRisk evaluates all open deals without persisting and returns those
// below the risk cutoff, preserving original relative order.
func (s *Service) AtRisk(ctx context.Context, tenantID uuid.UUID) ([]DealHealth, error) {
	deals, err := s.repo.ListOpenByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	activitiesByDeal, err := s.repo.ListActivitiesForDeals(ctx, dealIDs(deals), tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load deal activities", err)
	}
	historyByDeal, err := s.repo.ListStageHistoryForDeals(ctx, dealIDs(deals), tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load deal stage history", err)
	}

	now := time.Now().UTC()
	healths := make([]DealHealth, len(deals))

	indexes := make([]int, len(deals))
	for i := range deals {
		indexes[i] = i
	}

	batch := engine.Run(ctx, s.runner, indexes,
		func(i int) string { return deals[i].ID.String() },
		func(i int) (engine.Result, error) {
			h := s.Compute(deals[i], activitiesByDeal[deals[i].ID], historyByDeal[deals[i].ID], now)
			healths[i] = h
			return engine.Result{Total: h.TotalScore, Status: h.Status, Breakdown: h.Breakdown}, nil
		})

	atRisk := make([]DealHealth, 0)
	for _, scored := range engine.BelowCutoff(batch.Results, atRiskCutoff, func(r engine.Scored) float64 { return r.Result.Total }) {
		atRisk = append(atRisk, healths[indexes[scored.Index]])
	}
	return atRisk, nil
}

func dealIDs(deals []domain.Deal) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(deals))
	for _, d := range deals {
		ids = append(ids, d.ID)
	}
	return ids
}

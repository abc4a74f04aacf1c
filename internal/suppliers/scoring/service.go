package scoring

import (
	"context"
	"time"

	"backoffice_backend/internal/events"
	"backoffice_backend/internal/scoring/engine"
	"backoffice_backend/internal/suppliers/domain"
	"backoffice_backend/platform/apperr"
	"backoffice_backend/platform/logger"

	"github.com/google/uuid"
)

const scoreVersion = "suppliers-v1"

// Repository is the persistence surface the scoring service consumes.
type Repository interface {
	GetByID(ctx context.Context, supplierID, tenantID uuid.UUID) (domain.Supplier, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Supplier, error)
	ListOrders(ctx context.Context, supplierID, tenantID uuid.UUID) ([]domain.Order, error)
	ListInquiries(ctx context.Context, supplierID, tenantID uuid.UUID) ([]domain.Inquiry, error)
	ListDocuments(ctx context.Context, supplierID, tenantID uuid.UUID) ([]domain.Document, error)
	ListOrdersForSuppliers(ctx context.Context, supplierIDs []uuid.UUID, tenantID uuid.UUID) (map[uuid.UUID][]domain.Order, error)
	ListInquiriesForSuppliers(ctx context.Context, supplierIDs []uuid.UUID, tenantID uuid.UUID) (map[uuid.UUID][]domain.Inquiry, error)
	ListDocumentsForSuppliers(ctx context.Context, supplierIDs []uuid.UUID, tenantID uuid.UUID) (map[uuid.UUID][]domain.Document, error)
	UpdateScore(ctx context.Context, supplierID, tenantID uuid.UUID, score float64, grade string, version string) error
}

// SupplierScore is the full scoring artifact for one supplier.
type SupplierScore struct {
	SupplierID      uuid.UUID               `json:"id"`
	Name            string                  `json:"name"`
	TotalScore      float64                 `json:"totalScore"`
	Grade           string                  `json:"grade"`
	Status          engine.Status           `json:"status"`
	Breakdown       engine.Breakdown        `json:"breakdown"`
	Contributions   []engine.Contribution   `json:"contributions"`
	Recommendations []engine.Recommendation `json:"recommendations"`
	MissingDocs     []string                `json:"missingDocs"`
	Version         string                  `json:"version"`
}

// BatchScore is the outcome of scoring a collection of suppliers.
type BatchScore struct {
	Results  []SupplierScore     `json:"results"`
	Errors   []engine.BatchError `json:"errors"`
	AvgScore float64             `json:"avgScore"`
}

// History bundles the auxiliary collections one supplier is scored from.
type History struct {
	Orders    []domain.Order
	Inquiries []domain.Inquiry
	Documents []domain.Document
}

// Service computes supplier performance scores.
type Service struct {
	repo      Repository
	extractor *Extractor
	scorer    *engine.Scorer
	rules     engine.RuleSet
	runner    engine.Runner
	bus       events.Bus
	log       *logger.Logger
}

// New creates a supplier scoring service. The weight table is validated
// here; a table that does not sum to 1.0 is a fatal misconfiguration.
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

// ScoreSupplier fetches a supplier with its history, scores it, persists
// the result, and returns the full artifact.
func (s *Service) ScoreSupplier(ctx context.Context, supplierID, tenantID uuid.UUID) (*SupplierScore, error) {
	supplier, err := s.repo.GetByID(ctx, supplierID, tenantID)
	if err != nil {
		return nil, err
	}

	history, err := s.loadHistory(ctx, supplierID, tenantID)
	if err != nil {
		return nil, err
	}

	result := s.Compute(supplier, history, time.Now().UTC())

	if err := s.repo.UpdateScore(ctx, supplierID, tenantID, result.TotalScore, result.Grade, scoreVersion); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "persist supplier score", err)
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.SupplierScored{
			BaseEvent:  events.NewBaseEvent(),
			SupplierID: supplierID,
			TenantID:   tenantID,
			Score:      result.TotalScore,
			Grade:      result.Grade,
		})
	}

	return &result, nil
}

// Compute scores one supplier synchronously. Pure given the clock anchor.
func (s *Service) Compute(supplier domain.Supplier, history History, now time.Time) SupplierScore {
	breakdown := s.extractor.Extract(supplier, history.Orders, history.Inquiries, history.Documents, now)
	total := s.scorer.Score(breakdown)

	return SupplierScore{
		SupplierID:      supplier.ID,
		Name:            supplier.Name,
		TotalScore:      total,
		Grade:           engine.GradeFor(total),
		Status:          engine.StatusFor(total),
		Breakdown:       s.scorer.Normalize(breakdown),
		Contributions:   s.scorer.Contributions(breakdown),
		Recommendations: s.rules.Evaluate(breakdown, total),
		MissingDocs:     s.extractor.MissingDocs(history.Documents, now),
		Version:         scoreVersion,
	}
}

// ScoreBatch scores every supplier of the tenant, persists results, and
// returns them ranked by descending score with input order on ties.
func (s *Service) ScoreBatch(ctx context.Context, tenantID uuid.UUID) (*BatchScore, error) {
	suppliers, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	ids := supplierIDs(suppliers)
	ordersBySupplier, err := s.repo.ListOrdersForSuppliers(ctx, ids, tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load supplier orders", err)
	}
	inquiriesBySupplier, err := s.repo.ListInquiriesForSuppliers(ctx, ids, tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load supplier inquiries", err)
	}
	docsBySupplier, err := s.repo.ListDocumentsForSuppliers(ctx, ids, tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load supplier documents", err)
	}

	now := time.Now().UTC()
	scores := make([]SupplierScore, len(suppliers))

	indexes := make([]int, len(suppliers))
	for i := range suppliers {
		indexes[i] = i
	}

	batch := engine.Run(ctx, s.runner, indexes,
		func(i int) string { return suppliers[i].ID.String() },
		func(i int) (engine.Result, error) {
			history := History{
				Orders:    ordersBySupplier[suppliers[i].ID],
				Inquiries: inquiriesBySupplier[suppliers[i].ID],
				Documents: docsBySupplier[suppliers[i].ID],
			}
			score := s.Compute(suppliers[i], history, now)
			scores[i] = score
			return engine.Result{
				Total:  score.TotalScore,
				Grade:  score.Grade,
				Status: score.Status,
			}, nil
		})

	out := &BatchScore{
		Results:  make([]SupplierScore, 0, len(batch.Results)),
		Errors:   batch.Errors,
		AvgScore: batch.AvgScore,
	}
	for _, scored := range batch.Results {
		score := scores[indexes[scored.Index]]
		out.Results = append(out.Results, score)
		if err := s.repo.UpdateScore(ctx, score.SupplierID, tenantID, score.TotalScore, score.Grade, scoreVersion); err != nil && s.log != nil {
			s.log.DatabaseError("update supplier score", err)
		}
	}

	if s.log != nil {
		s.log.BatchSummary("suppliers", len(out.Results), len(out.Errors), out.AvgScore)
	}
	if s.bus != nil {
		s.bus.Publish(ctx, events.BatchRescoreCompleted{
			BaseEvent: events.NewBaseEvent(),
			TenantID:  tenantID,
			Kind:      "suppliers",
			Scored:    len(out.Results),
			Failed:    len(out.Errors),
			AvgScore:  out.AvgScore,
		})
	}

	return out, nil
}

// loadHistory fetches the auxiliary collections. Every weighted metric
// derives from them, so a fetch failure is a genuine error: it propagates
// instead of silently scoring the supplier as having no track record.
func (s *Service) loadHistory(ctx context.Context, supplierID, tenantID uuid.UUID) (History, error) {
	var h History
	var err error
	if h.Orders, err = s.repo.ListOrders(ctx, supplierID, tenantID); err != nil {
		return History{}, apperr.Wrap(apperr.KindInternal, "load supplier orders", err)
	}
	if h.Inquiries, err = s.repo.ListInquiries(ctx, supplierID, tenantID); err != nil {
		return History{}, apperr.Wrap(apperr.KindInternal, "load supplier inquiries", err)
	}
	if h.Documents, err = s.repo.ListDocuments(ctx, supplierID, tenantID); err != nil {
		return History{}, apperr.Wrap(apperr.KindInternal, "load supplier documents", err)
	}
	return h, nil
}

func supplierIDs(suppliers []domain.Supplier) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(suppliers))
	for _, s := range suppliers {
		ids = append(ids, s.ID)
	}
	return ids
}

package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"backoffice_backend/internal/deals/domain"
	"backoffice_backend/internal/deals/repository"
	"backoffice_backend/internal/scoring/engine"

	"github.com/google/uuid"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	svc, err := New(repo, DefaultProfile(), engine.Runner{Concurrency: 4}, nil, nil)
	if err != nil {
		t.Fatalf("service construction failed: %v", err)
	}
	return svc
}

func TestNew_RejectsBadWeightTable(t *testing.T) {
	profile := DefaultProfile()
	profile.Weights.Stage = 0.5

	if _, err := New(nil, profile, engine.Runner{}, nil, nil); err == nil {
		t.Fatal("misconfigured weight table accepted")
	}
}

func TestCompute_HealthyDeal(t *testing.T) {
	svc := newTestService(t, nil)

	lastActivity := now.Add(-12 * time.Hour)
	deal := domain.Deal{
		ID:             uuid.New(),
		Name:           "Enterprise rollout",
		Stage:          domain.StageNegotiation,
		ValueCents:     12_000_000,
		StageEnteredAt: now.Add(-3 * 24 * time.Hour),
		LastActivityAt: &lastActivity,
	}
	activities := make([]domain.Activity, 0)
	for i := 0; i < 8; i++ {
		activities = append(activities, domain.Activity{
			DealID:     deal.ID,
			Kind:       "email",
			OccurredAt: now.Add(-time.Duration(i+1) * 24 * time.Hour),
		})
	}
	activities = append(activities, domain.Activity{
		DealID: deal.ID, Kind: "meeting", OccurredAt: now.Add(-2 * 24 * time.Hour),
	})

	h := svc.Compute(deal, activities, nil, now)

	if h.TotalScore < 80 {
		t.Fatalf("healthy deal scored %v, want >= 80", h.TotalScore)
	}
	if h.Status.Level != "excellent" {
		t.Fatalf("status = %q, want excellent", h.Status.Level)
	}
	for _, cat := range []string{CategoryActivity, CategoryEngagement, CategoryVelocity, CategoryValue, CategoryStage} {
		if _, ok := h.Breakdown[cat]; !ok {
			t.Fatalf("breakdown missing category %q", cat)
		}
	}
}

func TestCompute_NeglectedDealIsCritical(t *testing.T) {
	svc := newTestService(t, nil)

	deal := domain.Deal{
		ID:             uuid.New(),
		Name:           "Cold deal",
		Stage:          domain.StageProspecting,
		ValueCents:     100_000,
		StageEnteredAt: now.Add(-60 * 24 * time.Hour),
	}

	h := svc.Compute(deal, nil, nil, now)

	if h.TotalScore >= 40 {
		t.Fatalf("neglected deal scored %v, want < 40", h.TotalScore)
	}
	if h.Status.Level != "critical" && h.Status.Level != "poor" {
		t.Fatalf("status = %q, want poor or critical", h.Status.Level)
	}

	var reEngage bool
	for _, rec := range h.Recommendations {
		if rec.Title == "Re-engage the buyer" && rec.Priority == engine.PriorityHigh {
			reEngage = true
		}
	}
	if !reEngage {
		t.Fatal("expected a high-priority re-engagement recommendation")
	}
}

func TestCompute_HighValueDriftRecommendation(t *testing.T) {
	svc := newTestService(t, nil)

	deal := domain.Deal{
		ID:             uuid.New(),
		Stage:          domain.StageProspecting,
		ValueCents:     20_000_000,
		StageEnteredAt: now.Add(-45 * 24 * time.Hour),
	}

	h := svc.Compute(deal, nil, nil, now)

	var rescue bool
	for _, rec := range h.Recommendations {
		if rec.Title == "Rescue the high-value deal" {
			rescue = true
		}
	}
	if !rescue {
		t.Fatalf("expected rescue recommendation, got %+v (total %v)", h.Recommendations, h.TotalScore)
	}
}

func TestCompute_MissingDataScoresConservatively(t *testing.T) {
	svc := newTestService(t, nil)

	h := svc.Compute(domain.Deal{ID: uuid.New()}, nil, nil, now)

	if h.Breakdown[CategoryActivity] != 0 {
		t.Fatalf("activity with no data = %v, want 0", h.Breakdown[CategoryActivity])
	}
	if h.Breakdown[CategoryValue] != 0 {
		t.Fatalf("value with no amount = %v, want 0", h.Breakdown[CategoryValue])
	}
	if h.TotalScore < 0 || h.TotalScore > 100 {
		t.Fatalf("total %v out of range", h.TotalScore)
	}
}

// fakeRepo backs batch tests without a database. Setting histErr makes
// every activity and stage-history list fail, simulating an outage.
type fakeRepo struct {
	deals    []domain.Deal
	history  map[uuid.UUID][]domain.StageEntry
	statuses map[uuid.UUID]string
	histErr  error
}

func (f *fakeRepo) GetByID(_ context.Context, dealID, _ uuid.UUID) (domain.Deal, error) {
	for _, d := range f.deals {
		if d.ID == dealID {
			return d, nil
		}
	}
	return domain.Deal{}, repository.ErrNotFound
}

func (f *fakeRepo) ListOpenByTenant(context.Context, uuid.UUID) ([]domain.Deal, error) {
	return f.deals, nil
}

func (f *fakeRepo) ListActivities(context.Context, uuid.UUID, uuid.UUID) ([]domain.Activity, error) {
	return nil, f.histErr
}

func (f *fakeRepo) ListActivitiesForDeals(context.Context, []uuid.UUID, uuid.UUID) (map[uuid.UUID][]domain.Activity, error) {
	return nil, f.histErr
}

func (f *fakeRepo) ListStageHistory(_ context.Context, dealID, _ uuid.UUID) ([]domain.StageEntry, error) {
	if f.histErr != nil {
		return nil, f.histErr
	}
	return f.history[dealID], nil
}

func (f *fakeRepo) ListStageHistoryForDeals(context.Context, []uuid.UUID, uuid.UUID) (map[uuid.UUID][]domain.StageEntry, error) {
	if f.histErr != nil {
		return nil, f.histErr
	}
	return f.history, nil
}

func (f *fakeRepo) UpdateHealth(_ context.Context, dealID, _ uuid.UUID, _ float64, status string, _ string) error {
	if f.statuses == nil {
		f.statuses = make(map[uuid.UUID]string)
	}
	f.statuses[dealID] = status
	return nil
}

func slowHistory(id uuid.UUID) []domain.StageEntry {
	// 60 days in proposal against 14 expected.
	return []domain.StageEntry{{
		ID: uuid.New(), DealID: id, Stage: domain.StageProposal,
		EnteredAt: now.Add(-60 * 24 * time.Hour),
	}}
}

func fastHistory(id uuid.UUID) []domain.StageEntry {
	exit := now.Add(-1 * 24 * time.Hour)
	return []domain.StageEntry{{
		ID: uuid.New(), DealID: id, Stage: domain.StageProspecting,
		EnteredAt: now.Add(-3 * 24 * time.Hour), ExitedAt: &exit,
	}}
}

func TestVelocityBatch_PartitionsSlowDeals(t *testing.T) {
	repo := &fakeRepo{history: make(map[uuid.UUID][]domain.StageEntry)}

	slowA := domain.Deal{ID: uuid.New(), Name: "slow-a", Stage: domain.StageProposal}
	fast := domain.Deal{ID: uuid.New(), Name: "fast", Stage: domain.StageQualification}
	slowB := domain.Deal{ID: uuid.New(), Name: "slow-b", Stage: domain.StageProposal}
	repo.deals = []domain.Deal{slowA, fast, slowB}
	repo.history[slowA.ID] = slowHistory(slowA.ID)
	repo.history[fast.ID] = fastHistory(fast.ID)
	repo.history[slowB.ID] = slowHistory(slowB.ID)

	svc := newTestService(t, repo)

	report, err := svc.VelocityBatch(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("VelocityBatch failed: %v", err)
	}

	if len(report.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(report.Results))
	}
	if len(report.SlowDeals) != 2 {
		t.Fatalf("expected 2 slow deals, got %d", len(report.SlowDeals))
	}
	// Slow subset keeps original input order.
	if report.SlowDeals[0].Name != "slow-a" || report.SlowDeals[1].Name != "slow-b" {
		t.Fatalf("slow deals out of input order: %q, %q", report.SlowDeals[0].Name, report.SlowDeals[1].Name)
	}
	for _, slow := range report.SlowDeals {
		if slow.Velocity.Score >= 40 {
			t.Fatalf("slow deal %q has velocity %v", slow.Name, slow.Velocity.Score)
		}
	}

	if len(report.CommonBottlenecks) == 0 {
		t.Fatal("expected bottleneck aggregation")
	}
	top := report.CommonBottlenecks[0]
	if top.Category != domain.StageProposal || top.Count != 2 {
		t.Fatalf("top bottleneck = %+v, want proposal x2", top)
	}
	if top.Percentage != 66.67 {
		t.Fatalf("bottleneck percentage = %v, want 66.67", top.Percentage)
	}
}

func TestVelocityBatch_SlowPipelineRecommendation(t *testing.T) {
	repo := &fakeRepo{history: make(map[uuid.UUID][]domain.StageEntry)}
	for i := 0; i < 3; i++ {
		d := domain.Deal{ID: uuid.New(), Name: "stuck", Stage: domain.StageProposal}
		repo.deals = append(repo.deals, d)
		repo.history[d.ID] = slowHistory(d.ID)
	}

	svc := newTestService(t, repo)

	report, err := svc.VelocityBatch(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("VelocityBatch failed: %v", err)
	}

	if report.AvgVelocityScore >= 60 {
		t.Fatalf("avg velocity = %v, fixture should be below 60", report.AvgVelocityScore)
	}
	var accelerate bool
	for _, rec := range report.Recommendations {
		if rec.Title == "Accelerate the pipeline" && rec.Priority == engine.PriorityHigh {
			accelerate = true
		}
	}
	if !accelerate {
		t.Fatal("expected a high-priority accelerate recommendation")
	}
}

func TestVelocityBatch_HealthyPipelineHasNoRecommendation(t *testing.T) {
	repo := &fakeRepo{history: make(map[uuid.UUID][]domain.StageEntry)}
	for i := 0; i < 2; i++ {
		d := domain.Deal{ID: uuid.New(), Name: "ok", Stage: domain.StageQualification}
		repo.deals = append(repo.deals, d)
		repo.history[d.ID] = fastHistory(d.ID)
	}

	svc := newTestService(t, repo)

	report, err := svc.VelocityBatch(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("VelocityBatch failed: %v", err)
	}
	if len(report.Recommendations) != 0 {
		t.Fatalf("healthy pipeline got recommendations: %+v", report.Recommendations)
	}
	if len(report.SlowDeals) != 0 {
		t.Fatalf("healthy pipeline flagged slow deals: %d", len(report.SlowDeals))
	}
}

func TestAtRisk_PreservesInputOrder(t *testing.T) {
	repo := &fakeRepo{history: make(map[uuid.UUID][]domain.StageEntry)}

	riskyFirst := domain.Deal{ID: uuid.New(), Name: "zulu", Stage: domain.StageProspecting,
		StageEnteredAt: now.Add(-90 * 24 * time.Hour)}
	healthy := domain.Deal{ID: uuid.New(), Name: "ok", Stage: domain.StageNegotiation,
		ValueCents: 10_000_000, StageEnteredAt: now.Add(-2 * 24 * time.Hour)}
	lastActivity := now.Add(-6 * time.Hour)
	healthy.LastActivityAt = &lastActivity
	riskySecond := domain.Deal{ID: uuid.New(), Name: "alpha", Stage: domain.StageProspecting,
		StageEnteredAt: now.Add(-90 * 24 * time.Hour)}
	repo.deals = []domain.Deal{riskyFirst, healthy, riskySecond}

	svc := newTestService(t, repo)

	atRisk, err := svc.AtRisk(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("AtRisk failed: %v", err)
	}

	if len(atRisk) != 2 {
		t.Fatalf("expected 2 at-risk deals, got %d", len(atRisk))
	}
	// Input order, not name or score order.
	if atRisk[0].Name != "zulu" || atRisk[1].Name != "alpha" {
		t.Fatalf("at-risk order = %q, %q; want input order", atRisk[0].Name, atRisk[1].Name)
	}
	for _, h := range atRisk {
		if h.TotalScore >= 40 {
			t.Fatalf("at-risk deal %q scored %v", h.Name, h.TotalScore)
		}
	}
}

func TestHealthBatch_PersistsStatuses(t *testing.T) {
	repo := &fakeRepo{history: make(map[uuid.UUID][]domain.StageEntry)}
	for i := 0; i < 3; i++ {
		repo.deals = append(repo.deals, domain.Deal{
			ID: uuid.New(), Name: "deal", Stage: domain.StageQualification,
			StageEnteredAt: now.Add(-2 * 24 * time.Hour),
		})
	}

	svc := newTestService(t, repo)

	results, batchErrors, err := svc.HealthBatch(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("HealthBatch failed: %v", err)
	}
	if len(batchErrors) != 0 {
		t.Fatalf("unexpected batch errors: %+v", batchErrors)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if len(repo.statuses) != 3 {
		t.Fatalf("expected 3 persisted statuses, got %d", len(repo.statuses))
	}
}

func TestEvaluateHealth_FailsWhenHistoryUnreadable(t *testing.T) {
	deal := domain.Deal{ID: uuid.New(), Name: "deal", Stage: domain.StageProposal}
	repo := &fakeRepo{
		deals:   []domain.Deal{deal},
		histErr: errors.New("connection reset by peer"),
	}
	svc := newTestService(t, repo)

	if _, err := svc.EvaluateHealth(context.Background(), deal.ID, uuid.New()); err == nil {
		t.Fatal("unreadable history evaluated as an inactive deal")
	}
	if len(repo.statuses) != 0 {
		t.Fatalf("status persisted despite fetch failure: %v", repo.statuses)
	}
}

func TestHealthBatch_FailsWhenHistoryUnreadable(t *testing.T) {
	repo := &fakeRepo{
		deals:   []domain.Deal{{ID: uuid.New(), Name: "deal", Stage: domain.StageProposal}},
		histErr: errors.New("connection reset by peer"),
	}
	svc := newTestService(t, repo)

	if _, _, err := svc.HealthBatch(context.Background(), uuid.New()); err == nil {
		t.Fatal("batch succeeded with unreadable history")
	}
	if len(repo.statuses) != 0 {
		t.Fatalf("statuses persisted despite fetch failure: %v", repo.statuses)
	}
}

func TestVelocityBatch_FailsWhenHistoryUnreadable(t *testing.T) {
	repo := &fakeRepo{
		deals:   []domain.Deal{{ID: uuid.New(), Name: "deal", Stage: domain.StageProposal}},
		histErr: errors.New("connection reset by peer"),
	}
	svc := newTestService(t, repo)

	if _, err := svc.VelocityBatch(context.Background(), uuid.New()); err == nil {
		t.Fatal("velocity batch succeeded with unreadable stage history")
	}
}

package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"backoffice_backend/internal/leads/domain"
	"backoffice_backend/internal/leads/repository"
	"backoffice_backend/internal/scoring/engine"

	"github.com/google/uuid"
)

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(nil, DefaultProfile(), engine.Runner{}, nil, nil)
	if err != nil {
		t.Fatalf("service construction failed: %v", err)
	}
	return svc
}

func TestNew_RejectsBadWeightTable(t *testing.T) {
	profile := DefaultProfile()
	profile.Weights.Behavioral = 0.5 // table now sums to 1.25

	if _, err := New(nil, profile, engine.Runner{}, nil, nil); err == nil {
		t.Fatal("misconfigured weight table accepted")
	}
}

func TestCompute_HighQualityLead(t *testing.T) {
	svc := newTestService(t)

	lead := domain.Lead{
		ID:               uuid.New(),
		Name:             "Alexandra Steen",
		JobTitle:         strPtr("CEO"),
		CompanySize:      intPtr(500),
		EmailOpens:       10,
		MeetingsAttended: 3,
		CreatedAt:        fixedNow.Add(-48 * time.Hour),
	}

	score := svc.Compute(lead, nil, fixedNow)

	if score.TotalScore <= 80 {
		t.Fatalf("high-quality lead scored %v, want > 80", score.TotalScore)
	}
	if !strings.Contains(score.Grade, "A") {
		t.Fatalf("grade = %q, want an A grade", score.Grade)
	}
	if score.ConversionProbability <= 60 {
		t.Fatalf("conversion probability = %v, want > 60", score.ConversionProbability)
	}
	for _, cat := range []string{CategoryDemographic, CategoryFirmographic, CategoryEngagement, CategoryBehavioral} {
		if _, ok := score.Breakdown[cat]; !ok {
			t.Fatalf("breakdown missing category %q", cat)
		}
	}
	if len(score.Recommendations) == 0 {
		t.Fatal("expected recommendations for a sales-ready lead")
	}
}

func TestCompute_LowQualityLead(t *testing.T) {
	svc := newTestService(t)

	lead := domain.Lead{
		ID:          uuid.New(),
		Name:        "Jan Modaal",
		JobTitle:    strPtr("employee"),
		CompanySize: intPtr(10),
		CreatedAt:   fixedNow.Add(-30 * 24 * time.Hour),
	}

	score := svc.Compute(lead, nil, fixedNow)

	if score.TotalScore >= 50 {
		t.Fatalf("low-quality lead scored %v, want < 50", score.TotalScore)
	}
	if score.Grade != "C" && score.Grade != "D" {
		t.Fatalf("grade = %q, want C or D", score.Grade)
	}
	if score.ConversionProbability >= 40 {
		t.Fatalf("conversion probability = %v, want < 40", score.ConversionProbability)
	}
}

func TestCompute_TotalAlwaysInRange(t *testing.T) {
	svc := newTestService(t)

	leads := []domain.Lead{
		{},
		{JobTitle: strPtr("Chief Revenue Officer and Founder"), CompanySize: intPtr(100000),
			EmailOpens: 1000, EmailClicks: 1000, WebsiteVisits: 1000, FormSubmissions: 50,
			ContentDownloads: 99, MeetingsAttended: 40,
			Email: strPtr("x@corp.example"), Phone: strPtr("+31612345678"),
			Industry: strPtr("energy"), Country: strPtr("NL")},
		{JobTitle: strPtr(""), CompanySize: intPtr(-5)},
	}

	for i, lead := range leads {
		score := svc.Compute(lead, nil, fixedNow)
		if score.TotalScore < 0 || score.TotalScore > 100 {
			t.Fatalf("lead %d: total %v out of [0,100]", i, score.TotalScore)
		}
	}
}

func TestCompute_MissingDataConservatism(t *testing.T) {
	svc := newTestService(t)

	base := domain.Lead{
		ID:          uuid.New(),
		JobTitle:    strPtr("Operations Manager"),
		CompanySize: intPtr(200),
	}
	engaged := base
	engaged.EmailOpens = 6
	engaged.WebsiteVisits = 5
	engaged.MeetingsAttended = 1

	bare := svc.Compute(base, nil, fixedNow)
	rich := svc.Compute(engaged, nil, fixedNow)

	if bare.TotalScore > rich.TotalScore {
		t.Fatalf("absent engagement fields outscored present ones: %v > %v", bare.TotalScore, rich.TotalScore)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	svc := newTestService(t)

	lead := domain.Lead{
		ID:               uuid.New(),
		JobTitle:         strPtr("VP Engineering"),
		CompanySize:      intPtr(350),
		EmailOpens:       4,
		MeetingsAttended: 2,
		LastActivityAt:   func() *time.Time { ts := fixedNow.Add(-36 * time.Hour); return &ts }(),
	}

	first := svc.Compute(lead, nil, fixedNow)
	for i := 0; i < 20; i++ {
		again := svc.Compute(lead, nil, fixedNow)
		if again.TotalScore != first.TotalScore || again.Grade != first.Grade {
			t.Fatalf("score drifted on identical input: %v/%v vs %v/%v",
				again.TotalScore, again.Grade, first.TotalScore, first.Grade)
		}
	}
}

func TestCompute_InteractionRecencyLiftsBehavioral(t *testing.T) {
	svc := newTestService(t)

	lead := domain.Lead{ID: uuid.New(), MeetingsAttended: 1}
	recent := []domain.Interaction{{LeadID: lead.ID, Kind: "call", OccurredAt: fixedNow.Add(-2 * time.Hour)}}

	quiet := svc.Compute(lead, nil, fixedNow)
	active := svc.Compute(lead, recent, fixedNow)

	if active.Breakdown[CategoryBehavioral] <= quiet.Breakdown[CategoryBehavioral] {
		t.Fatalf("recent interaction did not lift behavioral score: %v <= %v",
			active.Breakdown[CategoryBehavioral], quiet.Breakdown[CategoryBehavioral])
	}
}

// fakeRepo backs batch tests without a database. Setting histErr makes
// the interaction lists fail, simulating an outage.
type fakeRepo struct {
	leads   []domain.Lead
	scores  map[uuid.UUID]float64
	histErr error
}

func (f *fakeRepo) GetByID(_ context.Context, leadID, _ uuid.UUID) (domain.Lead, error) {
	for _, l := range f.leads {
		if l.ID == leadID {
			return l, nil
		}
	}
	return domain.Lead{}, repository.ErrNotFound
}

func (f *fakeRepo) ListByTenant(context.Context, uuid.UUID) ([]domain.Lead, error) {
	return f.leads, nil
}

func (f *fakeRepo) ListInteractions(context.Context, uuid.UUID, uuid.UUID) ([]domain.Interaction, error) {
	return nil, f.histErr
}

func (f *fakeRepo) ListInteractionsForLeads(context.Context, []uuid.UUID, uuid.UUID) (map[uuid.UUID][]domain.Interaction, error) {
	return nil, f.histErr
}

func (f *fakeRepo) UpdateScore(_ context.Context, leadID, _ uuid.UUID, score float64, _ string, _ string) error {
	if f.scores == nil {
		f.scores = make(map[uuid.UUID]float64)
	}
	f.scores[leadID] = score
	return nil
}

func TestScoreBatch_SortedDescendingWithFullRows(t *testing.T) {
	specs := []struct {
		name   string
		opens  int
		visits int
	}{
		{"low", 2, 3},
		{"high", 10, 15},
		{"mid", 5, 8},
	}

	repo := &fakeRepo{}
	for _, sp := range specs {
		repo.leads = append(repo.leads, domain.Lead{
			ID:            uuid.New(),
			Name:          sp.name,
			EmailOpens:    sp.opens,
			WebsiteVisits: sp.visits,
		})
	}

	svc, err := New(repo, DefaultProfile(), engine.Runner{Concurrency: 4}, nil, nil)
	if err != nil {
		t.Fatalf("service construction failed: %v", err)
	}

	batch, err := svc.ScoreBatch(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ScoreBatch failed: %v", err)
	}

	if len(batch.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(batch.Results))
	}
	for i := 1; i < len(batch.Results); i++ {
		if batch.Results[i].TotalScore > batch.Results[i-1].TotalScore {
			t.Fatalf("results not sorted descending at %d", i)
		}
	}
	if batch.Results[0].Name != "high" {
		t.Fatalf("top lead = %q, want %q", batch.Results[0].Name, "high")
	}
	for _, r := range batch.Results {
		if r.LeadID == uuid.Nil || r.Name == "" || r.Grade == "" {
			t.Fatalf("result row incomplete: %+v", r)
		}
	}
	if len(repo.scores) != 3 {
		t.Fatalf("expected 3 persisted scores, got %d", len(repo.scores))
	}
}

func TestRanked_RespectsLimit(t *testing.T) {
	repo := &fakeRepo{}
	for i := 0; i < 5; i++ {
		repo.leads = append(repo.leads, domain.Lead{
			ID:         uuid.New(),
			Name:       "lead",
			EmailOpens: i * 3,
		})
	}

	svc, err := New(repo, DefaultProfile(), engine.Runner{}, nil, nil)
	if err != nil {
		t.Fatalf("service construction failed: %v", err)
	}

	top, err := svc.Ranked(context.Background(), uuid.New(), 2)
	if err != nil {
		t.Fatalf("Ranked failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 results, got %d", len(top))
	}
	if top[1].TotalScore > top[0].TotalScore {
		t.Fatal("ranked output not descending")
	}
	// Ranked must not persist.
	if len(repo.scores) != 0 {
		t.Fatalf("Ranked persisted %d scores", len(repo.scores))
	}
}

func TestScoreLead_FailsWhenInteractionsUnreadable(t *testing.T) {
	lead := domain.Lead{ID: uuid.New(), Name: "lead"}
	repo := &fakeRepo{
		leads:   []domain.Lead{lead},
		histErr: errors.New("connection reset by peer"),
	}

	svc, err := New(repo, DefaultProfile(), engine.Runner{}, nil, nil)
	if err != nil {
		t.Fatalf("service construction failed: %v", err)
	}

	if _, err := svc.ScoreLead(context.Background(), lead.ID, uuid.New()); err == nil {
		t.Fatal("unreadable interactions scored as an inactive lead")
	}
	if len(repo.scores) != 0 {
		t.Fatalf("score persisted despite fetch failure: %v", repo.scores)
	}
}

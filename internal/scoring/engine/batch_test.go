package engine

import (
	"context"
	"errors"
	"testing"
)

type fakeEntity struct {
	id    string
	score float64
	fail  bool
	panic bool
}

func scoreFake(e fakeEntity) (Result, error) {
	if e.fail {
		return Result{}, errors.New("extraction failed")
	}
	if e.panic {
		panic("extractor bug")
	}
	return Result{
		Total:           e.score,
		Grade:           GradeFor(e.score),
		Recommendations: []Recommendation{},
	}, nil
}

func runFakes(t *testing.T, r Runner, items []fakeEntity) Batch {
	t.Helper()
	return Run(context.Background(), r, items, func(e fakeEntity) string { return e.id }, scoreFake)
}

func TestRun_RanksDescendingWithStableTies(t *testing.T) {
	items := []fakeEntity{
		{id: "A", score: 80},
		{id: "B", score: 90},
		{id: "C", score: 80},
	}

	batch := runFakes(t, Runner{}, items)

	if len(batch.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(batch.Results))
	}
	got := []string{batch.Results[0].ID, batch.Results[1].ID, batch.Results[2].ID}
	want := []string{"B", "A", "C"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rank order = %v, want %v", got, want)
		}
	}
}

func TestRun_TieBreakIsInputOrderNotID(t *testing.T) {
	// "zed" sorts after "ant" alphabetically; input order must win.
	items := []fakeEntity{
		{id: "zed", score: 70},
		{id: "ant", score: 70},
	}

	batch := runFakes(t, Runner{}, items)

	if batch.Results[0].ID != "zed" || batch.Results[1].ID != "ant" {
		t.Fatalf("tie-break used ID comparison: %v, %v", batch.Results[0].ID, batch.Results[1].ID)
	}
}

func TestRun_ContainsPerItemFailures(t *testing.T) {
	items := []fakeEntity{
		{id: "ok-1", score: 60},
		{id: "bad", fail: true},
		{id: "ok-2", score: 40},
	}

	batch := runFakes(t, Runner{}, items)

	if len(batch.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(batch.Results))
	}
	if len(batch.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(batch.Errors))
	}
	if batch.Errors[0].ID != "bad" {
		t.Fatalf("error recorded for %q, want %q", batch.Errors[0].ID, "bad")
	}
	// Errored entities are excluded from the denominator.
	if batch.AvgScore != 50 {
		t.Fatalf("AvgScore = %v, want 50", batch.AvgScore)
	}
}

func TestRun_ContainsPanics(t *testing.T) {
	items := []fakeEntity{
		{id: "boom", panic: true},
		{id: "ok", score: 75},
	}

	batch := runFakes(t, Runner{Concurrency: 4}, items)

	if len(batch.Results) != 1 || batch.Results[0].ID != "ok" {
		t.Fatalf("panic aborted the batch: %+v", batch)
	}
	if len(batch.Errors) != 1 || batch.Errors[0].ID != "boom" {
		t.Fatalf("panic not captured as batch error: %+v", batch.Errors)
	}
}

func TestRun_EmptyInput(t *testing.T) {
	batch := runFakes(t, Runner{}, nil)

	if batch.Results == nil || batch.Errors == nil {
		t.Fatal("batch slices must never be nil")
	}
	if batch.AvgScore != 0 {
		t.Fatalf("AvgScore = %v, want 0", batch.AvgScore)
	}
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	items := make([]fakeEntity, 0, 20)
	for i := 0; i < 20; i++ {
		items = append(items, fakeEntity{id: string(rune('a' + i)), score: float64(i * 5)})
	}

	seq := runFakes(t, Runner{Concurrency: 1}, items)
	par := runFakes(t, Runner{Concurrency: 8}, items)

	if seq.AvgScore != par.AvgScore {
		t.Fatalf("avg diverged: %v vs %v", seq.AvgScore, par.AvgScore)
	}
	for i := range seq.Results {
		if seq.Results[i].ID != par.Results[i].ID {
			t.Fatalf("order diverged at %d: %v vs %v", i, seq.Results[i].ID, par.Results[i].ID)
		}
	}
}

func TestTopBottlenecks(t *testing.T) {
	stages := []string{"proposal", "proposal", "negotiation", "proposal", "qualification", "negotiation"}

	top := TopBottlenecks(stages, 6, 3)

	if len(top) != 3 {
		t.Fatalf("expected 3 bottlenecks, got %d", len(top))
	}
	if top[0].Category != "proposal" || top[0].Count != 3 {
		t.Fatalf("top bottleneck wrong: %+v", top[0])
	}
	if top[0].Percentage != 50 {
		t.Fatalf("percentage = %v, want 50", top[0].Percentage)
	}
	if top[1].Category != "negotiation" {
		t.Fatalf("second bottleneck = %q, want negotiation", top[1].Category)
	}
}

func TestBelowCutoff_PreservesInputOrder(t *testing.T) {
	items := []fakeEntity{
		{id: "first", score: 30},
		{id: "mid", score: 90},
		{id: "last", score: 10},
	}

	batch := runFakes(t, Runner{}, items)
	slow := BelowCutoff(batch.Results, 40, func(s Scored) float64 { return s.Result.Total })

	if len(slow) != 2 {
		t.Fatalf("expected 2 below cutoff, got %d", len(slow))
	}
	if slow[0].ID != "first" || slow[1].ID != "last" {
		t.Fatalf("input order not preserved: %v, %v", slow[0].ID, slow[1].ID)
	}
}

package engine

import "testing"

func testWeights() Weights {
	return Weights{
		{Category: "alpha", Value: 0.5},
		{Category: "beta", Value: 0.3},
		{Category: "gamma", Value: 0.2},
	}
}

func TestWeights_Validate(t *testing.T) {
	if err := testWeights().Validate(); err != nil {
		t.Fatalf("valid weights rejected: %v", err)
	}

	bad := Weights{{Category: "alpha", Value: 0.5}, {Category: "beta", Value: 0.4}}
	if err := bad.Validate(); err == nil {
		t.Fatal("weights summing to 0.9 accepted")
	}

	dup := Weights{{Category: "alpha", Value: 0.5}, {Category: "alpha", Value: 0.5}}
	if err := dup.Validate(); err == nil {
		t.Fatal("duplicate category accepted")
	}

	neg := Weights{{Category: "alpha", Value: 1.5}, {Category: "beta", Value: -0.5}}
	if err := neg.Validate(); err == nil {
		t.Fatal("negative weight accepted")
	}

	if err := (Weights{}).Validate(); err == nil {
		t.Fatal("empty table accepted")
	}
}

func TestNewScorer_RejectsMisconfiguredTable(t *testing.T) {
	if _, err := NewScorer(Weights{{Category: "only", Value: 0.7}}); err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestMustScorer_PanicsOnBadTable(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustScorer(Weights{{Category: "only", Value: 0.7}})
}

func TestScorer_Score(t *testing.T) {
	s := MustScorer(testWeights())

	b := Breakdown{"alpha": 100, "beta": 50, "gamma": 0}
	if got := s.Score(b); got != 65 {
		t.Fatalf("Score = %v, want 65", got)
	}
}

func TestScorer_MissingCategoryCountsAsZero(t *testing.T) {
	s := MustScorer(testWeights())

	full := s.Score(Breakdown{"alpha": 80, "beta": 80, "gamma": 80})
	partial := s.Score(Breakdown{"alpha": 80, "beta": 80})
	if partial >= full {
		t.Fatalf("missing category should depress score: partial %v >= full %v", partial, full)
	}

	want := Round2(80*0.5 + 80*0.3)
	if partial != want {
		t.Fatalf("partial = %v, want %v", partial, want)
	}
}

func TestScorer_ClampsOutOfRangeInputs(t *testing.T) {
	s := MustScorer(testWeights())

	got := s.Score(Breakdown{"alpha": 250, "beta": -40, "gamma": 100})
	want := Round2(100*0.5 + 0*0.3 + 100*0.2)
	if got != want {
		t.Fatalf("Score = %v, want %v", got, want)
	}
}

func TestScorer_Monotonicity(t *testing.T) {
	s := MustScorer(testWeights())

	base := Breakdown{"alpha": 30, "beta": 40, "gamma": 50}
	baseline := s.Score(base)

	for _, cat := range []string{"alpha", "beta", "gamma"} {
		bumped := Breakdown{"alpha": base["alpha"], "beta": base["beta"], "gamma": base["gamma"]}
		bumped[cat] += 20
		if got := s.Score(bumped); got < baseline {
			t.Fatalf("raising %s lowered total: %v < %v", cat, got, baseline)
		}
	}
}

func TestScorer_Idempotent(t *testing.T) {
	s := MustScorer(testWeights())
	b := Breakdown{"alpha": 33.33, "beta": 66.67, "gamma": 12.5}

	first := s.Score(b)
	for i := 0; i < 100; i++ {
		if got := s.Score(b); got != first {
			t.Fatalf("score changed across calls: %v != %v", got, first)
		}
	}
}

func TestScorer_Contributions(t *testing.T) {
	s := MustScorer(testWeights())
	b := Breakdown{"alpha": 100, "beta": 50}

	contribs := s.Contributions(b)
	if len(contribs) != 3 {
		t.Fatalf("expected 3 contributions, got %d", len(contribs))
	}
	if contribs[0].Category != "alpha" || contribs[0].Points != 50 {
		t.Fatalf("alpha contribution wrong: %+v", contribs[0])
	}
	if contribs[2].Category != "gamma" || contribs[2].Points != 0 {
		t.Fatalf("gamma contribution wrong: %+v", contribs[2])
	}
}

func TestScorer_NormalizeFillsMissingCategories(t *testing.T) {
	s := MustScorer(testWeights())

	norm := s.Normalize(Breakdown{"alpha": 70})
	for _, cat := range []string{"alpha", "beta", "gamma"} {
		if _, ok := norm[cat]; !ok {
			t.Fatalf("normalized breakdown missing %q", cat)
		}
	}
	if norm["beta"] != 0 {
		t.Fatalf("missing category should normalize to 0, got %v", norm["beta"])
	}
}

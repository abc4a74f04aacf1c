package engine

import (
	"fmt"

	"backoffice_backend/platform/apperr"
)

// weightEpsilon is the tolerance when checking that weights sum to 1.0.
const weightEpsilon = 1e-6

// Weight assigns a relative importance to one breakdown category.
type Weight struct {
	Category string
	Value    float64
}

// Weights is an ordered weight table for one scoring profile.
// Order is fixed at construction so that score composition is deterministic:
// summing in a stable order makes repeated calls bit-identical.
type Weights []Weight

// Validate checks that the table is well formed: no duplicate or empty
// categories, no negative weights, and a total of 1.0 within epsilon.
// A failure here is a programming error, not a data problem.
func (w Weights) Validate() error {
	if len(w) == 0 {
		return apperr.Configuration("weight table is empty")
	}

	seen := make(map[string]bool, len(w))
	sum := 0.0
	for _, entry := range w {
		if entry.Category == "" {
			return apperr.Configuration("weight table has an unnamed category")
		}
		if seen[entry.Category] {
			return apperr.Configuration(fmt.Sprintf("duplicate weight category %q", entry.Category))
		}
		seen[entry.Category] = true
		if entry.Value < 0 {
			return apperr.Configuration(fmt.Sprintf("negative weight for category %q", entry.Category))
		}
		sum += entry.Value
	}

	if diff := sum - 1.0; diff > weightEpsilon || diff < -weightEpsilon {
		return apperr.Configuration(fmt.Sprintf("weights sum to %.6f, must sum to 1.0", sum))
	}

	return nil
}

// Categories returns the category names in table order.
func (w Weights) Categories() []string {
	names := make([]string, len(w))
	for i, entry := range w {
		names[i] = entry.Category
	}
	return names
}

// Scorer combines a metric breakdown into a weighted composite score.
type Scorer struct {
	weights Weights
}

// NewScorer validates the weight table and returns a scorer for it.
func NewScorer(weights Weights) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: weights}, nil
}

// MustScorer is NewScorer that panics on a misconfigured table.
// Used for package-level scoring profiles so a bad table fails at load,
// never silently at request time.
func MustScorer(weights Weights) *Scorer {
	s, err := NewScorer(weights)
	if err != nil {
		panic(err)
	}
	return s
}

// Weights returns the scorer's weight table.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score returns the weighted composite in [0, 100], rounded to two decimals.
// Categories absent from the breakdown contribute 0. Category values are
// clamped to [0, 100] before weighting.
func (s *Scorer) Score(b Breakdown) float64 {
	total := 0.0
	for _, entry := range s.weights {
		total += Clamp(b.Get(entry.Category), 0, 100) * entry.Value
	}
	return Round2(Clamp(total, 0, 100))
}

// Contributions returns the per-category share of the total, in table order,
// for diagnostic and breakdown display.
func (s *Scorer) Contributions(b Breakdown) []Contribution {
	out := make([]Contribution, 0, len(s.weights))
	for _, entry := range s.weights {
		score := Clamp(b.Get(entry.Category), 0, 100)
		out = append(out, Contribution{
			Category: entry.Category,
			Score:    score,
			Weight:   entry.Value,
			Points:   Round2(score * entry.Value),
		})
	}
	return out
}

// Normalize returns a copy of the breakdown with every weighted category
// present, filling absent ones with 0.
func (s *Scorer) Normalize(b Breakdown) Breakdown {
	out := make(Breakdown, len(s.weights))
	for _, entry := range s.weights {
		out[entry.Category] = Clamp(b.Get(entry.Category), 0, 100)
	}
	return out
}

// Package engine provides the generic scoring machinery shared by the lead,
// deal, and supplier scoring services: weighted composition of normalized
// metric breakdowns, grade and status mapping, rule-based recommendations,
// and batch execution with aggregation.
package engine

import "math"

// Breakdown maps a category name to its normalized score (0-100).
// Every category referenced by the active weight table is treated as present;
// a missing key reads as 0 so incomplete data depresses the total.
type Breakdown map[string]float64

// Get returns the category score, or 0 when the category is absent.
func (b Breakdown) Get(category string) float64 {
	if b == nil {
		return 0
	}
	return b[category]
}

// Status is the qualitative band attached to a health-style score.
// Icon is a presentation tag only; the engine never renders it.
type Status struct {
	Level string `json:"level"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// Priority ranks a recommendation independent of rule evaluation order.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation is a single actionable suggestion derived from the breakdown.
type Recommendation struct {
	Priority Priority `json:"priority"`
	Title    string   `json:"title"`
	Reason   string   `json:"reason"`
	Icon     string   `json:"icon,omitempty"`
}

// Contribution is the diagnostic share a single category adds to the total.
type Contribution struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	Weight   float64 `json:"weight"`
	Points   float64 `json:"points"`
}

// Result is the immutable outcome of scoring one entity.
// Recommendations is never nil.
type Result struct {
	Total           float64          `json:"totalScore"`
	Grade           string           `json:"grade"`
	Status          Status           `json:"status"`
	Breakdown       Breakdown        `json:"breakdown"`
	Contributions   []Contribution   `json:"contributions"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Round2 rounds to two decimal places, the precision of every total score.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Clamp bounds v to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

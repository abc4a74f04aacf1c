package engine

// Rule pairs a condition with the recommendation it produces. Rules are
// evaluated in list order but every matching rule fires; the Priority field
// is independent of position in the list.
type Rule struct {
	When     func(b Breakdown, total float64) bool
	Priority Priority
	Title    string
	Reason   string
	Icon     string
}

// RuleSet is an ordered list of recommendation rules for one scoring profile.
type RuleSet []Rule

// Evaluate returns a recommendation for every rule whose condition holds.
// The result is deterministic for a given breakdown and never nil; callers
// that need priority ordering sort it themselves.
func (rs RuleSet) Evaluate(b Breakdown, total float64) []Recommendation {
	out := make([]Recommendation, 0, 4)
	for _, rule := range rs {
		if rule.When == nil || !rule.When(b, total) {
			continue
		}
		out = append(out, Recommendation{
			Priority: rule.Priority,
			Title:    rule.Title,
			Reason:   rule.Reason,
			Icon:     rule.Icon,
		})
	}
	return out
}

// priorityRank orders priorities for display sorting in batch aggregates.
func priorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// SortByPriority orders recommendations high before medium before low,
// preserving relative order within a priority. Used by batch aggregation;
// single-entity results keep rule order.
func SortByPriority(recs []Recommendation) []Recommendation {
	out := make([]Recommendation, 0, len(recs))
	for rank := 0; rank <= 2; rank++ {
		for _, rec := range recs {
			if priorityRank(rec.Priority) == rank {
				out = append(out, rec)
			}
		}
	}
	return out
}

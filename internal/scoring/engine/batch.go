package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// Runner executes the single-entity pipeline across a collection.
// Concurrency <= 1 runs sequentially. Timeout, when positive, bounds the
// whole batch: items not scored in time are reported as skipped rather than
// partially computed.
type Runner struct {
	Concurrency int
	Timeout     time.Duration
}

// BatchError records one entity that could not be scored. The batch
// continues past it and aggregates exclude it.
type BatchError struct {
	ID      string `json:"id"`
	Error   string `json:"error"`
	Skipped bool   `json:"skipped,omitempty"`
}

// Scored pairs one entity's result with its identity and input position.
type Scored struct {
	ID     string `json:"id"`
	Index  int    `json:"-"`
	Result Result `json:"result"`
}

// Batch is the outcome of a batch run. Results are ordered by descending
// total with ties keeping input order.
type Batch struct {
	Results  []Scored     `json:"results"`
	Errors   []BatchError `json:"errors"`
	AvgScore float64      `json:"avgScore"`
}

// Run scores every item. Per-item failures (errors or panics) are captured
// as BatchError entries; they never abort the batch. Aggregates are computed
// only after all items finish or the timeout fires.
func Run[T any](ctx context.Context, r Runner, items []T, id func(T) string, score func(T) (Result, error)) Batch {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	type slot struct {
		result Result
		err    error
		done   bool
	}
	slots := make([]slot, len(items))

	g := new(errgroup.Group)
	limit := r.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			defer func() {
				if rec := recover(); rec != nil {
					slots[i] = slot{err: fmt.Errorf("panic: %v", rec), done: true}
				}
			}()
			res, err := score(item)
			slots[i] = slot{result: res, err: err, done: true}
			return nil
		})
	}
	_ = g.Wait()

	batch := Batch{
		Results: make([]Scored, 0, len(items)),
		Errors:  make([]BatchError, 0),
	}

	sum := 0.0
	for i, s := range slots {
		entityID := id(items[i])
		switch {
		case !s.done:
			batch.Errors = append(batch.Errors, BatchError{ID: entityID, Error: "batch timeout", Skipped: true})
		case s.err != nil:
			batch.Errors = append(batch.Errors, BatchError{ID: entityID, Error: s.err.Error()})
		default:
			batch.Results = append(batch.Results, Scored{ID: entityID, Index: i, Result: s.result})
			sum += s.result.Total
		}
	}

	// Rank by total descending; SliceStable keeps input order on ties.
	sort.SliceStable(batch.Results, func(a, b int) bool {
		return batch.Results[a].Result.Total > batch.Results[b].Result.Total
	})

	if len(batch.Results) > 0 {
		batch.AvgScore = Round2(sum / float64(len(batch.Results)))
	}

	return batch
}

// Bottleneck is a categorical dimension (pipeline stage, metric category)
// disproportionately associated with low scores in a batch.
type Bottleneck struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TopBottlenecks counts occurrences per category, converts them to a share
// of the batch size, and returns the top n sorted by descending percentage.
// Ties keep first-seen order.
func TopBottlenecks(categories []string, batchSize, n int) []Bottleneck {
	if batchSize <= 0 || n <= 0 {
		return []Bottleneck{}
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, cat := range categories {
		if cat == "" {
			continue
		}
		if _, seen := counts[cat]; !seen {
			order = append(order, cat)
		}
		counts[cat]++
	}

	out := make([]Bottleneck, 0, len(order))
	for _, cat := range order {
		out = append(out, Bottleneck{
			Category:   cat,
			Count:      counts[cat],
			Percentage: Round2(float64(counts[cat]) / float64(batchSize) * 100),
		})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Percentage > out[b].Percentage
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}

// BelowCutoff filters scored entities whose chosen metric falls below the
// cutoff, preserving original input order within the subset.
func BelowCutoff(results []Scored, cutoff float64, metric func(Scored) float64) []Scored {
	out := make([]Scored, 0)
	byInput := append([]Scored(nil), results...)
	sort.SliceStable(byInput, func(a, b int) bool {
		return byInput[a].Index < byInput[b].Index
	})
	for _, r := range byInput {
		if metric(r) < cutoff {
			out = append(out, r)
		}
	}
	return out
}

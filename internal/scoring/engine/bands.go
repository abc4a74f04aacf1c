package engine

import "time"

// DecayBand awards Score when the elapsed time is at most UpTo.
type DecayBand struct {
	UpTo  time.Duration
	Score float64
}

// DecayBands is a monotonic time-decay table: bands are ordered by ascending
// UpTo and the first band covering the elapsed duration wins. Scores step
// down in discrete bands rather than interpolating, so fixture values stay
// exact. Cutoffs are tunable configuration, not load-bearing contracts.
type DecayBands struct {
	Bands    []DecayBand
	Fallback float64
}

// Score returns the band score for the elapsed duration, or Fallback when
// every band is exceeded. A negative elapsed duration (clock skew on
// user-entered timestamps) reads as zero.
func (d DecayBands) Score(elapsed time.Duration) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	for _, band := range d.Bands {
		if elapsed <= band.UpTo {
			return band.Score
		}
	}
	return d.Fallback
}

// Horizon returns the largest band cutoff; past it Score falls back.
func (d DecayBands) Horizon() time.Duration {
	var max time.Duration
	for _, band := range d.Bands {
		if band.UpTo > max {
			max = band.UpTo
		}
	}
	return max
}

// ValueBand awards Score when a value is at least Min.
type ValueBand struct {
	Min   float64
	Score float64
}

// ValueBands is a descending threshold table: the first band whose Min the
// value meets wins. Used for count- and size-based indicators.
type ValueBands struct {
	Bands    []ValueBand
	Fallback float64
}

// Score returns the band score for the value.
func (v ValueBands) Score(value float64) float64 {
	for _, band := range v.Bands {
		if value >= band.Min {
			return band.Score
		}
	}
	return v.Fallback
}

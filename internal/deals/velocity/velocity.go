// Package velocity measures how fast deals move through the pipeline
// compared with the expected pace per stage.
package velocity

import (
	"time"

	"backoffice_backend/internal/deals/domain"
	"backoffice_backend/internal/scoring/engine"
)

// StageDurations maps each pipeline stage to its expected dwell time.
// Stages not in the map fall back to Default.
type StageDurations struct {
	Expected map[string]time.Duration
	Default  time.Duration
}

// Config holds the velocity tuning tables. All of it is injected
// configuration; tuning never requires code changes elsewhere.
type Config struct {
	Durations StageDurations

	// PaceBands score the pace factor (expected / actual dwell time).
	// A factor above 1 means the stage moved faster than expected.
	PaceBands engine.ValueBands

	// SlowCutoff partitions slow deals in batch aggregation.
	SlowCutoff float64
}

// DefaultConfig returns the tuning used when a tenant has no overrides.
func DefaultConfig() Config {
	day := 24 * time.Hour
	return Config{
		Durations: StageDurations{
			Expected: map[string]time.Duration{
				domain.StageProspecting:   7 * day,
				domain.StageQualification: 10 * day,
				domain.StageProposal:      14 * day,
				domain.StageNegotiation:   10 * day,
				domain.StageClosing:       7 * day,
			},
			Default: 10 * day,
		},
		PaceBands: engine.ValueBands{
			Bands: []engine.ValueBand{
				{Min: 2.0, Score: 100},
				{Min: 1.0, Score: 85},
				{Min: 0.67, Score: 60},
				{Min: 0.5, Score: 40},
				{Min: 0.33, Score: 20},
			},
			Fallback: 5,
		},
		SlowCutoff: 40,
	}
}

func (d StageDurations) expected(stage string) time.Duration {
	if dur, ok := d.Expected[stage]; ok {
		return dur
	}
	return d.Default
}

// StagePace is the measured pace of one stage hop.
type StagePace struct {
	Stage   string  `json:"stage"`
	Days    float64 `json:"days"`
	Overrun float64 `json:"overrun"`
	Score   float64 `json:"score"`
}

// Velocity is the per-deal pace verdict. Bottleneck names the stage with
// the worst overrun, empty when every stage kept pace.
type Velocity struct {
	Score      float64     `json:"score"`
	Bottleneck string      `json:"bottleneck,omitempty"`
	Stages     []StagePace `json:"stages"`
}

// Analyzer scores deal pace from stage history.
type Analyzer struct {
	cfg Config
}

func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// ForDeal scores one deal's pace. With no recorded history the current
// stage alone is measured from StageEnteredAt; a deal that has sat nowhere
// too long scores on pace.
func (a *Analyzer) ForDeal(deal domain.Deal, history []domain.StageEntry, now time.Time) Velocity {
	entries := history
	if len(entries) == 0 {
		entries = []domain.StageEntry{{
			DealID:    deal.ID,
			Stage:     deal.Stage,
			EnteredAt: deal.StageEnteredAt,
		}}
	}

	v := Velocity{Stages: make([]StagePace, 0, len(entries))}
	sum := 0.0
	worst := 0.0

	for _, entry := range entries {
		end := now
		if entry.ExitedAt != nil {
			end = *entry.ExitedAt
		}
		actual := end.Sub(entry.EnteredAt)
		if actual < 0 {
			actual = 0
		}
		expected := a.cfg.Durations.expected(entry.Stage)

		pace := StagePace{
			Stage: entry.Stage,
			Days:  engine.Round2(actual.Hours() / 24),
		}
		if actual == 0 {
			// A stage entered just now has no meaningful pace yet.
			pace.Overrun = 0
			pace.Score = a.cfg.PaceBands.Score(2.0)
		} else {
			pace.Overrun = engine.Round2(float64(actual) / float64(expected))
			pace.Score = a.cfg.PaceBands.Score(float64(expected) / float64(actual))
		}

		if pace.Overrun > 1 && pace.Overrun > worst {
			worst = pace.Overrun
			v.Bottleneck = pace.Stage
		}

		sum += pace.Score
		v.Stages = append(v.Stages, pace)
	}

	v.Score = engine.Round2(sum / float64(len(v.Stages)))
	return v
}

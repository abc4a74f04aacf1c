package engine

import "testing"

func TestGradeFor_Table(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{95, "A+"},
		{85, "A"},
		{75, "B+"},
		{65, "B"},
		{55, "C+"},
		{45, "C"},
		{35, "D"},
		{0, "D"},
		{100, "A+"},
	}

	for _, tc := range cases {
		if got := GradeFor(tc.score); got != tc.want {
			t.Fatalf("GradeFor(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestGradeFor_BoundariesResolveToHigherBand(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{90, "A+"},
		{80, "A"},
		{70, "B+"},
		{60, "B"},
		{50, "C+"},
		{40, "C"},
	}

	for _, tc := range cases {
		if got := GradeFor(tc.score); got != tc.want {
			t.Fatalf("boundary GradeFor(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestStatusFor_Bands(t *testing.T) {
	cases := []struct {
		score float64
		level string
	}{
		{92, "excellent"},
		{80, "excellent"},
		{79.99, "good"},
		{60, "good"},
		{40, "fair"},
		{20, "poor"},
		{19.99, "critical"},
		{0, "critical"},
	}

	for _, tc := range cases {
		status := StatusFor(tc.score)
		if status.Level != tc.level {
			t.Fatalf("StatusFor(%v).Level = %q, want %q", tc.score, status.Level, tc.level)
		}
		if status.Label == "" || status.Icon == "" {
			t.Fatalf("StatusFor(%v) missing label or icon: %+v", tc.score, status)
		}
	}
}

package engine

// gradeTable maps a composite score to a letter grade. Thresholds are
// inclusive at the lower bound: a score of exactly 80 grades as "A".
var gradeTable = []struct {
	min   float64
	grade string
}{
	{90, "A+"},
	{80, "A"},
	{70, "B+"},
	{60, "B"},
	{50, "C+"},
	{40, "C"},
}

// GradeFor maps a composite score to its letter grade.
func GradeFor(score float64) string {
	for _, entry := range gradeTable {
		if score >= entry.min {
			return entry.grade
		}
	}
	return "D"
}

// statusBands maps a composite score to a qualitative health band.
// Ties at a boundary resolve to the higher band.
var statusBands = []struct {
	min    float64
	status Status
}{
	{80, Status{Level: "excellent", Label: "Excellent", Icon: "trending-up"}},
	{60, Status{Level: "good", Label: "Good", Icon: "thumbs-up"}},
	{40, Status{Level: "fair", Label: "Fair", Icon: "minus-circle"}},
	{20, Status{Level: "poor", Label: "Poor", Icon: "alert-triangle"}},
}

var criticalStatus = Status{Level: "critical", Label: "Critical", Icon: "alert-octagon"}

// StatusFor maps a composite score to its health band.
func StatusFor(score float64) Status {
	for _, entry := range statusBands {
		if score >= entry.min {
			return entry.status
		}
	}
	return criticalStatus
}

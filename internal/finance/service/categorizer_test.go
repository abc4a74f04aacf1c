package service

import "testing"

func TestCategorize_EnglishKeywords(t *testing.T) {
	c := NewCategorizer(DefaultTables())

	cases := []struct {
		description string
		category    string
	}{
		{"Hotel booking for the trade fair", "travel"},
		{"Team lunch with the client", "meals"},
		{"Monthly office rent payment", "rent"},
		{"Annual SaaS subscription renewal", "software"},
		{"Printer toner refill", "office-supplies"},
		{"Facebook ads for spring campaign", "marketing"},
	}
	for _, tc := range cases {
		got := c.Categorize(tc.description)
		if got.Category != tc.category {
			t.Fatalf("Categorize(%q) = %q, want %q", tc.description, got.Category, tc.category)
		}
		if got.Keyword == "" || got.Confidence <= 0 {
			t.Fatalf("Categorize(%q) returned no keyword or confidence: %+v", tc.description, got)
		}
	}
}

func TestCategorize_ArabicKeywords(t *testing.T) {
	c := NewCategorizer(DefaultTables())

	cases := []struct {
		description string
		category    string
	}{
		{"حجز فندق للمعرض", "travel"},
		{"غداء مع العميل", "meals"},
		{"فاتورة كهرباء المكتب", "utilities"},
		{"دفع ايجار المكتب الشهري", "rent"},
		{"رواتب شهر مارس", "salaries"},
		{"صيانة مكيف الهواء", "maintenance"},
	}
	for _, tc := range cases {
		got := c.Categorize(tc.description)
		if got.Category != tc.category {
			t.Fatalf("Categorize(%q) = %q, want %q", tc.description, got.Category, tc.category)
		}
	}
}

func TestCategorize_NoMatchFallsBack(t *testing.T) {
	c := NewCategorizer(DefaultTables())

	got := c.Categorize("miscellaneous unexplained cost")
	if got.Category != "other" {
		t.Fatalf("category = %q, want other", got.Category)
	}
	if got.Confidence != 0 || got.Keyword != "" {
		t.Fatalf("fallback must carry zero confidence and no keyword: %+v", got)
	}
}

func TestCategorize_EmptyDescription(t *testing.T) {
	c := NewCategorizer(DefaultTables())

	if got := c.Categorize("   "); got.Category != "other" {
		t.Fatalf("blank description = %q, want other", got.Category)
	}
}

func TestCategorize_WholeWordBeatsSubstring(t *testing.T) {
	c := NewCategorizer(DefaultTables())

	got := c.Categorize("paid the office rent")
	if got.Category != "rent" {
		t.Fatalf("category = %q, want rent", got.Category)
	}
	if got.Confidence != 0.9 {
		t.Fatalf("whole-word match confidence = %v, want 0.9", got.Confidence)
	}
}

func TestCategorize_CaseInsensitive(t *testing.T) {
	c := NewCategorizer(DefaultTables())

	if got := c.Categorize("HOTEL INVOICE"); got.Category != "travel" {
		t.Fatalf("category = %q, want travel", got.Category)
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	c := NewCategorizer(DefaultTables())

	first := c.Categorize("hotel and restaurant receipts")
	for i := 0; i < 10; i++ {
		again := c.Categorize("hotel and restaurant receipts")
		if again != first {
			t.Fatalf("categorization drifted: %+v vs %+v", again, first)
		}
	}
	// Table order decides ties: travel is declared before meals.
	if first.Category != "travel" {
		t.Fatalf("tie resolved to %q, want travel", first.Category)
	}
}

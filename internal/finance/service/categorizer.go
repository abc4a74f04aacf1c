package service

import (
	"strings"

	"backoffice_backend/internal/finance/transport"
)

// fallbackCategory is returned when no keyword matches.
const fallbackCategory = "other"

// CategoryTable maps one expense category to its trigger keywords. Tables
// are matched in declaration order, so more specific categories go first.
type CategoryTable struct {
	Category string
	Keywords []string
}

// Categorizer assigns expense categories from free-text descriptions using
// injected keyword tables. The tables are configuration, immutable after
// construction; per-tenant vocabularies build their own categorizer.
type Categorizer struct {
	tables []CategoryTable
}

func NewCategorizer(tables []CategoryTable) *Categorizer {
	return &Categorizer{tables: tables}
}

// DefaultTables carries the stock English and Arabic expense vocabulary.
func DefaultTables() []CategoryTable {
	return []CategoryTable{
		{Category: "travel", Keywords: []string{
			"flight", "hotel", "taxi", "uber", "train", "airline", "mileage", "parking",
			"سفر", "فندق", "طيران", "تذكرة", "تاكسي", "مواقف",
		}},
		{Category: "meals", Keywords: []string{
			"restaurant", "lunch", "dinner", "coffee", "catering",
			"مطعم", "غداء", "عشاء", "قهوة", "ضيافة",
		}},
		{Category: "utilities", Keywords: []string{
			"electricity", "water bill", "internet", "phone bill", "gas bill",
			"كهرباء", "مياه", "انترنت", "هاتف", "فاتورة غاز",
		}},
		{Category: "rent", Keywords: []string{
			"rent", "lease", "office space",
			"ايجار", "إيجار", "عقد ايجار",
		}},
		{Category: "salaries", Keywords: []string{
			"salary", "payroll", "wages", "bonus",
			"راتب", "رواتب", "اجور", "مكافأة",
		}},
		{Category: "office-supplies", Keywords: []string{
			"stationery", "paper", "printer", "toner", "office supplies",
			"قرطاسية", "ورق", "طابعة", "حبر",
		}},
		{Category: "software", Keywords: []string{
			"license", "subscription", "saas", "software", "hosting", "domain",
			"برنامج", "اشتراك", "رخصة", "استضافة",
		}},
		{Category: "marketing", Keywords: []string{
			"advertising", "campaign", "sponsorship", "ads",
			"اعلان", "إعلان", "تسويق", "حملة", "رعاية",
		}},
		{Category: "maintenance", Keywords: []string{
			"repair", "maintenance", "cleaning", "spare part",
			"صيانة", "اصلاح", "إصلاح", "تنظيف", "قطع غيار",
		}},
	}
}

// Categorize returns the first category whose keyword appears in the
// description. Whole-word matches carry more confidence than substring
// matches. With no match the fallback category is returned at zero
// confidence; the caller decides whether to ask a human.
func (c *Categorizer) Categorize(description string) transport.CategorizeResponse {
	normalized := strings.ToLower(strings.TrimSpace(description))
	if normalized == "" {
		return transport.CategorizeResponse{Category: fallbackCategory}
	}

	words := make(map[string]bool)
	for _, w := range strings.Fields(normalized) {
		words[strings.Trim(w, ".,;:!?()[]\"'")] = true
	}

	best := transport.CategorizeResponse{Category: fallbackCategory}
	for _, table := range c.tables {
		for _, keyword := range table.Keywords {
			kw := strings.ToLower(keyword)
			switch {
			case words[kw]:
				return transport.CategorizeResponse{
					Category:   table.Category,
					Keyword:    keyword,
					Confidence: 0.9,
				}
			case strings.Contains(normalized, kw) && best.Confidence < 0.6:
				best = transport.CategorizeResponse{
					Category:   table.Category,
					Keyword:    keyword,
					Confidence: 0.6,
				}
			}
		}
	}
	return best
}

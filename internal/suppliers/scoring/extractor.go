package scoring

import (
	"time"

	"backoffice_backend/internal/scoring/engine"
	"backoffice_backend/internal/suppliers/domain"
)

// Extractor converts supplier history into the bounded metric breakdown.
type Extractor struct {
	profile Profile
}

func NewExtractor(profile Profile) *Extractor {
	return &Extractor{profile: profile}
}

func (e *Extractor) Extract(supplier domain.Supplier, orders []domain.Order, inquiries []domain.Inquiry, docs []domain.Document, now time.Time) engine.Breakdown {
	supplierID := supplier.ID.String()
	return engine.Breakdown{
		MetricDelivery:       e.deliveryScore(orders),
		MetricResponsiveness: e.responsivenessScore(inquiries, now),
		MetricCompliance:     e.complianceScore(docs, now),
		MetricQuality:        e.provided(e.profile.Quality, supplierID),
		MetricPrice:          e.provided(e.profile.Price, supplierID),
	}
}

// deliveryScore bands the on-time percentage of delivered orders. No
// delivered orders means no track record, which scores zero.
func (e *Extractor) deliveryScore(orders []domain.Order) float64 {
	delivered, onTime := 0, 0
	for _, o := range orders {
		done, punctual := o.Delivered()
		if !done {
			continue
		}
		delivered++
		if punctual {
			onTime++
		}
	}
	if delivered == 0 {
		return 0
	}
	pct := float64(onTime) / float64(delivered) * 100
	return e.profile.OnTimeBands.Score(pct)
}

// responsivenessScore averages the per-inquiry band scores. Unanswered
// inquiries older than the worst band count as a full fallback-band
// response so silence cannot outscore a slow answer; unanswered ones
// still within the band window are pending and do not count either way.
func (e *Extractor) responsivenessScore(inquiries []domain.Inquiry, now time.Time) float64 {
	bands := e.profile.ResponseBands
	horizon := bands.Horizon()

	total := 0.0
	counted := 0
	for _, q := range inquiries {
		if q.RespondedAt == nil {
			if now.Sub(q.SentAt) > horizon {
				total += bands.Fallback
				counted++
			}
			continue
		}
		total += bands.Score(q.RespondedAt.Sub(q.SentAt))
		counted++
	}
	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

// complianceScore measures the share of required documents present and
// valid right now.
func (e *Extractor) complianceScore(docs []domain.Document, now time.Time) float64 {
	if len(e.profile.RequiredDocs) == 0 {
		return 100
	}

	valid := make(map[string]bool)
	for _, doc := range docs {
		if doc.ValidAt(now) {
			valid[doc.Kind] = true
		}
	}

	have := 0
	for _, kind := range e.profile.RequiredDocs {
		if valid[kind] {
			have++
		}
	}
	pct := float64(have) / float64(len(e.profile.RequiredDocs)) * 100
	return e.profile.ComplianceBands.Score(pct)
}

// MissingDocs lists the required document kinds absent or expired.
func (e *Extractor) MissingDocs(docs []domain.Document, now time.Time) []string {
	valid := make(map[string]bool)
	for _, doc := range docs {
		if doc.ValidAt(now) {
			valid[doc.Kind] = true
		}
	}

	missing := make([]string, 0)
	for _, kind := range e.profile.RequiredDocs {
		if !valid[kind] {
			missing = append(missing, kind)
		}
	}
	return missing
}

func (e *Extractor) provided(p engine.MetricProvider, supplierID string) float64 {
	score, _ := p.Score(supplierID)
	return engine.Clamp(score, 0, 100)
}

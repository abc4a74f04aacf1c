package scoring

import (
	"strings"
	"time"

	"backoffice_backend/internal/leads/domain"
	"backoffice_backend/internal/scoring/engine"
	"backoffice_backend/platform/phone"
)

// Extractor derives the four-category lead breakdown from raw lead fields.
// Indicators with no data contribute 0, so incomplete records score lower
// than complete ones rather than being treated as unknown.
type Extractor struct {
	profile Profile
}

// NewExtractor creates an extractor for the given profile.
func NewExtractor(profile Profile) *Extractor {
	return &Extractor{profile: profile}
}

// Extract computes the lead's metric breakdown. The interaction log is
// auxiliary context the caller pre-fetched; now anchors the time-based
// recency indicator so results are reproducible for a fixed clock.
func (e *Extractor) Extract(lead domain.Lead, interactions []domain.Interaction, now time.Time) engine.Breakdown {
	return engine.Breakdown{
		CategoryDemographic:  e.demographic(lead),
		CategoryFirmographic: e.firmographic(lead),
		CategoryEngagement:   e.engagement(lead),
		CategoryBehavioral:   e.behavioral(lead, interactions, now),
	}
}

// demographic scores WHO the lead is: title seniority plus contact quality.
func (e *Extractor) demographic(lead domain.Lead) float64 {
	score := e.titleSeniority(lead.JobTitle)

	if lead.Email != nil && strings.TrimSpace(*lead.Email) != "" {
		score += e.profile.EmailBonus
	}
	if lead.Phone != nil && phone.IsValid(*lead.Phone) {
		score += e.profile.ValidPhoneBonus
	}

	return engine.Clamp(score, 0, 100)
}

func (e *Extractor) titleSeniority(jobTitle *string) float64 {
	if jobTitle == nil {
		return 0
	}
	title := strings.ToLower(strings.TrimSpace(*jobTitle))
	if title == "" {
		return 0
	}

	switch {
	case containsAny(title, e.profile.ExecutiveKeywords):
		return e.profile.ExecutivePoints
	case containsAny(title, e.profile.ManagerKeywords):
		return e.profile.ManagerPoints
	case containsAny(title, e.profile.SeniorKeywords):
		return e.profile.SeniorPoints
	default:
		return e.profile.OtherTitlePoints
	}
}

// firmographic scores the COMPANY behind the lead.
func (e *Extractor) firmographic(lead domain.Lead) float64 {
	score := 0.0

	if lead.CompanySize != nil && *lead.CompanySize > 0 {
		score += e.profile.CompanySizeBands.Score(float64(*lead.CompanySize))
	}
	if lead.Industry != nil && strings.TrimSpace(*lead.Industry) != "" {
		score += e.profile.IndustryBonus
	}
	if lead.Country != nil && strings.TrimSpace(*lead.Country) != "" {
		score += e.profile.CountryBonus
	}

	return engine.Clamp(score, 0, 100)
}

// engagement scores marketing touch response: opens, clicks, visits.
func (e *Extractor) engagement(lead domain.Lead) float64 {
	score := 0.0
	if lead.EmailOpens > 0 {
		score += e.profile.EmailOpenBands.Score(float64(lead.EmailOpens))
	}
	if lead.EmailClicks > 0 {
		score += e.profile.EmailClickBands.Score(float64(lead.EmailClicks))
	}
	if lead.WebsiteVisits > 0 {
		score += e.profile.WebsiteVisitBands.Score(float64(lead.WebsiteVisits))
	}
	return engine.Clamp(score, 0, 100)
}

// behavioral scores buying activity: meetings, forms, downloads, recency.
func (e *Extractor) behavioral(lead domain.Lead, interactions []domain.Interaction, now time.Time) float64 {
	score := 0.0
	if lead.MeetingsAttended > 0 {
		score += e.profile.MeetingBands.Score(float64(lead.MeetingsAttended))
	}
	if lead.FormSubmissions > 0 {
		score += e.profile.FormSubmissionBands.Score(float64(lead.FormSubmissions))
	}
	if lead.ContentDownloads > 0 {
		score += e.profile.DownloadBands.Score(float64(lead.ContentDownloads))
	}

	if latest, ok := latestActivity(lead, interactions); ok {
		score += e.profile.RecencyBands.Score(now.Sub(latest))
	}

	return engine.Clamp(score, 0, 100)
}

// latestActivity returns the most recent of the lead's own activity stamp
// and any interaction log entry.
func latestActivity(lead domain.Lead, interactions []domain.Interaction) (time.Time, bool) {
	var latest time.Time
	found := false

	if lead.LastActivityAt != nil {
		latest = *lead.LastActivityAt
		found = true
	}
	for _, it := range interactions {
		if !found || it.OccurredAt.After(latest) {
			latest = it.OccurredAt
			found = true
		}
	}

	return latest, found
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

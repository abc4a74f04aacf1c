// Package domain defines the lead entity and its auxiliary records.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lead is a sales prospect. Fields are read-only inputs to scoring; the
// engine never mutates a lead, it only produces score artifacts that the
// calling layer persists.
type Lead struct {
	ID               uuid.UUID
	TenantID         uuid.UUID
	Name             string
	Email            *string
	Phone            *string
	JobTitle         *string
	Company          *string
	CompanySize      *int
	Industry         *string
	Country          *string
	Source           *string
	EmailOpens       int
	EmailClicks      int
	WebsiteVisits    int
	FormSubmissions  int
	ContentDownloads int
	MeetingsAttended int
	LastActivityAt   *time.Time
	Score            *float64
	Grade            *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Interaction is one entry in a lead's activity log, pre-fetched by the
// caller and passed to scoring as auxiliary context.
type Interaction struct {
	ID         uuid.UUID
	LeadID     uuid.UUID
	Kind       string
	Note       *string
	OccurredAt time.Time
}

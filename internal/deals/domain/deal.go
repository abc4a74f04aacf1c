// Package domain holds the deal entities shared across the deals context.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Pipeline stages in progression order.
const (
	StageProspecting   = "prospecting"
	StageQualification = "qualification"
	StageProposal      = "proposal"
	StageNegotiation   = "negotiation"
	StageClosing       = "closing"
)

// Deal is an open opportunity in the sales pipeline. Monetary value is in
// integer cents. Optional fields are pointers; absent data scores
// conservatively.
type Deal struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	Name           string
	Stage          string
	ValueCents     int64
	Currency       string
	OwnerID        *uuid.UUID
	StageEnteredAt time.Time
	LastActivityAt *time.Time
	ExpectedClose  *time.Time
	HealthScore    *float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StageEntry is one hop of a deal's stage history. ExitedAt is nil for the
// current stage.
type StageEntry struct {
	ID        uuid.UUID
	DealID    uuid.UUID
	Stage     string
	EnteredAt time.Time
	ExitedAt  *time.Time
}

// Activity is a touchpoint logged against a deal (call, email, meeting).
type Activity struct {
	ID         uuid.UUID
	DealID     uuid.UUID
	Kind       string
	Note       *string
	OccurredAt time.Time
}

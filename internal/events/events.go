// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"backoffice_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Scoring Domain Events
// =============================================================================

// LeadScored is published after a lead's qualification score is computed
// and persisted.
type LeadScored struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	TenantID uuid.UUID `json:"tenantId"`
	Score    float64   `json:"score"`
	Grade    string    `json:"grade"`
}

func (e LeadScored) EventName() string { return "leads.lead.scored" }

// DealHealthEvaluated is published after a deal's health score is computed.
type DealHealthEvaluated struct {
	BaseEvent
	DealID   uuid.UUID `json:"dealId"`
	TenantID uuid.UUID `json:"tenantId"`
	Score    float64   `json:"score"`
	Level    string    `json:"level"`
}

func (e DealHealthEvaluated) EventName() string { return "deals.health.evaluated" }

// SupplierScored is published after a supplier's composite score is computed.
type SupplierScored struct {
	BaseEvent
	SupplierID uuid.UUID `json:"supplierId"`
	TenantID   uuid.UUID `json:"tenantId"`
	Score      float64   `json:"score"`
	Grade      string    `json:"grade"`
}

func (e SupplierScored) EventName() string { return "suppliers.supplier.scored" }

// BatchRescoreCompleted is published when a scheduled batch rescore finishes.
type BatchRescoreCompleted struct {
	BaseEvent
	TenantID uuid.UUID `json:"tenantId"`
	Kind     string    `json:"kind"`
	Scored   int       `json:"scored"`
	Failed   int       `json:"failed"`
	AvgScore float64   `json:"avgScore"`
}

func (e BatchRescoreCompleted) EventName() string { return "scoring.batch.completed" }

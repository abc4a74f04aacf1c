// Package domain holds the supplier entities shared across the suppliers context.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is a vendor scored for procurement decisions.
type Supplier struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	Email     *string
	Phone     *string
	Country   *string
	Score     *float64
	Grade     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Order is a purchase order used for on-time delivery measurement.
// DeliveredAt is nil while the order is open.
type Order struct {
	ID          uuid.UUID
	SupplierID  uuid.UUID
	PromisedAt  time.Time
	DeliveredAt *time.Time
}

// Delivered reports whether the order arrived, and whether it was on time.
func (o Order) Delivered() (done, onTime bool) {
	if o.DeliveredAt == nil {
		return false, false
	}
	return true, !o.DeliveredAt.After(o.PromisedAt)
}

// Inquiry is a message sent to the supplier, used for responsiveness
// measurement. RespondedAt is nil while unanswered.
type Inquiry struct {
	ID          uuid.UUID
	SupplierID  uuid.UUID
	SentAt      time.Time
	RespondedAt *time.Time
}

// Document is a compliance document on file for the supplier.
type Document struct {
	ID         uuid.UUID
	SupplierID uuid.UUID
	Kind       string
	ValidUntil *time.Time
}

// ValidAt reports whether the document is usable at the given time.
func (d Document) ValidAt(now time.Time) bool {
	return d.ValidUntil == nil || d.ValidUntil.After(now)
}

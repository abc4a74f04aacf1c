// Package transport defines request and response shapes for the leads API.
package transport

import "github.com/google/uuid"

// ScoreSelectionRequest asks for a rescore of specific leads.
type ScoreSelectionRequest struct {
	LeadIDs []uuid.UUID `json:"leadIds" validate:"required,min=1,max=500,dive,required"`
}

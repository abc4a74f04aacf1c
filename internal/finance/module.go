// Package finance provides invoice calculation and expense categorization.
package finance

import (
	"backoffice_backend/internal/finance/handler"
	"backoffice_backend/internal/finance/service"
	apphttp "backoffice_backend/internal/http"
	"backoffice_backend/platform/validator"
)

// Module is the finance bounded context module implementing http.Module.
// It is stateless; both operations are pure computations.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the finance module with the stock expense vocabulary.
func NewModule(val *validator.Validator) *Module {
	categorizer := service.NewCategorizer(service.DefaultTables())
	return &Module{handler: handler.New(categorizer, val)}
}

func (m *Module) Name() string { return "finance" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/finance")
	m.handler.RegisterRoutes(group)
}

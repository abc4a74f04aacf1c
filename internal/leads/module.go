// Package leads provides the lead qualification bounded context module.
package leads

import (
	"backoffice_backend/internal/events"
	apphttp "backoffice_backend/internal/http"
	"backoffice_backend/internal/leads/handler"
	"backoffice_backend/internal/leads/repository"
	"backoffice_backend/internal/leads/scoring"
	"backoffice_backend/internal/scoring/engine"
	"backoffice_backend/platform/config"
	"backoffice_backend/platform/logger"
	"backoffice_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	scoring *scoring.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, cfg config.ScoringConfig, log *logger.Logger) (*Module, error) {
	repo := repository.New(pool)

	runner := engine.Runner{
		Concurrency: cfg.GetBatchConcurrency(),
		Timeout:     cfg.GetBatchTimeout(),
	}

	svc, err := scoring.New(repo, scoring.DefaultProfile(), runner, eventBus, log)
	if err != nil {
		return nil, err
	}

	return &Module{
		handler: handler.New(svc, val),
		scoring: svc,
	}, nil
}

func (m *Module) Name() string { return "leads" }

// Scoring exposes the scoring service for the worker composition root.
func (m *Module) Scoring() *scoring.Service { return m.scoring }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(group, ctx.BatchRateLimiter.RateLimit())
}

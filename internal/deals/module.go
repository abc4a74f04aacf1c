// Package deals provides the deal health and velocity bounded context module.
package deals

import (
	"backoffice_backend/internal/deals/handler"
	"backoffice_backend/internal/deals/health"
	"backoffice_backend/internal/deals/repository"
	"backoffice_backend/internal/events"
	apphttp "backoffice_backend/internal/http"
	"backoffice_backend/internal/scoring/engine"
	"backoffice_backend/platform/config"
	"backoffice_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the deals bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	health  *health.Service
}

// NewModule creates and initializes the deals module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, cfg config.ScoringConfig, log *logger.Logger) (*Module, error) {
	repo := repository.New(pool)

	runner := engine.Runner{
		Concurrency: cfg.GetBatchConcurrency(),
		Timeout:     cfg.GetBatchTimeout(),
	}

	svc, err := health.New(repo, health.DefaultProfile(), runner, eventBus, log)
	if err != nil {
		return nil, err
	}

	return &Module{
		handler: handler.New(svc),
		health:  svc,
	}, nil
}

func (m *Module) Name() string { return "deals" }

// Health exposes the health service for the worker composition root.
func (m *Module) Health() *health.Service { return m.health }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/deals")
	m.handler.RegisterRoutes(group, ctx.BatchRateLimiter.RateLimit())
}

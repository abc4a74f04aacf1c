// Package suppliers provides the supplier performance bounded context module.
package suppliers

import (
	"backoffice_backend/internal/events"
	apphttp "backoffice_backend/internal/http"
	"backoffice_backend/internal/scoring/engine"
	"backoffice_backend/internal/suppliers/handler"
	"backoffice_backend/internal/suppliers/repository"
	"backoffice_backend/internal/suppliers/scoring"
	"backoffice_backend/platform/config"
	"backoffice_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the suppliers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	scoring *scoring.Service
}

// NewModule creates and initializes the suppliers module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, cfg config.ScoringConfig, log *logger.Logger) (*Module, error) {
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
		handler: handler.New(svc),
		scoring: svc,
	}, nil
}

func (m *Module) Name() string { return "suppliers" }

// Scoring exposes the scoring service for the worker composition root.
func (m *Module) Scoring() *scoring.Service { return m.scoring }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/suppliers")
	m.handler.RegisterRoutes(group, ctx.BatchRateLimiter.RateLimit())
}

package scheduler

import (
	"context"
	"fmt"

	dealshealth "backoffice_backend/internal/deals/health"
	leadscoring "backoffice_backend/internal/leads/scoring"
	supplierscoring "backoffice_backend/internal/suppliers/scoring"
	"backoffice_backend/platform/config"
	"backoffice_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Services bundles the batch services the worker drives.
type Services struct {
	Leads     *leadscoring.Service
	Deals     *dealshealth.Service
	Suppliers *supplierscoring.Service
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	services Services
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, services Services, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		services: services,
		log:      log,
	}

	mux.HandleFunc(TaskLeadsRescore, w.handleLeadsRescore)
	mux.HandleFunc(TaskDealsHealthRefresh, w.handleDealsHealthRefresh)
	mux.HandleFunc(TaskSuppliersRescore, w.handleSuppliersRescore)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleLeadsRescore(ctx context.Context, task *asynq.Task) error {
	if w.services.Leads == nil {
		return nil
	}

	tenantID, err := parseTenant(task)
	if err != nil {
		return err
	}

	batch, err := w.services.Leads.ScoreBatch(ctx, tenantID)
	if err != nil {
		return err
	}
	w.log.Info("leads rescore complete", "tenantId", tenantID, "scored", len(batch.Results), "failed", len(batch.Errors))
	return nil
}

func (w *Worker) handleDealsHealthRefresh(ctx context.Context, task *asynq.Task) error {
	if w.services.Deals == nil {
		return nil
	}

	tenantID, err := parseTenant(task)
	if err != nil {
		return err
	}

	results, batchErrors, err := w.services.Deals.HealthBatch(ctx, tenantID)
	if err != nil {
		return err
	}
	w.log.Info("deal health refresh complete", "tenantId", tenantID, "scored", len(results), "failed", len(batchErrors))
	return nil
}

func (w *Worker) handleSuppliersRescore(ctx context.Context, task *asynq.Task) error {
	if w.services.Suppliers == nil {
		return nil
	}

	tenantID, err := parseTenant(task)
	if err != nil {
		return err
	}

	batch, err := w.services.Suppliers.ScoreBatch(ctx, tenantID)
	if err != nil {
		return err
	}
	w.log.Info("suppliers rescore complete", "tenantId", tenantID, "scored", len(batch.Results), "failed", len(batch.Errors))
	return nil
}

func parseTenant(task *asynq.Task) (uuid.UUID, error) {
	payload, err := ParseRescorePayload(task)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(payload.TenantID)
}

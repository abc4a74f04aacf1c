package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backoffice_backend/internal/deals"
	"backoffice_backend/internal/events"
	"backoffice_backend/internal/leads"
	"backoffice_backend/internal/scheduler"
	"backoffice_backend/internal/suppliers"
	"backoffice_backend/platform/config"
	"backoffice_backend/platform/db"
	"backoffice_backend/platform/logger"
	"backoffice_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "queue", cfg.AsynqQueueName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	leadsModule, err := leads.NewModule(pool, eventBus, val, cfg, log)
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}

	dealsModule, err := deals.NewModule(pool, eventBus, cfg, log)
	if err != nil {
		log.Error("failed to initialize deals module", "error", err)
		panic("failed to initialize deals module: " + err.Error())
	}

	suppliersModule, err := suppliers.NewModule(pool, eventBus, cfg, log)
	if err != nil {
		log.Error("failed to initialize suppliers module", "error", err)
		panic("failed to initialize suppliers module: " + err.Error())
	}

	worker, err := scheduler.NewWorker(cfg, scheduler.Services{
		Leads:     leadsModule.Scoring(),
		Deals:     dealsModule.Health(),
		Suppliers: suppliersModule.Scoring(),
	}, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	dispatcher, err := scheduler.NewRescoreDispatcher(cfg, pool, log)
	if err != nil {
		log.Error("failed to initialize rescore dispatcher", "error", err)
		panic("failed to initialize rescore dispatcher: " + err.Error())
	}
	defer dispatcher.Close()

	go dispatcher.Run(ctx)

	worker.Run(ctx)

	// Give in-flight handlers a moment to write their final log lines.
	time.Sleep(100 * time.Millisecond)
	log.Info("worker stopped")
}

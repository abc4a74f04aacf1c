package scheduler

import (
	"context"
	"fmt"
	"time"

	"backoffice_backend/platform/config"
	"backoffice_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RescoreDispatcher periodically fans out per-tenant rescore tasks so
// scores stay fresh without user-triggered batch requests.
type RescoreDispatcher struct {
	client   *asynq.Client
	queue    string
	pool     *pgxpool.Pool
	interval time.Duration
	log      *logger.Logger
}

func NewRescoreDispatcher(cfg config.SchedulerConfig, pool *pgxpool.Pool, log *logger.Logger) (*RescoreDispatcher, error) {
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

	interval := cfg.GetRescoreInterval()
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	return &RescoreDispatcher{
		client:   asynq.NewClient(opt),
		queue:    queue,
		pool:     pool,
		interval: interval,
		log:      log,
	}, nil
}

func (d *RescoreDispatcher) Close() error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Close()
}

func (d *RescoreDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil || d.pool == nil {
		return
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		tenants, err := d.listTenants(ctx)
		if err != nil {
			d.log.Warn("tenant enumeration failed", "error", err)
			continue
		}

		for _, tenantID := range tenants {
			payload := RescorePayload{TenantID: tenantID.String()}
			d.enqueue(ctx, TaskLeadsRescore, payload)
			d.enqueue(ctx, TaskDealsHealthRefresh, payload)
			d.enqueue(ctx, TaskSuppliersRescore, payload)
		}
		d.log.Info("rescore tasks dispatched", "tenants", len(tenants))
	}
}

func (d *RescoreDispatcher) enqueue(ctx context.Context, kind string, payload RescorePayload) {
	task, err := newRescoreTask(kind, payload)
	if err != nil {
		d.log.Warn("rescore task build failed", "task", kind, "error", err)
		return
	}
	if _, err := d.client.EnqueueContext(ctx, task, asynq.Queue(d.queue)); err != nil {
		d.log.Warn("rescore task enqueue failed", "task", kind, "error", err)
	}
}

// listTenants collects every tenant with scoreable entities.
func (d *RescoreDispatcher) listTenants(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT DISTINCT tenant_id FROM (
			SELECT tenant_id FROM leads
			UNION SELECT tenant_id FROM deals
			UNION SELECT tenant_id FROM suppliers
		) t
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tenants := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		tenants = append(tenants, id)
	}
	return tenants, rows.Err()
}

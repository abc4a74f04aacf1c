package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"

	"backoffice_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	client *asynq.Client
	queue  string
}

// RescoreScheduler enqueues background rescore jobs.
type RescoreScheduler interface {
	EnqueueLeadsRescore(ctx context.Context, payload RescorePayload) error
	EnqueueDealsHealthRefresh(ctx context.Context, payload RescorePayload) error
	EnqueueSuppliersRescore(ctx context.Context, payload RescorePayload) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) EnqueueLeadsRescore(ctx context.Context, payload RescorePayload) error {
	return c.enqueue(ctx, TaskLeadsRescore, payload)
}

func (c *Client) EnqueueDealsHealthRefresh(ctx context.Context, payload RescorePayload) error {
	return c.enqueue(ctx, TaskDealsHealthRefresh, payload)
}

func (c *Client) EnqueueSuppliersRescore(ctx context.Context, payload RescorePayload) error {
	return c.enqueue(ctx, TaskSuppliersRescore, payload)
}

func (c *Client) enqueue(ctx context.Context, kind string, payload RescorePayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := newRescoreTask(kind, payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}

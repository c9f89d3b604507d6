package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nulzo/cache-gateway-api/pkg/api"
	"github.com/nulzo/cache-gateway-api/pkg/client"
)

// CacheAPI is the slice of the cache client the coordinator needs.
type CacheAPI interface {
	Store(ctx context.Context, key string, data map[string]interface{}, ttlSeconds int) (*api.StoreResponse, error)
	Delete(ctx context.Context, key string) (*api.DeleteResponse, error)
	Health(ctx context.Context) (*api.HealthResponse, error)
}

const (
	defaultPollInterval = 5 * time.Second
	defaultMaxWait      = time.Hour
	defaultPollTimeout  = 30 * time.Second

	placeholderTTLSeconds = 3600
)

// Coordinator drives one workflow run: trigger, write a placeholder cache
// entry for the run's duration, poll to a terminal state, and clean the
// placeholder up. Cleanup runs on every exit path, including failure and
// timeout, so an aborted run cannot leak its placeholder.
type Coordinator struct {
	runner Runner
	cache  CacheAPI
	logger *zap.Logger

	pollInterval time.Duration
	maxWait      time.Duration
	pollTimeout  time.Duration
}

type Option func(*Coordinator)

// WithPollInterval sets the delay between status polls.
func WithPollInterval(d time.Duration) Option {
	return func(c *Coordinator) { c.pollInterval = d }
}

// WithMaxWait sets the wall-clock budget for the whole run.
func WithMaxWait(d time.Duration) Option {
	return func(c *Coordinator) { c.maxWait = d }
}

// WithPollTimeout bounds each individual status request so one hung call
// cannot silently eat the budget.
func WithPollTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.pollTimeout = d }
}

func NewCoordinator(runner Runner, cacheAPI CacheAPI, logger *zap.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		runner:       runner,
		cache:        cacheAPI,
		logger:       logger,
		pollInterval: defaultPollInterval,
		maxWait:      defaultMaxWait,
		pollTimeout:  defaultPollTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes one workflow end to end and returns the terminal status.
func (c *Coordinator) Run(ctx context.Context, req TriggerRequest) (*RunStatus, error) {
	runID, err := c.runner.Trigger(ctx, req)
	if err != nil {
		// No run id, nothing to poll or clean up.
		return nil, err
	}

	c.logger.Info("workflow triggered", zap.String("run_id", runID))

	key := req.Inputs.AccountNumber + "-" + req.Inputs.ClientID
	if c.storePlaceholder(ctx, key) {
		defer c.deletePlaceholder(key)
	}

	return c.poll(ctx, runID)
}

// storePlaceholder writes the empty placeholder entry under the composite
// key, gated on cache health. It is a best-effort side channel for other
// consumers during the run; a failure here never aborts the workflow.
func (c *Coordinator) storePlaceholder(ctx context.Context, key string) bool {
	health, err := c.cache.Health(ctx)
	if err != nil {
		c.logger.Warn("cache health probe failed, skipping placeholder", zap.Error(err))
		return false
	}
	if health.Status != "healthy" || health.Redis != "connected" {
		c.logger.Warn("cache unhealthy, skipping placeholder",
			zap.String("status", health.Status),
			zap.String("redis", health.Redis),
		)
		return false
	}

	if _, err := c.cache.Store(ctx, key, placeholderData(), placeholderTTLSeconds); err != nil {
		c.logger.Warn("failed to store placeholder", zap.String("key", key), zap.Error(err))
		return false
	}

	c.logger.Info("placeholder stored", zap.String("key", key))
	return true
}

// deletePlaceholder removes the placeholder on a fresh context: the run's
// context may already be done by the time cleanup fires.
func (c *Coordinator) deletePlaceholder(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := c.cache.Delete(ctx, key); err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return // someone else cleaned it up, fine
		}
		c.logger.Warn("failed to delete placeholder", zap.String("key", key), zap.Error(err))
		return
	}
	c.logger.Info("placeholder deleted", zap.String("key", key))
}

func (c *Coordinator) poll(ctx context.Context, runID string) (*RunStatus, error) {
	start := time.Now()
	polls := 0

	for time.Since(start) < c.maxWait {
		polls++

		pollCtx, cancel := context.WithTimeout(ctx, c.pollTimeout)
		status, err := c.runner.Status(pollCtx, runID)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("poll workflow %s: %w", runID, err)
		}

		switch status.Status {
		case StatusCompleted:
			c.logger.Info("workflow completed",
				zap.String("run_id", runID),
				zap.Duration("elapsed", time.Since(start)),
				zap.Int("polls", polls),
			)
			return status, nil
		case StatusFailed, StatusError:
			return nil, &FailureError{RunID: runID, Status: status.Status, Message: status.Error}
		case StatusRunning:
			c.logger.Debug("workflow still running", zap.String("run_id", runID), zap.Int("polls", polls))
		default:
			c.logger.Warn("unknown workflow status",
				zap.String("run_id", runID),
				zap.String("status", status.Status),
			)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}

	return nil, fmt.Errorf("%w: run %s after %s", ErrTimeout, runID, c.maxWait)
}

// placeholderData is the empty structured entry other consumers populate
// while the workflow runs.
func placeholderData() map[string]interface{} {
	return map[string]interface{}{
		"demographics": map[string]interface{}{},
		"remits":       map[string]interface{}{},
		"transactions": map[string]interface{}{},
		"claims":       map[string]interface{}{},
		"notes":        map[string]interface{}{},
		"action":       map[string]interface{}{},
	}
}

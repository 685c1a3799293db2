package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/hirebridge/hirebridge/internal/services"
	"github.com/hirebridge/hirebridge/pkg/logger"
)

const (
	defaultRetentionDays = 90
	defaultSchedule      = "@daily"
)

// Cleaner prunes aged delivery log rows on a schedule so the audit table
// stays bounded.
type Cleaner struct {
	logs      *services.DeliveryLogService
	cron      *cron.Cron
	log       *zap.Logger
	retention int
	schedule  string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithRetentionDays adjusts how long delivery log rows are retained.
func WithRetentionDays(days int) Option {
	return func(cleaner *Cleaner) {
		if days > 0 {
			cleaner.retention = days
		}
	}
}

// WithSchedule overrides the cron specification for the cleanup job.
func WithSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.schedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults.
func NewCleaner(logs *services.DeliveryLogService, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		logs:      logs,
		retention: defaultRetentionDays,
		schedule:  defaultSchedule,
		log:       logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers the cleanup job with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if c.logs == nil || c.retention <= 0 {
		return nil
	}

	if _, err := c.cron.AddFunc(c.schedule, func() {
		if err := c.RunOnce(context.Background()); err != nil {
			c.log.Warn("delivery log cleanup failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes the cleanup routine immediately.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if c.logs == nil || c.retention <= 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	removed, err := c.logs.CleanupOlderThan(ctx, c.retention)
	if err != nil {
		return err
	}

	if removed > 0 {
		c.log.Info("pruned delivery log",
			zap.Int64("removed", removed),
			zap.Duration("took", time.Since(start)),
		)
	}
	return nil
}

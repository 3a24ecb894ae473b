// Package refresh runs periodic index resyncs for content sources that
// cannot be watched, such as remote HTTP origins.
package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Task is the work run on every tick.
type Task func(ctx context.Context) error

// Scheduler wraps a gocron scheduler with a single duration job.
type Scheduler struct {
	scheduler gocron.Scheduler
	ctx       context.Context
	logger    *slog.Logger
}

// NewScheduler creates a scheduler that calls task every interval.
// Runs never overlap.
func NewScheduler(ctx context.Context, interval time.Duration, task Task, logger *slog.Logger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("refresh: interval must be positive, got %s", interval)
	}
	if logger == nil {
		logger = slog.Default()
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	sch := &Scheduler{scheduler: s, ctx: ctx, logger: logger}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(sch.run, task),
		gocron.WithName("index-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create refresh job: %w", err)
	}
	return sch, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("Starting refresh scheduler")
	s.scheduler.Start()
}

// Stop shuts the scheduler down and waits for a running task.
func (s *Scheduler) Stop() error {
	s.logger.Info("Stopping refresh scheduler")
	return s.scheduler.Shutdown()
}

func (s *Scheduler) run(task Task) {
	if s.ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := task(s.ctx); err != nil {
		s.logger.Warn("refresh failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Debug("refresh done", slog.Duration("took", time.Since(start)))
}

// Package watch keeps the roster fresh while `hrmslite watch` runs.
//
// A Scheduler re-runs the coordinator refresh on a fixed interval; a
// ConfigWatcher reloads the configuration file on change and reschedules the
// refresh when watch.interval changes.
package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
	"git.home.luguber.info/inful/hrmslite/internal/logfields"
)

// Refresher is satisfied by *coordinator.Coordinator.
type Refresher interface {
	Refresh(ctx context.Context) error
}

const jobName = "roster-refresh"

// Scheduler wraps a gocron scheduler running a single refresh job.
type Scheduler struct {
	scheduler gocron.Scheduler
	refresher Refresher
	logger    *slog.Logger

	mu       sync.Mutex
	job      gocron.Job
	interval time.Duration
	ctx      context.Context
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(r Refresher, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, ferrors.InternalError("failed to create scheduler").WithCause(err).Build()
	}
	return &Scheduler{scheduler: s, refresher: r, logger: logger, ctx: context.Background()}, nil
}

// Start schedules the refresh every interval, running the first one at once.
// ctx is handed to every refresh.
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	if err := s.Reschedule(interval); err != nil {
		return err
	}
	s.logger.Info("Starting refresh scheduler", slog.String("interval", interval.String()))
	s.scheduler.Start()
	return nil
}

// Reschedule replaces the refresh job when interval differs from the current one.
func (s *Scheduler) Reschedule(interval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if interval <= 0 {
		return ferrors.ValidationError("refresh interval must be positive").
			WithContext("interval", interval.String()).
			Build()
	}
	if s.job != nil && interval == s.interval {
		return nil
	}

	opts := []gocron.JobOption{
		gocron.WithName(jobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	}
	task := gocron.NewTask(s.run)

	var (
		job gocron.Job
		err error
	)
	if s.job == nil {
		job, err = s.scheduler.NewJob(gocron.DurationJob(interval), task, opts...)
	} else {
		job, err = s.scheduler.Update(s.job.ID(), gocron.DurationJob(interval), task, opts...)
	}
	if err != nil {
		return ferrors.InternalError("failed to schedule roster refresh").
			WithCause(err).
			WithContext("interval", interval.String()).
			Build()
	}
	if s.interval != 0 {
		s.logger.Info("Refresh interval changed", slog.String("from", s.interval.String()), slog.String("to", interval.String()))
	}
	s.job, s.interval = job, interval
	return nil
}

// Interval returns the active refresh interval, or 0 before Start.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Stop shuts the scheduler down and waits for a running refresh.
func (s *Scheduler) Stop() error {
	s.logger.Info("Stopping refresh scheduler")
	return s.scheduler.Shutdown()
}

// run is called by gocron. Failures are already surfaced through the
// coordinator's load banner and outcomes; here they are only logged.
func (s *Scheduler) run() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	start := time.Now()
	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Warn("Scheduled refresh failed", logfields.Error(err))
		return
	}
	s.logger.Debug("Scheduled refresh complete", logfields.Duration(time.Since(start)))
}

// Package jobs runs the periodic maintenance sweeps: marking elapsed
// bookings finished and purging expired sessions.
package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// BookingSweeper finalizes bookings whose window has elapsed.
type BookingSweeper interface {
	FinishPastBookings(ctx context.Context) (int, error)
}

// SessionSweeper drops sessions past their expiry.
type SessionSweeper interface {
	PurgeExpiredSessions(ctx context.Context) (int, error)
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithLogger sets the logger used by the sweeper.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSchedule overrides the cron schedule for both sweeps. The default is
// once a minute.
func WithSchedule(spec string) Option {
	return func(s *Sweeper) {
		if spec != "" {
			s.schedule = spec
		}
	}
}

// Sweeper schedules the maintenance jobs on a cron runner.
type Sweeper struct {
	bookings BookingSweeper
	sessions SessionSweeper
	logger   *slog.Logger
	schedule string
	runner   *cron.Cron
}

// NewSweeper builds a sweeper over the given services. Either service may be
// nil, in which case its sweep is skipped.
func NewSweeper(bookings BookingSweeper, sessions SessionSweeper, opts ...Option) *Sweeper {
	s := &Sweeper{
		bookings: bookings,
		sessions: sessions,
		logger:   slog.Default(),
		schedule: "@every 1m",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start registers the sweeps and begins running them. It returns an error if
// the schedule expression does not parse.
func (s *Sweeper) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("Sweeper is nil")
	}
	if s.runner != nil {
		return fmt.Errorf("sweeper already started")
	}

	runner := cron.New()
	if _, err := runner.AddFunc(s.schedule, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule maintenance sweep: %w", err)
	}

	s.runner = runner
	runner.Start()
	s.logger.With("schedule", s.schedule).InfoContext(ctx, "maintenance sweeper started")
	return nil
}

// Stop halts the cron runner and waits for any in-flight sweep to finish.
func (s *Sweeper) Stop() {
	if s == nil || s.runner == nil {
		return
	}
	<-s.runner.Stop().Done()
	s.runner = nil
	s.logger.Info("maintenance sweeper stopped")
}

// RunOnce executes both sweeps immediately. Failures are logged, not
// returned, so one failing sweep never blocks the other.
func (s *Sweeper) RunOnce(ctx context.Context) {
	if s == nil {
		return
	}

	if s.bookings != nil {
		if count, err := s.bookings.FinishPastBookings(ctx); err != nil {
			s.logger.ErrorContext(ctx, "booking sweep failed", "error", err)
		} else if count > 0 {
			s.logger.With("finished_count", count).InfoContext(ctx, "booking sweep completed")
		}
	}

	if s.sessions != nil {
		if count, err := s.sessions.PurgeExpiredSessions(ctx); err != nil {
			s.logger.ErrorContext(ctx, "session sweep failed", "error", err)
		} else if count > 0 {
			s.logger.With("purged_count", count).InfoContext(ctx, "session sweep completed")
		}
	}
}

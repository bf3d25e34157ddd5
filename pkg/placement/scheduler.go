package placement

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the prober on a cron schedule.
type Scheduler struct {
	prober   *Prober
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewScheduler creates a scheduler for prober. An empty schedule disables it.
func NewScheduler(prober *Prober, schedule string) *Scheduler {
	return &Scheduler{
		prober:   prober,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "placement.scheduler"),
	}
}

// Start validates the schedule, runs a first probe in the background and
// starts the cron loop. The scheduler stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("placement schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.prober.ProbeAll(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule placement probe: %w", err)
	}

	go s.prober.ProbeAll(ctx)

	s.cron.Start()
	s.running = true

	s.logger.Info("placement scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for a running probe to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		done := s.cron.Stop()
		<-done.Done()
		s.running = false
		s.logger.Info("placement scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled probe time.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}

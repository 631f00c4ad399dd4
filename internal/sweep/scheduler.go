package sweep

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"vigil/internal/logging"
)

// Scheduler fires the executor once a day at the configured hour and
// serves manual triggers. At most one sweep runs at a time; concurrent
// triggers are dropped, never queued.
type Scheduler struct {
	executor *Executor
	hour     int
	logger   *slog.Logger

	active atomic.Bool

	mu      sync.Mutex
	ctx     context.Context
	last    *Summary
	lastRun time.Time
}

// NewScheduler builds a Scheduler firing daily at hour (0 to 23).
func NewScheduler(executor *Executor, hour int, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scheduler{
		executor: executor,
		hour:     hour,
		logger:   logging.NewComponentLogger(logger, "scheduler"),
		ctx:      context.Background(),
	}
}

// Start runs the daily loop until ctx is cancelled. Occurrences missed
// while the process was down are not caught up; the loop always waits
// for the next future occurrence.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	go s.loop(ctx)
}

func (s *Scheduler) loop(ctx context.Context) {
	for {
		next := nextOccurrence(time.Now(), s.hour)
		s.logger.Info("next sweep scheduled", logging.String("at", next.Format(time.RFC3339)))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if !s.trigger("schedule") {
			s.logger.Warn("scheduled sweep skipped, sweep already running")
		}
	}
}

// TriggerNow requests an immediate sweep. It returns false when a sweep
// is already in progress; the request is dropped, not queued.
func (s *Scheduler) TriggerNow() bool {
	return s.trigger("manual")
}

func (s *Scheduler) trigger(source string) bool {
	if !s.active.CompareAndSwap(false, true) {
		return false
	}

	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	go func() {
		defer s.active.Store(false)
		s.logger.Info("sweep triggered", logging.String("source", source))
		summary, err := s.executor.Run(ctx)
		if err != nil {
			s.logger.Error("sweep failed", logging.Error(err))
			return
		}
		s.mu.Lock()
		s.last = &summary
		s.lastRun = time.Now()
		s.mu.Unlock()
	}()
	return true
}

// Active reports whether a sweep is currently running.
func (s *Scheduler) Active() bool {
	return s.active.Load()
}

// LastSummary returns the most recent completed sweep summary, or nil
// when no sweep has completed yet.
func (s *Scheduler) LastSummary() (*Summary, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil, time.Time{}
	}
	copied := *s.last
	return &copied, s.lastRun
}

// nextOccurrence returns the next time hour strikes after now.
func nextOccurrence(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

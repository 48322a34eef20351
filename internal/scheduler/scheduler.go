// Package scheduler runs deferred one-shot callbacks on a gocron scheduler.
// The database supervisor uses it to schedule each reconnect attempt as a
// fresh invocation rather than retrying in a loop.
package scheduler

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// Scheduler manages one-shot deferred jobs using gocron.
type Scheduler struct {
	cron    gocron.Scheduler
	logger  *slog.Logger
	mu      sync.Mutex
	pending map[uuid.UUID]struct{}
	stopped bool
}

// New creates and starts a Scheduler.
func New(logger *slog.Logger) (*Scheduler, error) {
	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("creating gocron scheduler: %w", err)
	}
	cron.Start()

	return &Scheduler{
		cron:    cron,
		logger:  logger,
		pending: make(map[uuid.UUID]struct{}),
	}, nil
}

// After runs fn once, no sooner than delay from now. It returns the gocron
// job ID. A non-positive delay runs fn immediately.
func (s *Scheduler) After(delay time.Duration, fn func()) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return uuid.Nil, ErrStopped
	}

	start := gocron.OneTimeJobStartImmediately()
	if delay > 0 {
		start = gocron.OneTimeJobStartDateTime(time.Now().Add(delay))
	}

	// The job ID is only known after NewJob returns; the task reads it through
	// this variable, and the mutex held here orders the write before the read.
	var jobID uuid.UUID
	job, err := s.cron.NewJob(gocron.OneTimeJob(start), gocron.NewTask(func() {
		s.mu.Lock()
		delete(s.pending, jobID)
		s.mu.Unlock()
		fn()
	}))
	if err != nil {
		return uuid.Nil, fmt.Errorf("scheduling one-shot job: %w", err)
	}

	jobID = job.ID()
	s.pending[jobID] = struct{}{}
	s.logger.Debug("one-shot job scheduled", "job_id", jobID, "delay", delay)
	return jobID, nil
}

// Pending returns the number of jobs scheduled but not yet started.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Stop shuts down the gocron scheduler. Jobs that have not started are dropped.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	dropped := len(s.pending)
	s.pending = make(map[uuid.UUID]struct{})
	s.mu.Unlock()

	if dropped > 0 {
		s.logger.Info("dropping pending one-shot jobs", "count", dropped)
	}
	return s.cron.Shutdown()
}

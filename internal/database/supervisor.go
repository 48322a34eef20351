package database

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/shaharia-lab/jobportal/internal/metrics"
)

// DefaultRetryInterval is the fixed delay between failed connection attempts.
const DefaultRetryInterval = 5 * time.Second

const defaultDatabaseName = "jobportal"

// State is the lifecycle state of the connection attempt.
type State string

const (
	StatePending        State = "pending"
	StateConnected      State = "connected"
	StateRetryScheduled State = "retry-scheduled"
)

// RetryScheduler defers a callback. scheduler.Scheduler satisfies it.
type RetryScheduler interface {
	After(delay time.Duration, fn func()) (uuid.UUID, error)
}

// SupervisorConfig holds the supervisor's collaborators.
type SupervisorConfig struct {
	URI           string
	Database      string // overrides the database named in URI
	RetryInterval time.Duration
	Connector     Connector
	Scheduler     RetryScheduler
	Logger        *slog.Logger
}

// Supervisor brings the database connection up without ever blocking the
// caller for longer than one attempt. Failed attempts are retried forever at
// a fixed interval; each retry is a separately scheduled invocation.
// Once connected it stays connected: later drops are left to the driver.
type Supervisor struct {
	uri       string
	dbName    string
	interval  time.Duration
	connector Connector
	scheduler RetryScheduler
	logger    *slog.Logger

	mu       sync.Mutex
	state    State
	inFlight bool
	closed   bool
	attempts int
	client   *mongo.Client
	ready    chan struct{}

	// pending tracks the attempt in flight so Close can wait for it.
	pending sync.WaitGroup
}

// NewSupervisor creates a Supervisor in the pending state. No attempt is made
// until Connect is called.
func NewSupervisor(cfg SupervisorConfig) *Supervisor {
	interval := cfg.RetryInterval
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	return &Supervisor{
		uri:       cfg.URI,
		dbName:    DatabaseName(cfg.URI, cfg.Database),
		interval:  interval,
		connector: cfg.Connector,
		scheduler: cfg.Scheduler,
		logger:    cfg.Logger,
		state:     StatePending,
		ready:     make(chan struct{}),
	}
}

// Connect makes exactly one connection attempt. On failure it logs the reason,
// schedules a single retry after the retry interval and returns. Calls made
// while an attempt is in flight, after the connection is up or after Close,
// do nothing. ctx bounds the whole retry chain: once it is done no further
// attempt starts.
func (s *Supervisor) Connect(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	if s.closed || s.inFlight || s.state == StateConnected {
		s.mu.Unlock()
		return
	}
	s.inFlight = true
	s.state = StatePending
	s.attempts++
	attempt := s.attempts
	s.pending.Add(1)
	s.mu.Unlock()
	defer s.pending.Done()

	client, err := s.connector.Connect(ctx, s.uri)
	if err == nil {
		s.markConnected(client, attempt)
		return
	}

	metrics.DBConnectAttempts.WithLabelValues("failure").Inc()
	s.logger.Error("database connection failed",
		"attempt", attempt,
		"error", err.Error(),
		"retry_in", s.interval.String(),
	)

	s.mu.Lock()
	s.inFlight = false
	if ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	s.state = StateRetryScheduled
	s.mu.Unlock()

	// The lock is released first: the retry may run on another goroutine as
	// soon as it is scheduled.
	if _, schedErr := s.scheduler.After(s.interval, func() { s.Connect(ctx) }); schedErr != nil {
		s.logger.Error("database retry not scheduled", "error", schedErr)
		s.mu.Lock()
		if s.state == StateRetryScheduled {
			s.state = StatePending
		}
		s.mu.Unlock()
	}
}

func (s *Supervisor) markConnected(client *mongo.Client, attempt int) {
	s.mu.Lock()
	s.inFlight = false
	if s.closed {
		s.mu.Unlock()
		// Closed while this attempt was in flight: the client is never handed out.
		ctx, cancel := context.WithTimeout(context.Background(), s.interval)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			s.logger.Warn("late database client disconnect failed", "attempt", attempt, "error", err)
		}
		return
	}
	s.client = client
	s.state = StateConnected
	close(s.ready)
	s.mu.Unlock()

	metrics.DBConnectAttempts.WithLabelValues("success").Inc()
	metrics.DBConnected.Set(1)
	s.logger.Info("database connected", "attempt", attempt, "database", s.dbName)
}

// State returns the current connection state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Attempts returns how many connection attempts have started.
func (s *Supervisor) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// Ready is closed when the connection is established.
func (s *Supervisor) Ready() <-chan struct{} {
	return s.ready
}

// Client returns the connected client, or ErrNotConnected.
func (s *Supervisor) Client() (*mongo.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil, ErrNotConnected
	}
	return s.client, nil
}

// Database returns the application database handle, or ErrNotConnected.
func (s *Supervisor) Database() (*mongo.Database, error) {
	client, err := s.Client()
	if err != nil {
		return nil, err
	}
	return client.Database(s.dbName), nil
}

// DatabaseName reports the database the supervisor will hand out.
func (s *Supervisor) DatabaseName() string {
	return s.dbName
}

// Close stops further attempts, waits for one in flight to finish and
// disconnects the client if one was established.
func (s *Supervisor) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("waiting for connection attempt: %w", ctx.Err())
	}

	s.mu.Lock()
	client := s.client
	s.client = nil
	s.mu.Unlock()

	if client == nil {
		return nil
	}
	metrics.DBConnected.Set(0)
	return client.Disconnect(ctx)
}

// DatabaseName resolves the database name: the explicit override, then the
// path component of uri, then "jobportal".
func DatabaseName(uri, override string) string {
	if override != "" {
		return override
	}
	if uri != "" {
		if cs, err := connstring.Parse(uri); err == nil && cs.Database != "" {
			return cs.Database
		}
	}
	return defaultDatabaseName
}

// Package eventbus decouples request handlers from slow side effects such as
// email. Events go through a buffered channel to a small worker pool, so
// Publish returns immediately whatever the listeners do.
package eventbus

import (
	"log/slog"
	"sync"
	"time"
)

const (
	defaultWorkers    = 3
	defaultBufferSize = 100
)

// EventBus is the interface for publishing events and managing subscribers.
type EventBus interface {
	// Publish enqueues an event with the given type and payload.
	// It never blocks: if the buffer is full, or the bus is closed, the event
	// is dropped and a warning is logged.
	Publish(eventType string, payload map[string]string)

	// Subscribe registers a listener that will be called for every published event.
	Subscribe(listener Listener)

	// Close stops accepting new events and waits for all pending events to be processed.
	Close()
}

// Options configures New.
type Options struct {
	Workers    int
	BufferSize int
	Logger     *slog.Logger
}

type inMemoryBus struct {
	ch        chan Event
	listeners []Listener
	mu        sync.RWMutex
	closed    bool
	wg        sync.WaitGroup
	logger    *slog.Logger
}

// New creates an in-memory EventBus. Zero values in opts fall back to
// 3 workers and a buffer of 100 events.
func New(opts Options) EventBus {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = defaultBufferSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	b := &inMemoryBus{
		ch:     make(chan Event, opts.BufferSize),
		logger: opts.Logger,
	}
	for i := 0; i < opts.Workers; i++ {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			for e := range b.ch {
				b.dispatch(e)
			}
		}()
	}
	return b
}

// dispatch calls all registered listeners for the given event. A panicking
// listener is logged and does not affect the others.
func (b *inMemoryBus) dispatch(e Event) {
	b.mu.RLock()
	listeners := make([]Listener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.RUnlock()

	for _, l := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("event listener panicked", "event", e.Type, "panic", r)
				}
			}()
			l(e)
		}()
	}
}

func (b *inMemoryBus) Publish(eventType string, payload map[string]string) {
	e := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		b.logger.Warn("event bus closed, dropping event", "event", eventType)
		return
	}

	select {
	case b.ch <- e:
	default:
		b.logger.Warn("event bus buffer full, dropping event", "event", eventType)
	}
}

func (b *inMemoryBus) Subscribe(listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, listener)
}

// Close drains and closes the event channel, then waits for all workers to
// finish. It is safe to call more than once.
func (b *inMemoryBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.ch)
	b.mu.Unlock()
	b.wg.Wait()
}

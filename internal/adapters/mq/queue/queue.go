// Package queue carries operator commands from the API to the session loop.
//
// Producers are HTTP handlers on their own goroutines; the single consumer is
// the session loop, which must never block, so it drains with TryDequeue.
package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/mjoy/internal/domain/model"
	"github.com/okian/mjoy/pkg/metrics"
)

const defaultQueueCapacity = 64

// Command is the payload type flowing through the queue.
type Command = model.Command

// Queue provides non-blocking enqueue and dequeue.
type Queue interface {
	// Enqueue adds a command. It returns ErrBackpressure when full and
	// ErrQueueClosed after Close.
	Enqueue(ctx context.Context, c Command) error

	// TryDequeue removes the oldest command; ok is false when none is pending.
	TryDequeue(ctx context.Context) (c Command, ok bool)

	// Len returns the current number of queued commands.
	Len(ctx context.Context) int

	// Close stops accepting commands. Pending commands can still be dequeued.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	commands chan Command
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.commands = make(chan Command, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)

	return q
}

// Enqueue adds a command to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, c Command) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError("closed")
		return ErrQueueClosed
	}

	select {
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError("context_cancelled")
		return fmt.Errorf("enqueue %s: %w", c.Kind, ctx.Err())
	default:
	}

	select {
	case q.commands <- c:
		metrics.UpdateQueueSize(len(q.commands))
		return nil
	default:
		metrics.RecordQueueEnqueueError("full")
		return ErrBackpressure
	}
}

// TryDequeue removes the oldest command without blocking.
func (q *InMemoryQueue) TryDequeue(_ context.Context) (Command, bool) {
	select {
	case c := <-q.commands:
		metrics.UpdateQueueSize(len(q.commands))
		return c, true
	default:
		return Command{}, false
	}
}

// Len returns the current number of queued commands.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.commands)
	metrics.UpdateQueueSize(size)
	return size
}

// Close stops accepting commands.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

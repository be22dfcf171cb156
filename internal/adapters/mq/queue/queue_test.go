package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/mjoy/internal/domain/model"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if _, ok := q.TryDequeue(ctx); ok {
		t.Error("expected empty queue to yield nothing")
	}

	if err := q.Enqueue(ctx, model.Command{Kind: model.CommandTeams, Teams: 3}); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}
	if err := q.Enqueue(ctx, model.Command{Kind: model.CommandStart}); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}

	c, ok := q.TryDequeue(ctx)
	if !ok || c.Kind != model.CommandTeams || c.Teams != 3 {
		t.Errorf("expected teams(3) first, got %+v ok=%v", c, ok)
	}
	c, ok = q.TryDequeue(ctx)
	if !ok || c.Kind != model.CommandStart {
		t.Errorf("expected start second, got %+v ok=%v", c, ok)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := q.Enqueue(ctx, model.Command{Kind: model.CommandSetup}); err != nil {
			t.Fatalf("expected enqueue to succeed, got %v", err)
		}
	}
	if err := q.Enqueue(ctx, model.Command{Kind: model.CommandSetup}); !errors.Is(err, ErrBackpressure) {
		t.Errorf("expected backpressure when full, got %v", err)
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx := context.Background()

	if err := q.Enqueue(ctx, model.Command{Kind: model.CommandStart}); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed")
	}
	if err := q.Enqueue(ctx, model.Command{Kind: model.CommandSetup}); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("expected closed error, got %v", err)
	}
	if _, ok := q.TryDequeue(ctx); !ok {
		t.Error("expected pending command to survive close")
	}
	if err := q.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Enqueue(ctx, model.Command{Kind: model.CommandSetup}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context error, got %v", err)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(16))
	ctx := context.Background()
	const producers, perProducer = 8, 50

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				for q.Enqueue(ctx, model.Command{Kind: model.CommandTeams, Teams: j%4 + 1}) != nil {
					time.Sleep(time.Millisecond)
				}
			}
		}()
	}

	received := 0
	deadline := time.After(10 * time.Second)
	for received < producers*perProducer {
		if _, ok := q.TryDequeue(ctx); ok {
			received++
			continue
		}
		select {
		case <-deadline:
			t.Fatalf("timed out after %d commands", received)
		default:
			time.Sleep(100 * time.Microsecond)
		}
	}
	wg.Wait()
}

package taskqueue

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InMemoryQueue is a simple Queue implementation backed by a buffered channel.
// It is safe for concurrent use.
type InMemoryQueue struct {
	ch   chan Task
	wait time.Duration
}

// NewInMemoryQueue creates a new queue with the given capacity.
// For tests and small deployments, a modest capacity (e.g. 1024) is fine.
//
// wait is how long Dequeue blocks for a task before reporting ErrEmpty; zero
// makes Dequeue non-blocking.
func NewInMemoryQueue(capacity int, wait time.Duration) *InMemoryQueue {
	if capacity <= 0 {
		capacity = 1024
	}
	if wait < 0 {
		wait = 0
	}
	return &InMemoryQueue{
		ch:   make(chan Task, capacity),
		wait: wait,
	}
}

// Ensure InMemoryQueue implements Queue.
var _ Queue = (*InMemoryQueue)(nil)

func (q *InMemoryQueue) Enqueue(ctx context.Context, t Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.EnqueuedAt.IsZero() {
		t.EnqueuedAt = time.Now()
	}
	select {
	case q.ch <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *InMemoryQueue) Dequeue(ctx context.Context) (*Task, error) {
	if q.wait == 0 {
		select {
		case t := <-q.ch:
			return &t, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
			return nil, ErrEmpty
		}
	}

	timer := time.NewTimer(q.wait)
	defer timer.Stop()

	select {
	case t := <-q.ch:
		return &t, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrEmpty
	}
}

func (q *InMemoryQueue) Len() int {
	return len(q.ch)
}

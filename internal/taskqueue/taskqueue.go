package taskqueue

import (
	"context"
	"errors"
	"time"
)

// ErrEmpty is returned by Dequeue when no task became available within the
// queue's own waiting policy. Consumers treat it as exhaustion, not failure.
var ErrEmpty = errors.New("taskqueue: empty")

// Task is an opaque unit of work handed to a task worker.
type Task struct {
	ID string

	// Kind is an optional, caller-defined label that handlers may switch on.
	Kind string

	// Payload is caller-defined. Backends that serialize tasks use
	// encoding/gob, so concrete payload types must be registered with
	// gob.Register.
	Payload any

	EnqueuedAt time.Time

	// NotBefore is the earliest time this task should be eligible
	// for processing. Zero value means "immediately" (i.e., at enqueue time).
	// Only SQLiteQueue honours it; the other backends deliver in FIFO order.
	NotBefore time.Time
}

// Queue is a thread-safe FIFO of tasks shared between producers and workers.
type Queue interface {
	// Enqueue adds a task to the queue. It should respect ctx for cancellation.
	Enqueue(ctx context.Context, t Task) error

	// Dequeue removes and returns the next task. If none is available within
	// the queue's wait window it returns ErrEmpty; if ctx ends first it
	// returns ctx.Err().
	Dequeue(ctx context.Context) (*Task, error)

	// Len returns the approximate number of tasks queued.
	Len() int
}

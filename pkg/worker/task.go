package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/petrijr/workthread/internal/taskqueue"
)

// TaskHandler processes a single task taken from the queue.
type TaskHandler interface {
	RunTask(ctx context.Context, task *taskqueue.Task) error
}

// TaskHandlerFunc adapts a function to TaskHandler.
type TaskHandlerFunc func(ctx context.Context, task *taskqueue.Task) error

func (f TaskHandlerFunc) RunTask(ctx context.Context, task *taskqueue.Task) error {
	return f(ctx, task)
}

type taskUnit struct {
	queue     taskqueue.Queue
	handler   TaskHandler
	processed atomic.Int64
}

func (u *taskUnit) HasWork() bool {
	return u.queue != nil && u.handler != nil
}

func (u *taskUnit) RunOnce(ctx context.Context) (Outcome, error) {
	task, err := u.queue.Dequeue(ctx)
	if err != nil {
		// An empty queue is the normal end of a task worker, and so is a
		// cancelled worker context.
		if errors.Is(err, taskqueue.ErrEmpty) || ctx.Err() != nil {
			return Exhausted, nil
		}
		return Worked, fmt.Errorf("dequeue: %w", err)
	}
	if task == nil {
		return Worked, nil
	}

	if err := u.handler.RunTask(ctx, task); err != nil {
		return Worked, fmt.Errorf("task %s: %w", task.ID, err)
	}
	u.processed.Add(1)
	return Worked, nil
}

// TaskWorker drains a shared queue, handing each task to its TaskHandler and
// sleeping Delay between tasks. It stops once the queue reports
// taskqueue.ErrEmpty.
//
// The queue belongs to the caller and may be shared with producers and other
// consumers.
type TaskWorker struct {
	*Worker
	unit *taskUnit
}

// NewTaskWorker creates a TaskWorker with DefaultConfig.
func NewTaskWorker(queue taskqueue.Queue, handler TaskHandler) *TaskWorker {
	w, err := NewTaskWorkerWithConfig(queue, handler, DefaultConfig())
	if err != nil {
		// DefaultConfig is always valid.
		panic(err)
	}
	return w
}

// NewTaskWorkerWithConfig creates a TaskWorker with a custom configuration.
// It fails with api.ErrInvalidArgument on a negative Delay or Timeout.
func NewTaskWorkerWithConfig(queue taskqueue.Queue, handler TaskHandler, cfg Config) (*TaskWorker, error) {
	u := &taskUnit{queue: queue, handler: handler}
	w, err := New("TaskWorker", u, cfg)
	if err != nil {
		return nil, err
	}
	return &TaskWorker{Worker: w, unit: u}, nil
}

// Processed returns how many tasks the handler completed successfully.
func (w *TaskWorker) Processed() int64 {
	return w.unit.processed.Load()
}

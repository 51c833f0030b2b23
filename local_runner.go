package workthread

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/petrijr/workthread/internal/taskqueue"
	"github.com/petrijr/workthread/pkg/worker"
)

// LocalRunner bundles an in-memory task queue and a TaskWorker to provide a
// simple "local runner" for development, tests and single-process programs.
//
// A TaskWorker stops once its queue is empty, so each Start creates a fresh
// worker over the same queue.
//
// Typical usage:
//
//	runner := workthread.NewLocalRunner(handler)
//	_ = runner.Submit(ctx, "email", msg)
//	_ = runner.Start(ctx)
//	...
//	runner.Stop()
type LocalRunner struct {
	// Queue is the in-memory task queue consumed by the worker.
	Queue Queue

	handler TaskHandler
	cfg     WorkerConfig

	mu     sync.Mutex
	worker *TaskWorker
}

// NewLocalRunner constructs a LocalRunner backed by an in-memory queue whose
// Dequeue waits up to 50ms for new tasks, and a worker with default config.
func NewLocalRunner(handler TaskHandler) *LocalRunner {
	return &LocalRunner{
		Queue:   taskqueue.NewInMemoryQueue(1024, 50*time.Millisecond),
		handler: handler,
		cfg:     worker.DefaultConfig(),
	}
}

// NewLocalRunnerWithConfig is NewLocalRunner with a custom worker
// configuration. The configuration is validated on Start.
func NewLocalRunnerWithConfig(handler TaskHandler, cfg WorkerConfig) *LocalRunner {
	r := NewLocalRunner(handler)
	r.cfg = cfg
	return r
}

// Submit enqueues a task for the worker.
func (r *LocalRunner) Submit(ctx context.Context, kind string, payload any) error {
	return r.Queue.Enqueue(ctx, Task{Kind: kind, Payload: payload})
}

// Start launches a worker that drains the queue. If a previous worker is
// still alive it returns an error.
func (r *LocalRunner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.worker != nil && !r.worker.IsStopped() {
		return errors.New("workthread: LocalRunner already started")
	}

	w, err := worker.NewTaskWorkerWithConfig(r.Queue, r.handler, r.cfg)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	r.worker = w
	return nil
}

// Drain starts a worker and blocks until it has emptied the queue, was
// stopped, or ctx ended. It returns the worker's failure, if any.
func (r *LocalRunner) Drain(ctx context.Context) error {
	if err := r.Start(ctx); err != nil {
		return err
	}
	w := r.Worker()
	if err := w.Wait(ctx); err != nil {
		return err
	}
	return w.Err()
}

// Worker returns the most recently started worker, or nil.
func (r *LocalRunner) Worker() *TaskWorker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.worker
}

// Pause pauses the current worker, if any.
func (r *LocalRunner) Pause() {
	if w := r.Worker(); w != nil {
		w.Pause()
	}
}

// Resume resumes the current worker, if any.
func (r *LocalRunner) Resume() {
	if w := r.Worker(); w != nil {
		w.Resume()
	}
}

// Stop stops the current worker and waits for its goroutine to exit.
func (r *LocalRunner) Stop() {
	w := r.Worker()
	if w == nil {
		return
	}
	w.Stop()
	w.Join(-1)
}

// Package workthread provides pausable, resumable, stoppable background
// workers for Go services.
//
// A worker owns exactly one background goroutine and moves through four
// states: INITIAL, RUNNING, PAUSED and STOPPED. Callers control it from any
// goroutine:
//
//   - Pause waits for the unit of work in progress to finish before the
//     worker actually pauses.
//   - A worker left paused longer than its Timeout stops on its own.
//   - Stop takes effect from any state, including while the worker sleeps
//     between units or waits in a pause.
//
// # Core Concepts
//
//  1. CycleWorker repeats a Routine until stopped.
//  2. TaskWorker drains a Queue, dispatching each Task to a TaskHandler, and
//     stops when the queue is empty.
//  3. Queue is the caller-owned work source of a TaskWorker. In-memory,
//     SQLite and Redis implementations are provided.
//  4. Observer receives lifecycle events for logging (LoggingObserver) and
//     metrics (BasicMetrics).
//  5. LocalRunner bundles an in-memory queue and a TaskWorker for tests and
//     single-process programs.
//
// # Example
//
//	q := workthread.NewInMemoryQueue(1024, 0)
//	_ = q.Enqueue(ctx, workthread.Task{Payload: "resize:42"})
//
//	w := workthread.NewTaskWorker(q, workthread.TaskHandlerFunc(
//	    func(ctx context.Context, t *workthread.Task) error {
//	        return resize(ctx, t.Payload)
//	    }))
//	_ = w.Start(ctx)
//	w.Join(time.Minute)
//
// # Configuration
//
// Workers take a WorkerConfig (Name, Delay, Timeout, Observer). Programs can
// instead load a YAML or JSON file with LoadConfig and open the configured
// queue backend with OpenQueue.
//
// See the examples directory for runnable programs.
package workthread

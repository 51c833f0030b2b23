// Package worker provides pausable, resumable, stoppable background workers.
//
// A Worker owns one background goroutine that repeats a Unit of work. Two
// units ship with the package:
//
//   - CycleWorker calls a Routine over and over until it is stopped.
//   - TaskWorker drains a taskqueue.Queue, handing each task to a
//     TaskHandler, and stops once the queue reports taskqueue.ErrEmpty.
//
// # Lifecycle
//
// Workers are created in StateInitial. Start spawns the goroutine and moves
// to StateRunning; Pause, Resume and Stop may then be called from any
// goroutine:
//
//	w := worker.NewCycleWorker(func(ctx context.Context) error {
//	    return poll(ctx)
//	})
//	_ = w.Start(ctx)
//	...
//	w.Pause()   // takes effect after the current call to poll returns
//	w.Resume()
//	w.Stop()
//	w.Join(2 * time.Second)
//
// A pause never interrupts a unit of work. A worker that stays paused longer
// than its Timeout stops by itself. Stop wakes a worker that is sleeping
// between units or waiting in a pause, so it takes effect without waiting out
// Delay or Timeout.
//
// # Failures
//
// Running out of work is not an error: the worker simply stops. A Routine or
// TaskHandler that returns an error (or panics) also stops the worker; the
// cause is available from Err and is reported to the configured Observer.
//
// # Configuration
//
// NewCycleWorker and NewTaskWorker use DefaultConfig. The WithConfig variants
// accept a Config carrying Name, Delay, Timeout and an api.Observer, and
// reject negative durations with api.ErrInvalidArgument. Delay and Timeout can
// also be changed at any time with SetDelay and SetTimeout.
package worker

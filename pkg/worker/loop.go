package worker

import (
	"errors"
	"fmt"
	"time"

	"github.com/petrijr/workthread/pkg/api"
)

func (w *Worker) run() {
	defer close(w.done)

	for w.await() {
		if !w.runUnit() {
			return
		}
		w.sleep()
	}
}

// await blocks while the worker is paused. It returns true with working set
// when the next unit may start, and false once the worker is stopped.
func (w *Worker) await() bool {
	ctx := w.ctx

	for {
		w.mu.Lock()

		if ctx.Err() != nil && w.state != api.StateStopped {
			tr := w.transitionLocked(api.StateStopped)
			w.mu.Unlock()
			w.notify(ctx, tr)
			return false
		}

		switch w.state {
		case api.StateRunning:
			w.working = true
			w.mu.Unlock()
			return true

		case api.StatePaused:
			remaining := time.Until(w.deadline)
			if remaining <= 0 {
				pausedFor := time.Since(w.pausedAt)
				tr := w.transitionLocked(api.StateStopped)
				w.mu.Unlock()
				w.observer.OnAutoStop(ctx, w.name, pausedFor)
				w.notify(ctx, tr)
				return false
			}
			wake := w.wake
			w.mu.Unlock()

			timer := time.NewTimer(remaining)
			select {
			case <-wake:
			case <-timer.C:
			case <-ctx.Done():
			}
			timer.Stop()

		default:
			w.mu.Unlock()
			return false
		}
	}
}

// runUnit executes one unit and applies any pause or stop that arrived
// meanwhile. It reports whether the loop should continue.
func (w *Worker) runUnit() bool {
	ctx := w.ctx

	w.observer.OnUnitStart(ctx, w.name)
	start := time.Now()
	outcome, err := w.invoke()
	w.observer.OnUnitCompleted(ctx, w.name, outcome == Exhausted, err, time.Since(start))

	w.mu.Lock()
	w.working = false

	cont := true
	var tr transition
	switch {
	case err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()):
		// Cancellation of the worker context is a clean stop.
		tr = w.transitionLocked(api.StateStopped)
		cont = false
	case err != nil:
		w.err = err
		tr = w.transitionLocked(api.StateStopped)
		cont = false
	case outcome == Exhausted, w.stopReq:
		tr = w.transitionLocked(api.StateStopped)
		cont = false
	case w.pauseReq:
		tr = w.transitionLocked(api.StatePaused)
	}
	w.pauseReq, w.stopReq = false, false
	w.mu.Unlock()

	w.notify(ctx, tr)
	return cont
}

// invoke runs the unit and turns a panic into an error.
func (w *Worker) invoke() (outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Worked
			err = fmt.Errorf("%s %s: unit panicked: %v", w.kind, w.name, r)
		}
	}()
	return w.unit.RunOnce(w.ctx)
}

// sleep waits for the configured delay. Any lifecycle signal or the end of
// the worker context cuts it short.
func (w *Worker) sleep() {
	w.mu.Lock()
	delay, wake, state := w.delay, w.wake, w.state
	w.mu.Unlock()

	if delay == 0 || state != api.StateRunning {
		return
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-wake:
	case <-timer.C:
	case <-w.ctx.Done():
	}
}

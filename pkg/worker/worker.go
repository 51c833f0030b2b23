package worker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/petrijr/workthread/pkg/api"
)

const (
	// DefaultDelay is the pause between two units of work.
	DefaultDelay time.Duration = 0

	// DefaultTimeout is how long a worker may stay paused before it stops
	// on its own.
	DefaultTimeout = 1000 * time.Second
)

// Outcome is the result of a single unit of work.
type Outcome int

const (
	// Worked means the unit did its work and more may follow.
	Worked Outcome = iota

	// Exhausted means the work source ran dry. The worker stops normally.
	Exhausted
)

// Unit is one kind of work a Worker repeats.
type Unit interface {
	// HasWork reports whether the unit has a work source at all. A worker
	// whose unit has none goes straight to StateStopped on Start.
	HasWork() bool

	// RunOnce performs exactly one unit of work.
	RunOnce(ctx context.Context) (Outcome, error)
}

// Config controls delay, pause timeout and observability of a worker.
type Config struct {
	// Name identifies the worker in logs and String(). Empty means a
	// generated name.
	Name string

	// Delay is slept between two units of work.
	Delay time.Duration

	// Timeout is the maximum time the worker may remain paused.
	Timeout time.Duration

	// Observer receives lifecycle events. Nil means api.NoopObserver.
	Observer api.Observer
}

// DefaultConfig returns the configuration used by the plain constructors.
func DefaultConfig() Config {
	return Config{
		Delay:   DefaultDelay,
		Timeout: DefaultTimeout,
	}
}

// Worker runs a Unit repeatedly on a single background goroutine and lets
// other goroutines pause, resume and stop it.
//
// A pause or stop requested while a unit executes takes effect once that
// unit returns. While paused the worker stops by itself after Timeout.
type Worker struct {
	kind     string
	name     string
	unit     Unit
	observer api.Observer

	mu       sync.Mutex
	ctx      context.Context
	state    api.State
	delay    time.Duration
	timeout  time.Duration
	working  bool
	pauseReq bool
	stopReq  bool
	pausedAt time.Time
	deadline time.Time
	err      error

	// wake is closed and replaced on every lifecycle signal.
	wake    chan struct{}
	done    chan struct{}
	spawned bool
}

// New creates a worker of the given kind around unit. kind is the type name
// shown by String, e.g. "CycleWorker".
func New(kind string, unit Unit, cfg Config) (*Worker, error) {
	w := &Worker{
		kind:     kind,
		name:     cfg.Name,
		unit:     unit,
		observer: cfg.Observer,
		ctx:      context.Background(),
		state:    api.StateInitial,
		wake:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	if w.name == "" {
		w.name = strings.ToLower(kind) + "-" + uuid.NewString()[:8]
	}
	if w.observer == nil {
		w.observer = api.NoopObserver{}
	}
	if err := w.SetDelay(cfg.Delay); err != nil {
		return nil, err
	}
	if err := w.SetTimeout(cfg.Timeout); err != nil {
		return nil, err
	}
	return w, nil
}

type transition struct {
	from, to api.State
}

// transitionLocked must be called with w.mu held.
func (w *Worker) transitionLocked(to api.State) transition {
	tr := transition{from: w.state, to: to}
	w.state = to
	if to == api.StatePaused {
		w.pausedAt = time.Now()
		w.deadline = w.pausedAt.Add(w.timeout)
	} else {
		w.deadline = time.Time{}
	}
	close(w.wake)
	w.wake = make(chan struct{})
	return tr
}

func (w *Worker) notify(ctx context.Context, trs ...transition) {
	for _, tr := range trs {
		if tr.from != tr.to {
			w.observer.OnStateChange(ctx, w.name, tr.from, tr.to)
		}
	}
}

// Start spawns the background goroutine and moves the worker to
// StateRunning. A worker without a work source moves straight to
// StateStopped instead. Cancelling ctx has the same effect as Stop.
//
// Start returns api.ErrAlreadyStarted if the worker left StateInitial.
func (w *Worker) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	w.mu.Lock()
	if w.state != api.StateInitial {
		w.mu.Unlock()
		return fmt.Errorf("%s %s: %w", w.kind, w.name, api.ErrAlreadyStarted)
	}
	w.ctx = ctx

	if !w.unit.HasWork() {
		tr := w.transitionLocked(api.StateStopped)
		w.mu.Unlock()
		w.notify(ctx, tr)
		return nil
	}

	w.spawned = true
	tr := w.transitionLocked(api.StateRunning)
	w.mu.Unlock()

	w.notify(ctx, tr)
	go w.run()
	return nil
}

// Pause asks the worker to pause. It does not wait: when a unit is in
// progress the worker pauses as soon as it returns, so callers that need to
// observe StatePaused poll IsWorking or IsPaused.
func (w *Worker) Pause() {
	w.mu.Lock()
	if w.state != api.StateRunning {
		w.mu.Unlock()
		return
	}
	if w.working {
		w.pauseReq = true
		w.mu.Unlock()
		return
	}
	tr := w.transitionLocked(api.StatePaused)
	ctx := w.ctx
	w.mu.Unlock()

	w.notify(ctx, tr)
}

// Resume continues a paused worker. A pause that has been requested but not
// yet taken effect is withdrawn. Otherwise Resume does nothing.
func (w *Worker) Resume() {
	w.mu.Lock()
	w.pauseReq = false
	if w.state != api.StatePaused {
		w.mu.Unlock()
		return
	}
	tr := w.transitionLocked(api.StateRunning)
	ctx := w.ctx
	w.mu.Unlock()

	w.notify(ctx, tr)
}

// Stop ends the worker. It is safe to call any number of times from any
// state. A unit in progress is allowed to finish, but no new unit starts.
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.state == api.StateStopped {
		w.mu.Unlock()
		return
	}
	if w.working {
		w.stopReq = true
		w.mu.Unlock()
		return
	}
	tr := w.transitionLocked(api.StateStopped)
	ctx := w.ctx
	w.mu.Unlock()

	w.notify(ctx, tr)
}

// Join waits up to timeout for the background goroutine to exit and reports
// whether it has. A negative timeout waits indefinitely. Join returns true at
// once if no goroutine was ever started.
func (w *Worker) Join(timeout time.Duration) bool {
	w.mu.Lock()
	spawned, done := w.spawned, w.done
	w.mu.Unlock()

	if !spawned {
		return true
	}
	if timeout < 0 {
		<-done
		return true
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}

// Wait blocks until the background goroutine exits or ctx ends.
func (w *Worker) Wait(ctx context.Context) error {
	w.mu.Lock()
	spawned, done := w.spawned, w.done
	w.mu.Unlock()

	if !spawned {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Name returns the worker's diagnostic name.
func (w *Worker) Name() string {
	return w.name
}

// State returns the current lifecycle state.
func (w *Worker) State() api.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Err returns the failure that stopped the worker, if any. Running out of
// work is not a failure.
func (w *Worker) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// IsAlive reports whether the background goroutine exists and has not exited.
func (w *Worker) IsAlive() bool {
	w.mu.Lock()
	spawned, done := w.spawned, w.done
	w.mu.Unlock()

	if !spawned {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// IsWorking reports whether a unit of work is executing right now.
func (w *Worker) IsWorking() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.working
}

func (w *Worker) IsInitial() bool { return w.State() == api.StateInitial }
func (w *Worker) IsRunning() bool { return w.State() == api.StateRunning }
func (w *Worker) IsPaused() bool  { return w.State() == api.StatePaused }
func (w *Worker) IsStopped() bool { return w.State() == api.StateStopped }

// Delay returns the time slept between units of work.
func (w *Worker) Delay() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.delay
}

// SetDelay changes the time slept between units of work. A sleep already in
// progress is not shortened.
func (w *Worker) SetDelay(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%w: Delay must be non-negative, got %v", api.ErrInvalidArgument, d)
	}
	w.mu.Lock()
	w.delay = d
	w.mu.Unlock()
	return nil
}

// Timeout returns the maximum pause time.
func (w *Worker) Timeout() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.timeout
}

// SetTimeout changes the maximum pause time. A pause already in effect keeps
// the deadline it was given.
func (w *Worker) SetTimeout(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%w: Timeout must be non-negative, got %v", api.ErrInvalidArgument, d)
	}
	w.mu.Lock()
	w.timeout = d
	w.mu.Unlock()
	return nil
}

// String describes the worker, e.g. "<CycleWorker(cycle-1, started paused)>".
func (w *Worker) String() string {
	state := w.State()

	var status string
	switch state {
	case api.StateInitial:
		status = "initial"
	case api.StateStopped:
		status = "stopped"
	default:
		status = "started " + strings.ToLower(string(state))
	}
	return fmt.Sprintf("<%s(%s, %s)>", w.kind, w.name, status)
}

package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Observer receives callbacks from a worker for logging and metrics.
//
// Callbacks are invoked from the worker goroutine, or from the goroutine that
// called a lifecycle method, and never while the worker holds its lock.
// Implementations should be fast and non-blocking.
type Observer interface {
	// OnStateChange is called after the worker moved from one state to another.
	OnStateChange(ctx context.Context, worker string, from, to State)

	// OnUnitStart is called before a single unit of work is executed.
	OnUnitStart(ctx context.Context, worker string)

	// OnUnitCompleted is called after a unit of work returned, for both
	// successes and failures (err != nil). exhausted is true when the unit
	// reported that no more work is available.
	OnUnitCompleted(ctx context.Context, worker string, exhausted bool, err error, duration time.Duration)

	// OnAutoStop is called when a paused worker stopped because its pause
	// timeout elapsed.
	OnAutoStop(ctx context.Context, worker string, pausedFor time.Duration)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnStateChange(ctx context.Context, worker string, from, to State) {}
func (NoopObserver) OnUnitStart(ctx context.Context, worker string)                   {}
func (NoopObserver) OnUnitCompleted(ctx context.Context, worker string, exhausted bool, err error, d time.Duration) {
}
func (NoopObserver) OnAutoStop(ctx context.Context, worker string, pausedFor time.Duration) {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnStateChange(ctx context.Context, worker string, from, to State) {
	for _, o := range c.observers {
		o.OnStateChange(ctx, worker, from, to)
	}
}

func (c *CompositeObserver) OnUnitStart(ctx context.Context, worker string) {
	for _, o := range c.observers {
		o.OnUnitStart(ctx, worker)
	}
}

func (c *CompositeObserver) OnUnitCompleted(ctx context.Context, worker string, exhausted bool, err error, d time.Duration) {
	for _, o := range c.observers {
		o.OnUnitCompleted(ctx, worker, exhausted, err, d)
	}
}

func (c *CompositeObserver) OnAutoStop(ctx context.Context, worker string, pausedFor time.Duration) {
	for _, o := range c.observers {
		o.OnAutoStop(ctx, worker, pausedFor)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs worker lifecycle events
// using the provided slog.Logger. If logger is nil, slog.Default() is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnStateChange(ctx context.Context, worker string, from, to State) {
	o.Logger.InfoContext(ctx, "worker_state_changed",
		slog.String("worker", worker),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)
}

func (o *LoggingObserver) OnUnitStart(ctx context.Context, worker string) {
	o.Logger.DebugContext(ctx, "unit_start",
		slog.String("worker", worker),
	)
}

func (o *LoggingObserver) OnUnitCompleted(ctx context.Context, worker string, exhausted bool, err error, d time.Duration) {
	if err != nil {
		o.Logger.ErrorContext(ctx, "unit_failed",
			slog.String("worker", worker),
			slog.Duration("duration", d),
			slog.Any("error", err),
		)
		return
	}
	o.Logger.DebugContext(ctx, "unit_completed",
		slog.String("worker", worker),
		slog.Bool("exhausted", exhausted),
		slog.Duration("duration", d),
	)
}

func (o *LoggingObserver) OnAutoStop(ctx context.Context, worker string, pausedFor time.Duration) {
	o.Logger.WarnContext(ctx, "worker_pause_timeout",
		slog.String("worker", worker),
		slog.Duration("paused_for", pausedFor),
	)
}

// BasicMetrics collects simple counters and aggregate unit durations.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	unitsCompleted    atomic.Int64
	unitsFailed       atomic.Int64
	exhaustions       atomic.Int64
	pauses            atomic.Int64
	autoStops         atomic.Int64
	stops             atomic.Int64
	totalUnitDuration atomic.Int64 // nanoseconds
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	UnitsCompleted int64
	UnitsFailed    int64
	Exhaustions    int64

	Pauses    int64
	AutoStops int64
	Stops     int64

	AvgUnitDuration time.Duration
}

func (m *BasicMetrics) OnStateChange(ctx context.Context, worker string, from, to State) {
	switch to {
	case StatePaused:
		m.pauses.Add(1)
	case StateStopped:
		m.stops.Add(1)
	}
}

func (m *BasicMetrics) OnUnitCompleted(ctx context.Context, worker string, exhausted bool, err error, d time.Duration) {
	switch {
	case err != nil:
		m.unitsFailed.Add(1)
	case exhausted:
		m.exhaustions.Add(1)
	default:
		// Only count real work for average duration.
		m.unitsCompleted.Add(1)
		m.totalUnitDuration.Add(d.Nanoseconds())
	}
}

func (m *BasicMetrics) OnAutoStop(ctx context.Context, worker string, pausedFor time.Duration) {
	m.autoStops.Add(1)
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	units := m.unitsCompleted.Load()
	totalNs := m.totalUnitDuration.Load()

	var avg time.Duration
	if units > 0 {
		avg = time.Duration(totalNs / units)
	}

	return BasicMetricsSnapshot{
		UnitsCompleted:  units,
		UnitsFailed:     m.unitsFailed.Load(),
		Exhaustions:     m.exhaustions.Load(),
		Pauses:          m.pauses.Load(),
		AutoStops:       m.autoStops.Load(),
		Stops:           m.stops.Load(),
		AvgUnitDuration: avg,
	}
}

// Package api contains the shared vocabulary of the workthread module: the
// worker lifecycle State, the sentinel errors returned by workers, and the
// Observer contract used for logging and metrics.
//
// Most users interact with the higher-level workthread package, which
// re-exports selected types and helpers from this package. The api package is
// intended for custom integrations, for example a worker Unit implemented
// outside of pkg/worker, or an Observer that exports metrics elsewhere.
//
// # Lifecycle
//
// Every worker moves through the same states:
//
//	INITIAL ──Start──▶ RUNNING ◀──Pause/Resume──▶ PAUSED
//	   │                  │                          │
//	   └──────────────────┴────────Stop/timeout──────┴──▶ STOPPED
//
// RUNNING and PAUSED may alternate any number of times. STOPPED is terminal.
//
// # Observability
//
// Observers receive state transitions and unit-of-work completions:
//
//   - NoopObserver ignores everything and is the default.
//   - LoggingObserver writes structured log/slog records.
//   - BasicMetrics keeps atomic counters and exposes a Snapshot.
//   - NewCompositeObserver fans events out to several observers.
package api

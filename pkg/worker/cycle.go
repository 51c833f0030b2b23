package worker

import (
	"context"
)

// Routine is the work a CycleWorker repeats.
type Routine func(ctx context.Context) error

type cycleUnit struct {
	routine Routine
}

func (u cycleUnit) HasWork() bool {
	return u.routine != nil
}

func (u cycleUnit) RunOnce(ctx context.Context) (Outcome, error) {
	if u.routine == nil {
		return Exhausted, nil
	}
	return Worked, u.routine(ctx)
}

// CycleWorker calls a routine over and over, sleeping Delay in between,
// until it is stopped. A CycleWorker without a routine stops on Start.
type CycleWorker struct {
	*Worker
}

// NewCycleWorker creates a CycleWorker with DefaultConfig.
func NewCycleWorker(routine Routine) *CycleWorker {
	w, err := NewCycleWorkerWithConfig(routine, DefaultConfig())
	if err != nil {
		// DefaultConfig is always valid.
		panic(err)
	}
	return w
}

// NewCycleWorkerWithConfig creates a CycleWorker with a custom configuration.
// It fails with api.ErrInvalidArgument on a negative Delay or Timeout.
func NewCycleWorkerWithConfig(routine Routine, cfg Config) (*CycleWorker, error) {
	w, err := New("CycleWorker", cycleUnit{routine: routine}, cfg)
	if err != nil {
		return nil, err
	}
	return &CycleWorker{Worker: w}, nil
}

package api

import "errors"

// State is the lifecycle state of a worker.
type State string

const (
	StateInitial State = "INITIAL"
	StateRunning State = "RUNNING"
	StatePaused  State = "PAUSED"
	StateStopped State = "STOPPED"
)

// Terminal reports whether no further transition is possible from s.
func (s State) Terminal() bool {
	return s == StateStopped
}

var (
	// ErrInvalidArgument is wrapped by every validation error returned when a
	// worker setting is given an out-of-range value.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAlreadyStarted is returned by Start on a worker that has already
	// left StateInitial.
	ErrAlreadyStarted = errors.New("worker already started")
)

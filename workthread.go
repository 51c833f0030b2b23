package workthread

import (
	"database/sql"
	"time"

	"github.com/petrijr/workthread/internal/config"
	"github.com/petrijr/workthread/internal/taskqueue"
	"github.com/petrijr/workthread/pkg/api"
	"github.com/petrijr/workthread/pkg/worker"
	"github.com/redis/go-redis/v9"
)

// Re-export key types so users don't need to dig into pkg/api and internal packages.

type (
	State                = api.State
	Observer             = api.Observer
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	NoopObserver         = api.NoopObserver

	Worker          = worker.Worker
	WorkerConfig    = worker.Config
	CycleWorker     = worker.CycleWorker
	TaskWorker      = worker.TaskWorker
	Routine         = worker.Routine
	TaskHandler     = worker.TaskHandler
	TaskHandlerFunc = worker.TaskHandlerFunc

	Task  = taskqueue.Task
	Queue = taskqueue.Queue

	Config = config.FileConfig
)

// Re-export lifecycle states.

const (
	StateInitial = api.StateInitial
	StateRunning = api.StateRunning
	StatePaused  = api.StatePaused
	StateStopped = api.StateStopped
)

// Re-export sentinel errors and helpers.

var (
	ErrInvalidArgument = api.ErrInvalidArgument
	ErrAlreadyStarted  = api.ErrAlreadyStarted
	ErrQueueEmpty      = taskqueue.ErrEmpty

	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver

	DefaultWorkerConfig = worker.DefaultConfig
	LoadConfig          = config.LoadFile
	DefaultConfig       = config.Default
)

// NewCycleWorker returns a worker that repeats routine until stopped.
func NewCycleWorker(routine Routine) *CycleWorker {
	return worker.NewCycleWorker(routine)
}

// NewCycleWorkerWithConfig is NewCycleWorker with a custom configuration.
func NewCycleWorkerWithConfig(routine Routine, cfg WorkerConfig) (*CycleWorker, error) {
	return worker.NewCycleWorkerWithConfig(routine, cfg)
}

// NewTaskWorker returns a worker that drains queue through handler.
func NewTaskWorker(queue Queue, handler TaskHandler) *TaskWorker {
	return worker.NewTaskWorker(queue, handler)
}

// NewTaskWorkerWithConfig is NewTaskWorker with a custom configuration.
func NewTaskWorkerWithConfig(queue Queue, handler TaskHandler, cfg WorkerConfig) (*TaskWorker, error) {
	return worker.NewTaskWorkerWithConfig(queue, handler, cfg)
}

// Queue constructors
// These wrap the internal/taskqueue package so external callers
// never need to import internal packages.

// NewInMemoryQueue returns a channel-backed queue. Dequeue waits up to wait
// for a task before reporting ErrQueueEmpty.
func NewInMemoryQueue(capacity int, wait time.Duration) Queue {
	return taskqueue.NewInMemoryQueue(capacity, wait)
}

// NewSQLiteQueue returns a queue stored in the worker_tasks table of db.
func NewSQLiteQueue(db *sql.DB, wait time.Duration) (Queue, error) {
	return taskqueue.NewSQLiteQueue(db, wait)
}

// NewRedisQueue returns a queue stored in a Redis list under prefix.
func NewRedisQueue(client *redis.Client, prefix string, wait time.Duration) Queue {
	return taskqueue.NewRedisQueue(client, prefix, wait)
}

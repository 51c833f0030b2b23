package workthread

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/petrijr/workthread/internal/config"
	"github.com/petrijr/workthread/internal/taskqueue"
	"github.com/petrijr/workthread/pkg/api"
	"github.com/petrijr/workthread/pkg/worker"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// OpenQueue opens the queue backend selected by cfg.Queue.Backend. The
// returned close function releases the backend connection.
func OpenQueue(ctx context.Context, cfg *Config) (Queue, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	wait, err := cfg.QueueWait()
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Queue.Backend {
	case config.BackendSQLite:
		db, err := sql.Open("sqlite", cfg.Queue.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite queue: %w", err)
		}
		if cfg.Queue.SQLitePath == ":memory:" {
			// Every connection to :memory: is a separate database.
			db.SetMaxOpenConns(1)
		}
		q, err := taskqueue.NewSQLiteQueue(db, wait)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("init sqlite queue: %w", err)
		}
		return q, db.Close, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Queue.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis queue: %w", err)
		}
		return taskqueue.NewRedisQueue(client, cfg.Queue.RedisPrefix, wait), client.Close, nil

	default:
		return taskqueue.NewInMemoryQueue(cfg.Queue.Capacity, wait), func() error { return nil }, nil
	}
}

// TaskBundle wires together a configured queue backend and a TaskWorker
// that consumes it.
type TaskBundle struct {
	Queue  Queue
	Worker *TaskWorker

	closeQueue func() error
}

// NewTaskBundle opens the queue described by cfg and builds a TaskWorker
// with the configured name, delay and timeout. The worker logs lifecycle
// events through cfg's logger; obs, if non-nil, receives them as well.
//
// Typical usage:
//
//	cfg, _ := workthread.LoadConfig("worker.yaml")
//	bundle, err := workthread.NewTaskBundle(ctx, cfg, handler, nil)
//	defer bundle.Close()
//	_ = bundle.Worker.Start(ctx)
func NewTaskBundle(ctx context.Context, cfg *Config, handler TaskHandler, obs Observer) (*TaskBundle, error) {
	q, closeQueue, err := OpenQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	wcfg, err := cfg.WorkerConfig()
	if err != nil {
		_ = closeQueue()
		return nil, err
	}
	wcfg.Observer = api.NewCompositeObserver(api.NewLoggingObserver(cfg.Logger()), obs)

	w, err := worker.NewTaskWorkerWithConfig(q, handler, wcfg)
	if err != nil {
		_ = closeQueue()
		return nil, err
	}

	return &TaskBundle{
		Queue:      q,
		Worker:     w,
		closeQueue: closeQueue,
	}, nil
}

// Close stops the worker, waits for it and releases the queue backend.
func (b *TaskBundle) Close() error {
	b.Worker.Stop()
	b.Worker.Join(-1)
	return b.closeQueue()
}

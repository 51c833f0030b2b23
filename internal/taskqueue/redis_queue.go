package taskqueue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisQueue implements the Queue interface using Redis.
//
// It uses a single Redis list with key:
//
//	<prefix>:tasks
//
// Values are gob-encoded Task structs.
type RedisQueue struct {
	client *redis.Client
	key    string
	wait   time.Duration
}

// NewRedisQueue constructs a Redis-backed Queue.
// prefix is optional but recommended (e.g. "workthread:").
//
// wait is how long Dequeue blocks on BRPOP before reporting ErrEmpty. Redis
// only honours whole-millisecond timeouts; a zero wait uses a non-blocking RPOP.
func NewRedisQueue(client *redis.Client, prefix string, wait time.Duration) *RedisQueue {
	if prefix == "" {
		prefix = "workthread:"
	}
	if wait < 0 {
		wait = 0
	}
	return &RedisQueue{
		client: client,
		key:    prefix + "tasks",
		wait:   wait,
	}
}

// Ensure RedisQueue implements Queue.
var _ Queue = (*RedisQueue)(nil)

// Enqueue pushes a task onto the Redis list (LPUSH).
func (q *RedisQueue) Enqueue(ctx context.Context, t Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.EnqueuedAt.IsZero() {
		t.EnqueuedAt = time.Now()
	}
	data, err := EncodeTask(t)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, data).Err()
}

// Dequeue pops the oldest task (RPOP / BRPOP).
func (q *RedisQueue) Dequeue(ctx context.Context) (*Task, error) {
	if q.wait == 0 {
		data, err := q.client.RPop(ctx, q.key).Bytes()
		if err != nil {
			return nil, q.translate(ctx, err)
		}
		return DecodeTask(data)
	}

	// BRPop returns [key, value]
	res, err := q.client.BRPop(ctx, q.wait, q.key).Result()
	if err != nil {
		return nil, q.translate(ctx, err)
	}
	if len(res) != 2 {
		slog.Warn("redis queue: unexpected BRPOP reply", slog.Any("reply", res))
		return nil, ErrEmpty
	}
	return DecodeTask([]byte(res[1]))
}

func (q *RedisQueue) translate(ctx context.Context, err error) error {
	if errors.Is(err, redis.Nil) {
		return ErrEmpty
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// Len returns the approximate number of tasks queued (LLEN).
func (q *RedisQueue) Len() int {
	n, err := q.client.LLen(context.Background(), q.key).Result()
	if err != nil {
		// For a Len() helper, it's better to log and return 0 than panic.
		slog.Warn("redis queue: LLEN failed", slog.Any("error", err))
		return 0
	}
	return int(n)
}

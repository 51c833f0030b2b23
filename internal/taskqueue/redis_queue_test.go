package taskqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/petrijr/workthread/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisQueueTestSuite struct {
	suite.Suite
	client *redis.Client
	queue  *RedisQueue
}

func TestRedisQueueSuite(t *testing.T) {
	addr := testutil.GetRedisAddress(t)

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() {
		_ = client.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("redis ping failed: %v", err)
	}

	suite.Run(t, &RedisQueueTestSuite{client: client})
}

func (r *RedisQueueTestSuite) SetupTest() {
	r.queue = NewRedisQueue(r.client, "workthread:test:", 0)
	err := r.client.Del(context.Background(), r.queue.key).Err()
	r.NoError(err, "redis DEL failed")
}

func (r *RedisQueueTestSuite) TestEnqueueDequeueFIFO() {
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		r.Require().NoError(r.queue.Enqueue(ctx, Task{ID: id, Payload: id}))
	}
	r.Equal(3, r.queue.Len())

	for _, want := range []string{"a", "b", "c"} {
		got, err := r.queue.Dequeue(ctx)
		r.Require().NoError(err)
		r.Equal(want, got.ID)
		r.Equal(want, got.Payload)
	}
	r.Equal(0, r.queue.Len())
}

func (r *RedisQueueTestSuite) TestEmptyNonBlocking() {
	_, err := r.queue.Dequeue(context.Background())
	r.True(errors.Is(err, ErrEmpty), "expected ErrEmpty, got %v", err)
}

func (r *RedisQueueTestSuite) TestBlockingDequeueReceivesLateTask() {
	q := NewRedisQueue(r.client, "workthread:test:", 2*time.Second)

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = q.Enqueue(context.Background(), Task{ID: "late", Kind: "k"})
	}()

	got, err := q.Dequeue(context.Background())
	r.Require().NoError(err)
	r.Equal("late", got.ID)
	r.Equal("k", got.Kind)
}

func (r *RedisQueueTestSuite) TestBlockingDequeueTimesOutAsEmpty() {
	q := NewRedisQueue(r.client, "workthread:test:", 100*time.Millisecond)

	_, err := q.Dequeue(context.Background())
	r.True(errors.Is(err, ErrEmpty), "expected ErrEmpty, got %v", err)
}

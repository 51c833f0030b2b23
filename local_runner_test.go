package workthread

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestLocalRunner_DrainsSubmittedTasks verifies that Drain processes every
// submitted task in order and returns once the queue is empty.
func TestLocalRunner_DrainsSubmittedTasks(t *testing.T) {
	var mu sync.Mutex
	var got []any

	runner := NewLocalRunner(TaskHandlerFunc(func(ctx context.Context, task *Task) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, task.Payload)
		return nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := 0; i < 3; i++ {
		require.NoError(t, runner.Submit(ctx, "count", i))
	}

	require.NoError(t, runner.Drain(ctx))
	require.Equal(t, []any{0, 1, 2}, got)
	require.True(t, runner.Worker().IsStopped())
	require.Equal(t, int64(3), runner.Worker().Processed())

	// A second drain picks up tasks submitted after the first worker stopped.
	require.NoError(t, runner.Submit(ctx, "count", 3))
	require.NoError(t, runner.Drain(ctx))
	require.Equal(t, []any{0, 1, 2, 3}, got)
}

func TestLocalRunner_StartTwiceFails(t *testing.T) {
	release := make(chan struct{})
	runner := NewLocalRunner(TaskHandlerFunc(func(ctx context.Context, task *Task) error {
		<-release
		return nil
	}))
	ctx := context.Background()

	require.NoError(t, runner.Submit(ctx, "block", nil))
	require.NoError(t, runner.Start(ctx))
	require.Error(t, runner.Start(ctx))

	close(release)
	runner.Stop()
	require.True(t, runner.Worker().IsStopped())
}

func TestLocalRunner_PauseResume(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})

	runner := NewLocalRunnerWithConfig(TaskHandlerFunc(func(ctx context.Context, task *Task) error {
		select {
		case started <- struct{}{}:
			<-release
		default:
		}
		return nil
	}), WorkerConfig{Timeout: time.Minute})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, runner.Submit(ctx, "n", i))
	}
	require.NoError(t, runner.Start(ctx))
	<-started

	runner.Pause()
	close(release)
	require.Eventually(t, runner.Worker().IsPaused, 2*time.Second, 5*time.Millisecond)
	require.Equal(t, 4, runner.Queue.Len())

	runner.Resume()
	require.True(t, runner.Worker().Join(2*time.Second))
	require.Equal(t, 0, runner.Queue.Len())
	require.Equal(t, int64(5), runner.Worker().Processed())
}

func TestLocalRunner_DrainReportsHandlerFailure(t *testing.T) {
	boom := errors.New("boom")
	runner := NewLocalRunner(TaskHandlerFunc(func(ctx context.Context, task *Task) error {
		return boom
	}))
	ctx := context.Background()

	require.NoError(t, runner.Submit(ctx, "fail", nil))
	require.ErrorIs(t, runner.Drain(ctx), boom)
}

func TestLocalRunner_InvalidConfig(t *testing.T) {
	runner := NewLocalRunnerWithConfig(TaskHandlerFunc(func(ctx context.Context, task *Task) error {
		return nil
	}), WorkerConfig{Delay: -time.Second})

	require.ErrorIs(t, runner.Start(context.Background()), ErrInvalidArgument)
	runner.Stop()
}

package taskqueue

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestInMemoryQueue_EnqueueDequeueOrder(t *testing.T) {
	q := NewInMemoryQueue(0, 0)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3"} {
		if err := q.Enqueue(ctx, Task{ID: id, Payload: id}); err != nil {
			t.Fatalf("Enqueue %s failed: %v", id, err)
		}
	}

	if q.Len() != 3 {
		t.Fatalf("expected Len 3, got %d", q.Len())
	}

	for _, want := range []string{"1", "2", "3"} {
		got, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatalf("Dequeue %s failed: %v", want, err)
		}
		if got.ID != want {
			t.Fatalf("unexpected dequeue order: got %q want %q", got.ID, want)
		}
	}

	if q.Len() != 0 {
		t.Fatalf("expected Len 0 after dequeues, got %d", q.Len())
	}
}

func TestInMemoryQueue_EnqueueAssignsIDAndTimestamp(t *testing.T) {
	q := NewInMemoryQueue(4, 0)
	ctx := context.Background()

	if err := q.Enqueue(ctx, Task{Payload: 7}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	got, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if got.ID == "" {
		t.Fatalf("expected generated ID")
	}
	if got.EnqueuedAt.IsZero() {
		t.Fatalf("expected EnqueuedAt to be set")
	}
}

func TestInMemoryQueue_EmptyNonBlocking(t *testing.T) {
	q := NewInMemoryQueue(4, 0)

	start := time.Now()
	_, err := q.Dequeue(context.Background())
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Fatalf("non-blocking Dequeue took %v", elapsed)
	}
}

func TestInMemoryQueue_EmptyAfterWait(t *testing.T) {
	wait := 30 * time.Millisecond
	q := NewInMemoryQueue(4, wait)

	start := time.Now()
	_, err := q.Dequeue(context.Background())
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < wait/2 {
		t.Fatalf("expected Dequeue to wait about %v, returned after %v", wait, elapsed)
	}
}

func TestInMemoryQueue_DequeueReceivesTaskDuringWait(t *testing.T) {
	q := NewInMemoryQueue(4, time.Second)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = q.Enqueue(context.Background(), Task{ID: "late"})
	}()

	got, err := q.Dequeue(context.Background())
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if got.ID != "late" {
		t.Fatalf("expected task late, got %q", got.ID)
	}
}

func TestInMemoryQueue_DequeueHonorsContextCancellation(t *testing.T) {
	q := NewInMemoryQueue(4, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline error, got %v", err)
	}
}

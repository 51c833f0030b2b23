package worker_test

import (
	"context"
	"log"
	"time"

	"github.com/petrijr/workthread/internal/taskqueue"
	"github.com/petrijr/workthread/pkg/worker"
)

// ExampleCycleWorker demonstrates pausing and resuming a worker that polls
// something in a loop.
func ExampleCycleWorker() {
	ctx := context.Background()

	w, err := worker.NewCycleWorkerWithConfig(func(ctx context.Context) error {
		log.Printf("[poll] checking for updates")
		return nil
	}, worker.Config{
		Name:    "poller",
		Delay:   50 * time.Millisecond,
		Timeout: time.Minute,
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := w.Start(ctx); err != nil {
		log.Fatal(err)
	}

	// Pause only takes effect between two polls.
	w.Pause()
	for w.IsWorking() {
		time.Sleep(time.Millisecond)
	}
	log.Printf("%s", w)

	w.Resume()
	w.Stop()
	w.Join(time.Second)
}

// ExampleTaskWorker demonstrates draining a queue with a TaskWorker.
func ExampleTaskWorker() {
	ctx := context.Background()

	queue := taskqueue.NewInMemoryQueue(1024, 0)
	for i := 0; i < 3; i++ {
		if err := queue.Enqueue(ctx, taskqueue.Task{Kind: "resize", Payload: i}); err != nil {
			log.Fatal(err)
		}
	}

	w := worker.NewTaskWorker(queue, worker.TaskHandlerFunc(func(ctx context.Context, task *taskqueue.Task) error {
		log.Printf("[%s] image %v", task.Kind, task.Payload)
		return nil
	}))
	if err := w.Start(ctx); err != nil {
		log.Fatal(err)
	}

	// The worker stops by itself once the queue is empty.
	w.Join(-1)
	log.Printf("processed=%d err=%v", w.Processed(), w.Err())
}

package taskqueue

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SQLiteQueue is a task queue implementation backed by SQLite.
// It is safe for concurrent use for our purposes, using simple FIFO semantics
// based on an auto-incrementing id.
type SQLiteQueue struct {
	db           *sql.DB
	pollInterval time.Duration
	wait         time.Duration
}

// NewSQLiteQueue initializes the tasks table in the given DB and returns a new queue.
//
// Dequeue polls the table for up to wait before reporting ErrEmpty; with a
// zero wait it checks exactly once.
func NewSQLiteQueue(db *sql.DB, wait time.Duration) (*SQLiteQueue, error) {
	if wait < 0 {
		wait = 0
	}
	q := &SQLiteQueue{
		db:           db,
		pollInterval: 20 * time.Millisecond,
		wait:         wait,
	}
	if err := q.initSchema(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *SQLiteQueue) initSchema() error {
	_, err := q.db.Exec(`
		CREATE TABLE IF NOT EXISTS worker_tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id TEXT NOT NULL,
			kind TEXT,
			payload BLOB,
			enqueued_at INTEGER NOT NULL,
			not_before INTEGER NOT NULL
		);
	`)
	return err
}

// Ensure SQLiteQueue implements Queue.
var _ Queue = (*SQLiteQueue)(nil)

func (q *SQLiteQueue) Enqueue(ctx context.Context, t Task) error {
	payloadBytes, err := encodePayload(t.Payload)
	if err != nil {
		return err
	}

	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	enqueuedAt := time.Now().UnixNano()
	if !t.EnqueuedAt.IsZero() {
		enqueuedAt = t.EnqueuedAt.UnixNano()
	}

	notBefore := enqueuedAt
	if !t.NotBefore.IsZero() {
		notBefore = t.NotBefore.UnixNano()
	}

	_, err = q.db.ExecContext(ctx, `
		INSERT INTO worker_tasks (task_id, kind, payload, enqueued_at, not_before)
		VALUES (?, ?, ?, ?, ?)`,
		t.ID,
		t.Kind,
		payloadBytes,
		enqueuedAt,
		notBefore,
	)
	return err
}

func (q *SQLiteQueue) Dequeue(ctx context.Context) (*Task, error) {
	deadline := time.Now().Add(q.wait)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		task, err := q.claim(ctx)
		if err == nil {
			return task, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		// Nothing available: sleep a bit and retry until the wait window closes.
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, ErrEmpty
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(min(q.pollInterval, remaining)):
		}
	}
}

// claim removes the oldest eligible row in a single transaction.
// It returns sql.ErrNoRows when nothing is eligible.
func (q *SQLiteQueue) claim(ctx context.Context) (*Task, error) {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var (
		id          int64
		taskID      string
		kind        sql.NullString
		payload     []byte
		enqueuedInt int64
		notBefore   int64
	)

	row := tx.QueryRowContext(ctx, `
		SELECT id, task_id, kind, payload, enqueued_at, not_before
		FROM worker_tasks
		WHERE not_before <= ?
		ORDER BY not_before, id
		LIMIT 1`, time.Now().UnixNano())
	if err := row.Scan(&id, &taskID, &kind, &payload, &enqueuedInt, &notBefore); err != nil {
		return nil, err
	}

	// Delete the row we just claimed.
	if _, err := tx.ExecContext(ctx, `DELETE FROM worker_tasks WHERE id = ?`, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	decoded, err := decodePayload(payload)
	if err != nil {
		return nil, err
	}

	return &Task{
		ID:         taskID,
		Kind:       kind.String,
		Payload:    decoded,
		EnqueuedAt: time.Unix(0, enqueuedInt),
		NotBefore:  time.Unix(0, notBefore),
	}, nil
}

func (q *SQLiteQueue) Len() int {
	var n int
	err := q.db.QueryRow(`SELECT COUNT(*) FROM worker_tasks`).Scan(&n)
	if err != nil {
		return 0
	}
	return n
}

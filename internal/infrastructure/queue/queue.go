package queue

import (
	"context"
	"time"
)

// Task represents one queued background reconciliation.
type Task struct {
	PublicID   string
	Mode       string
	ExcludeIDs []string
	QueuedAt   time.Time
}

// TaskQueue defines the interface for background task queue operations.
type TaskQueue interface {
	// Enqueue adds a task to the queue
	Enqueue(ctx context.Context, task *Task) error

	// Dequeue atomically claims the next available task and marks it
	// in_progress; SELECT FOR UPDATE SKIP LOCKED keeps concurrent
	// workers from claiming the same row
	Dequeue(ctx context.Context) (*Task, error)

	// MarkCompleted updates task status to completed and stores the result
	MarkCompleted(ctx context.Context, taskID string, result any) error

	// MarkFailed updates task status to failed
	MarkFailed(ctx context.Context, taskID string, err error) error

	// GetQueueDepth returns the number of queued tasks
	GetQueueDepth(ctx context.Context) (int64, error)
}

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"assistant-platform/services/function-gateway/internal/infrastructure/database/entities"
)

// PostgresQueue implements TaskQueue using the reconcile_task table.
type PostgresQueue struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewPostgresQueue creates a new PostgreSQL-backed task queue.
func NewPostgresQueue(db *gorm.DB, log zerolog.Logger) *PostgresQueue {
	return &PostgresQueue{
		db:  db,
		log: log.With().Str("component", "postgres-queue").Logger(),
	}
}

// Enqueue inserts a queued reconcile task.
func (q *PostgresQueue) Enqueue(ctx context.Context, task *Task) error {
	var excludeIDs datatypes.JSON
	if task.ExcludeIDs != nil {
		data, err := json.Marshal(task.ExcludeIDs)
		if err != nil {
			return fmt.Errorf("encode exclude ids: %w", err)
		}
		excludeIDs = datatypes.JSON(data)
	}

	entity := &entities.ReconcileTask{
		PublicID:   task.PublicID,
		Mode:       task.Mode,
		ExcludeIDs: excludeIDs,
		Status:     "queued",
		QueuedAt:   time.Now(),
	}
	if entity.PublicID == "" {
		entity.PublicID = uuid.New().String()
	}

	if err := q.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("enqueue task: %w", err)
	}

	task.PublicID = entity.PublicID
	task.QueuedAt = entity.QueuedAt
	return nil
}

// Dequeue claims the next queued task. The SELECT ... FOR UPDATE SKIP
// LOCKED and the status flip to in_progress run in one transaction, so
// the row lock is held until the task is claimed and concurrent workers
// skip to the next row instead of claiming the same one.
func (q *PostgresQueue) Dequeue(ctx context.Context) (*Task, error) {
	var entity entities.ReconcileTask

	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Raw("SELECT * FROM reconcile_task WHERE status = ? ORDER BY queued_at ASC LIMIT 1 FOR UPDATE SKIP LOCKED", "queued").
			Scan(&entity).Error; err != nil {
			return err
		}
		if entity.ID == 0 {
			return nil // No tasks available
		}

		now := time.Now()
		return tx.
			Model(&entities.ReconcileTask{}).
			Where("id = ?", entity.ID).
			Updates(map[string]interface{}{
				"status":     "in_progress",
				"started_at": now,
				"updated_at": now,
			}).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // No tasks available
		}
		return nil, fmt.Errorf("dequeue task: %w", err)
	}

	if entity.ID == 0 {
		return nil, nil // No tasks available
	}

	task := &Task{
		PublicID: entity.PublicID,
		Mode:     entity.Mode,
		QueuedAt: entity.QueuedAt,
	}
	if len(entity.ExcludeIDs) > 0 {
		if err := json.Unmarshal(entity.ExcludeIDs, &task.ExcludeIDs); err != nil {
			return nil, fmt.Errorf("decode exclude ids: %w", err)
		}
	}

	return task, nil
}

// MarkCompleted updates the task status to completed and stores the result.
func (q *PostgresQueue) MarkCompleted(ctx context.Context, taskID string, taskResult any) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":       "completed",
		"completed_at": now,
		"updated_at":   now,
	}
	if taskResult != nil {
		data, err := json.Marshal(taskResult)
		if err != nil {
			return fmt.Errorf("encode task result: %w", err)
		}
		updates["result"] = datatypes.JSON(data)
	}

	result := q.db.WithContext(ctx).
		Model(&entities.ReconcileTask{}).
		Where("public_id = ?", taskID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("mark completed: %w", result.Error)
	}
	return nil
}

// MarkFailed updates the task status to failed.
func (q *PostgresQueue) MarkFailed(ctx context.Context, taskID string, taskErr error) error {
	now := time.Now()
	result := q.db.WithContext(ctx).
		Model(&entities.ReconcileTask{}).
		Where("public_id = ?", taskID).
		Updates(map[string]interface{}{
			"status":       "failed",
			"error":        taskErr.Error(),
			"completed_at": now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return fmt.Errorf("mark failed: %w", result.Error)
	}
	return nil
}

// GetQueueDepth returns the number of queued tasks.
func (q *PostgresQueue) GetQueueDepth(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.WithContext(ctx).
		Model(&entities.ReconcileTask{}).
		Where("status = ?", "queued").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("get queue depth: %w", err)
	}
	return count, nil
}

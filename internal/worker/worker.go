package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	domainsync "assistant-platform/services/function-gateway/internal/domain/sync"
	"assistant-platform/services/function-gateway/internal/infrastructure/queue"
)

// Worker processes background reconcile tasks from the queue.
type Worker struct {
	id          int
	queue       queue.TaskQueue
	syncService domainsync.Service
	taskTimeout time.Duration
	log         zerolog.Logger
	stopChan    chan struct{}
}

// NewWorker creates a new background worker.
func NewWorker(
	id int,
	queue queue.TaskQueue,
	syncService domainsync.Service,
	taskTimeout time.Duration,
	log zerolog.Logger,
) *Worker {
	return &Worker{
		id:          id,
		queue:       queue,
		syncService: syncService,
		taskTimeout: taskTimeout,
		log:         log.With().Int("worker_id", id).Str("component", "worker").Logger(),
		stopChan:    make(chan struct{}),
	}
}

// Start begins processing tasks from the queue.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info().Msg("worker started")

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("worker stopped by context")
			return
		case <-w.stopChan:
			w.log.Info().Msg("worker stopped")
			return
		case <-ticker.C:
			w.processNextTask(ctx)
		}
	}
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() {
	close(w.stopChan)
}

func (w *Worker) processNextTask(ctx context.Context) {
	task, err := w.queue.Dequeue(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("failed to dequeue task")
		return
	}

	if task == nil {
		return
	}

	w.log.Info().
		Str("task_id", task.PublicID).
		Str("mode", task.Mode).
		Msg("processing background reconciliation")

	taskCtx, cancel := context.WithTimeout(ctx, w.taskTimeout)
	defer cancel()

	results, err := w.syncService.ReconcileAll(taskCtx, domainsync.Mode(task.Mode), task.ExcludeIDs)
	if err != nil {
		w.log.Error().Err(err).Str("task_id", task.PublicID).Msg("background reconciliation failed")
		if markErr := w.queue.MarkFailed(ctx, task.PublicID, err); markErr != nil {
			w.log.Error().Err(markErr).Str("task_id", task.PublicID).Msg("failed to mark task as failed")
		}
		return
	}

	if err := w.queue.MarkCompleted(ctx, task.PublicID, results); err != nil {
		w.log.Error().Err(err).Str("task_id", task.PublicID).Msg("failed to mark task as completed")
		return
	}

	w.log.Info().Str("task_id", task.PublicID).Int("assistants", len(results)).Msg("background reconciliation completed")
}

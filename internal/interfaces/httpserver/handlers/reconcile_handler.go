package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domainsync "assistant-platform/services/function-gateway/internal/domain/sync"
	"assistant-platform/services/function-gateway/internal/infrastructure/queue"
	"assistant-platform/services/function-gateway/internal/interfaces/httpserver/requests"
	"assistant-platform/services/function-gateway/internal/interfaces/httpserver/responses"
	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

// ReconcileHandler exposes the registry synchronization entry points.
type ReconcileHandler struct {
	service domainsync.Service
	queue   queue.TaskQueue
	log     zerolog.Logger
}

// NewReconcileHandler constructs the handler.
func NewReconcileHandler(service domainsync.Service, taskQueue queue.TaskQueue, log zerolog.Logger) *ReconcileHandler {
	return &ReconcileHandler{
		service: service,
		queue:   taskQueue,
		log:     log.With().Str("handler", "reconcile").Logger(),
	}
}

// ReconcileOne handles POST /v1/assistants/:assistant_id/reconcile.
func (h *ReconcileHandler) ReconcileOne(c *gin.Context) {
	assistantID := c.Param("assistant_id")

	var req requests.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid reconcile request", "reconcile-bind-001")
		return
	}
	if req.Mode == "" {
		req.Mode = string(domainsync.ModeObserve)
	}

	result, err := h.service.ReconcileOne(c.Request.Context(), assistantID, domainsync.Mode(req.Mode), req.ExcludeFunctionIDs)
	if err != nil {
		responses.HandleError(c, err, "failed to reconcile assistant")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ReconcileAll handles POST /v1/reconcile. With background=true the run is
// queued for the worker pool instead of executing inline.
func (h *ReconcileHandler) ReconcileAll(c *gin.Context) {
	var req requests.BulkReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid reconcile request", "reconcile-bind-002")
		return
	}
	if req.Mode == "" {
		req.Mode = string(domainsync.ModeObserve)
	}
	if !domainsync.Mode(req.Mode).Valid() {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "unknown reconciliation mode", "reconcile-mode-001")
		return
	}

	if req.Background {
		task := &queue.Task{
			Mode:       req.Mode,
			ExcludeIDs: req.ExcludeFunctionIDs,
		}
		if err := h.queue.Enqueue(c.Request.Context(), task); err != nil {
			responses.HandleError(c, err, "failed to queue reconciliation")
			return
		}
		c.JSON(http.StatusAccepted, responses.BackgroundTaskResponse{TaskID: task.PublicID, Status: "queued"})
		return
	}

	results, err := h.service.ReconcileAll(c.Request.Context(), domainsync.Mode(req.Mode), req.ExcludeFunctionIDs)
	if err != nil {
		responses.HandleError(c, err, "failed to reconcile assistants")
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

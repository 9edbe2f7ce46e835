package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"assistant-platform/services/function-gateway/internal/domain/activity"
	"assistant-platform/services/function-gateway/internal/domain/assistant"
	"assistant-platform/services/function-gateway/internal/domain/function"
	"assistant-platform/services/function-gateway/internal/interfaces/httpserver/requests"
	"assistant-platform/services/function-gateway/internal/interfaces/httpserver/responses"
	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

// AssistantHandler exposes HTTP entrypoints for assistant records and their
// activity trail.
type AssistantHandler struct {
	service  assistant.Service
	registry function.Service
	activity activity.Repository
	log      zerolog.Logger
}

// NewAssistantHandler constructs the handler.
func NewAssistantHandler(service assistant.Service, registry function.Service, activityRepo activity.Repository, log zerolog.Logger) *AssistantHandler {
	return &AssistantHandler{
		service:  service,
		registry: registry,
		activity: activityRepo,
		log:      log.With().Str("handler", "assistant").Logger(),
	}
}

// Register handles POST /v1/assistants.
func (h *AssistantHandler) Register(c *gin.Context) {
	var req requests.RegisterAssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid assistant request", "assistant-bind-001")
		return
	}

	a, err := h.service.Register(c.Request.Context(), req.Name, req.RemoteRef)
	if err != nil {
		responses.HandleError(c, err, "failed to register assistant")
		return
	}

	c.JSON(http.StatusCreated, responses.MapAssistantToPayload(a))
}

// Get handles GET /v1/assistants/:assistant_id.
func (h *AssistantHandler) Get(c *gin.Context) {
	a, err := h.service.GetByID(c.Request.Context(), c.Param("assistant_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get assistant")
		return
	}
	c.JSON(http.StatusOK, responses.MapAssistantToPayload(a))
}

// List handles GET /v1/assistants.
func (h *AssistantHandler) List(c *gin.Context) {
	assistants, err := h.service.List(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list assistants")
		return
	}

	payloads := make([]responses.AssistantPayload, 0, len(assistants))
	for _, a := range assistants {
		payloads = append(payloads, responses.MapAssistantToPayload(a))
	}
	c.JSON(http.StatusOK, gin.H{"data": payloads})
}

// ListLinks handles GET /v1/assistants/:assistant_id/links.
func (h *AssistantHandler) ListLinks(c *gin.Context) {
	links, err := h.registry.ListLinks(c.Request.Context(), c.Param("assistant_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to list links")
		return
	}

	payloads := make([]responses.LinkPayload, 0, len(links))
	for _, link := range links {
		payloads = append(payloads, responses.MapLinkToPayload(link))
	}
	c.JSON(http.StatusOK, gin.H{"data": payloads})
}

// ListActivity handles GET /v1/assistants/:assistant_id/activity.
func (h *AssistantHandler) ListActivity(c *gin.Context) {
	assistantID := c.Param("assistant_id")
	if _, err := h.service.GetByID(c.Request.Context(), assistantID); err != nil {
		responses.HandleError(c, err, "failed to get assistant")
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "limit must be a positive integer", "activity-limit-001")
			return
		}
		limit = parsed
	}

	entries, err := h.activity.ListByAssistant(c.Request.Context(), assistantID, limit)
	if err != nil {
		responses.HandleError(c, err, "failed to list activity")
		return
	}

	payloads := make([]responses.ActivityEntryPayload, 0, len(entries))
	for _, entry := range entries {
		payloads = append(payloads, responses.MapActivityToPayload(entry))
	}
	c.JSON(http.StatusOK, gin.H{"data": payloads})
}

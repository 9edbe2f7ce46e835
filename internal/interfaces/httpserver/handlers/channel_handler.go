package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"assistant-platform/services/function-gateway/internal/domain/channel"
	"assistant-platform/services/function-gateway/internal/interfaces/httpserver/requests"
	"assistant-platform/services/function-gateway/internal/interfaces/httpserver/responses"
	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

// ChannelHandler exposes HTTP entrypoints for notification channels.
type ChannelHandler struct {
	service channel.Service
	log     zerolog.Logger
}

// NewChannelHandler constructs the handler.
func NewChannelHandler(service channel.Service, log zerolog.Logger) *ChannelHandler {
	return &ChannelHandler{
		service: service,
		log:     log.With().Str("handler", "channel").Logger(),
	}
}

// Create handles POST /v1/channels.
func (h *ChannelHandler) Create(c *gin.Context) {
	var req requests.CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid channel request", "channel-bind-001")
		return
	}

	ch, err := h.service.Create(c.Request.Context(), channel.CreateParams{
		Name:     req.Name,
		Type:     channel.Type(req.Type),
		Settings: req.Settings,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to create channel")
		return
	}

	c.JSON(http.StatusCreated, responses.MapChannelToPayload(ch))
}

// Get handles GET /v1/channels/:id.
func (h *ChannelHandler) Get(c *gin.Context) {
	ch, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get channel")
		return
	}
	c.JSON(http.StatusOK, responses.MapChannelToPayload(ch))
}

// List handles GET /v1/channels.
func (h *ChannelHandler) List(c *gin.Context) {
	channels, err := h.service.List(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list channels")
		return
	}

	payloads := make([]responses.ChannelPayload, 0, len(channels))
	for _, ch := range channels {
		payloads = append(payloads, responses.MapChannelToPayload(ch))
	}
	c.JSON(http.StatusOK, gin.H{"data": payloads})
}

// Update handles PATCH /v1/channels/:id.
func (h *ChannelHandler) Update(c *gin.Context) {
	var req requests.UpdateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid channel request", "channel-bind-002")
		return
	}

	params := channel.UpdateParams{
		Name:     req.Name,
		Settings: req.Settings,
	}
	if req.Status != nil {
		status := channel.Status(*req.Status)
		params.Status = &status
	}

	ch, err := h.service.Update(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		responses.HandleError(c, err, "failed to update channel")
		return
	}

	c.JSON(http.StatusOK, responses.MapChannelToPayload(ch))
}

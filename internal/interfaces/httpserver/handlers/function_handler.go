package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"assistant-platform/services/function-gateway/internal/domain/function"
	domainsync "assistant-platform/services/function-gateway/internal/domain/sync"
	"assistant-platform/services/function-gateway/internal/interfaces/httpserver/requests"
	"assistant-platform/services/function-gateway/internal/interfaces/httpserver/responses"
	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

// FunctionHandler exposes HTTP entrypoints for the function registry.
type FunctionHandler struct {
	service     function.Service
	syncService domainsync.Service
	log         zerolog.Logger
}

// NewFunctionHandler constructs the handler.
func NewFunctionHandler(service function.Service, syncService domainsync.Service, log zerolog.Logger) *FunctionHandler {
	return &FunctionHandler{
		service:     service,
		syncService: syncService,
		log:         log.With().Str("handler", "function").Logger(),
	}
}

// Create handles POST /v1/functions.
func (h *FunctionHandler) Create(c *gin.Context) {
	var req requests.CreateFunctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid function request", "function-bind-001")
		return
	}

	def, err := h.service.Create(c.Request.Context(), function.CreateParams{
		Name:             req.Name,
		Description:      req.Description,
		Parameters:       req.Parameters,
		DefaultChannelID: req.DefaultChannelID,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to create function")
		return
	}

	c.JSON(http.StatusCreated, responses.MapFunctionToPayload(def))
}

// Get handles GET /v1/functions/:id.
func (h *FunctionHandler) Get(c *gin.Context) {
	def, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get function")
		return
	}
	c.JSON(http.StatusOK, responses.MapFunctionToPayload(def))
}

// List handles GET /v1/functions.
func (h *FunctionHandler) List(c *gin.Context) {
	defs, err := h.service.List(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list functions")
		return
	}

	payloads := make([]responses.FunctionPayload, 0, len(defs))
	for _, def := range defs {
		payloads = append(payloads, responses.MapFunctionToPayload(def))
	}
	c.JSON(http.StatusOK, gin.H{"data": payloads})
}

// Update handles PATCH /v1/functions/:id.
func (h *FunctionHandler) Update(c *gin.Context) {
	var req requests.UpdateFunctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid function request", "function-bind-002")
		return
	}

	def, err := h.service.Update(c.Request.Context(), c.Param("id"), function.UpdateParams{
		Name:             req.Name,
		Description:      req.Description,
		Parameters:       req.Parameters,
		DefaultChannelID: req.DefaultChannelID,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to update function")
		return
	}

	c.JSON(http.StatusOK, responses.MapFunctionToPayload(def))
}

// Delete handles DELETE /v1/functions/:id.
func (h *FunctionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		responses.HandleError(c, err, "failed to delete function")
		return
	}
	c.Status(http.StatusNoContent)
}

// Attach handles POST /v1/functions/:id/links.
func (h *FunctionHandler) Attach(c *gin.Context) {
	var req requests.AttachLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid link request", "link-bind-001")
		return
	}

	params := function.AttachParams{
		Enabled:               true,
		ChannelEnabled:        true,
		NotificationChannelID: req.NotificationChannelID,
		Settings:              req.Settings,
	}
	if req.Enabled != nil {
		params.Enabled = *req.Enabled
	}
	if req.ChannelEnabled != nil {
		params.ChannelEnabled = *req.ChannelEnabled
	}

	link, err := h.service.Attach(c.Request.Context(), c.Param("id"), req.AssistantID, params)
	if err != nil {
		responses.HandleError(c, err, "failed to attach function")
		return
	}

	c.JSON(http.StatusCreated, responses.MapLinkToPayload(link))
}

// UpdateLink handles PATCH /v1/links/:id.
func (h *FunctionHandler) UpdateLink(c *gin.Context) {
	var req requests.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid link request", "link-bind-002")
		return
	}

	link, err := h.service.UpdateLink(c.Request.Context(), c.Param("id"), function.UpdateLinkParams{
		Enabled:               req.Enabled,
		ChannelEnabled:        req.ChannelEnabled,
		NotificationChannelID: req.NotificationChannelID,
		Settings:              req.Settings,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to update link")
		return
	}

	c.JSON(http.StatusOK, responses.MapLinkToPayload(link))
}

// Detach handles DELETE /v1/links/:id. After the link is gone a pull
// reconcile runs with the detached function excluded, so the remote tool
// entry is removed even if a stale read still sees the link.
func (h *FunctionHandler) Detach(c *gin.Context) {
	link, err := h.service.Detach(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to detach function")
		return
	}

	if _, err := h.syncService.ReconcileOne(c.Request.Context(), link.AssistantID, domainsync.ModePull, []string{link.FunctionID}); err != nil {
		h.log.Warn().Err(err).Str("link_id", link.ID).Msg("post-detach reconcile failed")
	}

	c.Status(http.StatusNoContent)
}

// GetLink handles GET /v1/links/:id.
func (h *FunctionHandler) GetLink(c *gin.Context) {
	link, err := h.service.GetLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get link")
		return
	}
	c.JSON(http.StatusOK, responses.MapLinkToPayload(link))
}

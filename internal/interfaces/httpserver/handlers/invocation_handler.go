package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"assistant-platform/services/function-gateway/internal/domain/invocation"
	"assistant-platform/services/function-gateway/internal/interfaces/httpserver/requests"
	"assistant-platform/services/function-gateway/internal/interfaces/httpserver/responses"
	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

// InvocationHandler exposes the tool-call invocation entry point.
type InvocationHandler struct {
	service invocation.Service
	log     zerolog.Logger
}

// NewInvocationHandler constructs the handler.
func NewInvocationHandler(service invocation.Service, log zerolog.Logger) *InvocationHandler {
	return &InvocationHandler{
		service: service,
		log:     log.With().Str("handler", "invocation").Logger(),
	}
}

// Handle handles POST /v1/invocations.
func (h *InvocationHandler) Handle(c *gin.Context) {
	var req requests.InvocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid invocation request", "invocation-bind-001")
		return
	}

	calls := make([]invocation.ToolCall, 0, len(req.ToolCalls))
	for _, tc := range req.ToolCalls {
		calls = append(calls, invocation.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	outputs, err := h.service.Handle(c.Request.Context(), req.AssistantRef, calls)
	if err != nil {
		responses.HandleError(c, err, "failed to process invocation")
		return
	}

	c.JSON(http.StatusOK, responses.InvocationResponse{Outputs: outputs})
}

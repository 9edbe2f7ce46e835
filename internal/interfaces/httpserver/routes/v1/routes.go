package v1

import (
	"github.com/gin-gonic/gin"

	"assistant-platform/services/function-gateway/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes builds the v1 route registrar.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{
		handlers: handlerProvider,
	}
}

// Register attaches all v1 routes under the /v1 prefix.
func (r *Routes) Register(engine *gin.Engine) {
	group := engine.Group("/v1")
	registerInvocationRoutes(group, r.handlers.Invocation)
	registerReconcileRoutes(group, r.handlers.Reconcile)
	registerFunctionRoutes(group, r.handlers.Function)
	registerChannelRoutes(group, r.handlers.Channel)
	registerAssistantRoutes(group, r.handlers.Assistant)
}

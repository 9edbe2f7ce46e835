package v1

import (
	"github.com/gin-gonic/gin"

	"assistant-platform/services/function-gateway/internal/interfaces/httpserver/handlers"
)

func registerInvocationRoutes(router gin.IRoutes, handler *handlers.InvocationHandler) {
	router.POST("/invocations", handler.Handle)
}

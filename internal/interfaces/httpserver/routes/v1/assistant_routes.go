package v1

import (
	"github.com/gin-gonic/gin"

	"assistant-platform/services/function-gateway/internal/interfaces/httpserver/handlers"
)

func registerAssistantRoutes(router gin.IRoutes, handler *handlers.AssistantHandler) {
	router.POST("/assistants", handler.Register)
	router.GET("/assistants", handler.List)
	router.GET("/assistants/:assistant_id", handler.Get)
	router.GET("/assistants/:assistant_id/links", handler.ListLinks)
	router.GET("/assistants/:assistant_id/activity", handler.ListActivity)
}

package v1

import (
	"github.com/gin-gonic/gin"

	"assistant-platform/services/function-gateway/internal/interfaces/httpserver/handlers"
)

func registerChannelRoutes(router gin.IRoutes, handler *handlers.ChannelHandler) {
	router.POST("/channels", handler.Create)
	router.GET("/channels", handler.List)
	router.GET("/channels/:id", handler.Get)
	router.PATCH("/channels/:id", handler.Update)
}

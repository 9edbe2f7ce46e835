package v1

import (
	"github.com/gin-gonic/gin"

	"assistant-platform/services/function-gateway/internal/interfaces/httpserver/handlers"
)

func registerFunctionRoutes(router gin.IRoutes, handler *handlers.FunctionHandler) {
	router.POST("/functions", handler.Create)
	router.GET("/functions", handler.List)
	router.GET("/functions/:id", handler.Get)
	router.PATCH("/functions/:id", handler.Update)
	router.DELETE("/functions/:id", handler.Delete)

	router.POST("/functions/:id/links", handler.Attach)
	router.GET("/links/:id", handler.GetLink)
	router.PATCH("/links/:id", handler.UpdateLink)
	router.DELETE("/links/:id", handler.Detach)
}

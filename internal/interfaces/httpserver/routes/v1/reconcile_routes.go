package v1

import (
	"github.com/gin-gonic/gin"

	"assistant-platform/services/function-gateway/internal/interfaces/httpserver/handlers"
)

func registerReconcileRoutes(router gin.IRoutes, handler *handlers.ReconcileHandler) {
	router.POST("/reconcile", handler.ReconcileAll)
	router.POST("/assistants/:assistant_id/reconcile", handler.ReconcileOne)
}

package routes

import (
	"github.com/Kariqs/agronexus-api/controllers"
	"github.com/gin-gonic/gin"
)

func DefaultRoutes(server *gin.Engine, h *controllers.Handler) {
	server.GET("/", controllers.GetHome)
	server.GET("/api/health", h.Health)
}

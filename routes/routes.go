package routes

import (
	"github.com/Kariqs/agronexus-api/controllers"
	"github.com/Kariqs/agronexus-api/middlewares"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(server *gin.Engine, h *controllers.Handler) {
	requireAuth := middlewares.RequireAuth(h.Creds, h.Revoker, h.Users)

	DefaultRoutes(server, h)

	api := server.Group("/api")
	AuthRoutes(api, h, requireAuth)
	UserRoutes(api, h, requireAuth)
	ProductRoutes(api, h, requireAuth)
	CartRoutes(api, h, requireAuth)
	OrderRoutes(api, h, requireAuth)
	DashboardRoutes(api, h, requireAuth)
}

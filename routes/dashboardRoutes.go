package routes

import (
	"github.com/Kariqs/agronexus-api/controllers"
	"github.com/Kariqs/agronexus-api/middlewares"
	"github.com/gin-gonic/gin"
)

func DashboardRoutes(api *gin.RouterGroup, h *controllers.Handler, requireAuth gin.HandlerFunc) {
	api.GET("/dashboard/stats", requireAuth, h.GetDashboardStats)

	admin := api.Group("/admin", requireAuth, middlewares.RequireAdmin())
	{
		admin.GET("/users", h.ListUsers)
		admin.GET("/stats", h.GetAdminStats)
	}
}

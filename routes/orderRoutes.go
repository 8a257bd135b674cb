package routes

import (
	"github.com/Kariqs/agronexus-api/controllers"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(api *gin.RouterGroup, h *controllers.Handler, requireAuth gin.HandlerFunc) {
	orders := api.Group("/orders", requireAuth)
	{
		orders.GET("", h.GetOrders)
		orders.POST("", h.CreateOrder)
		orders.POST("/checkout", h.Checkout)
		orders.GET("/:id", h.GetOrder)
		orders.PUT("/:id", h.UpdateOrder)
	}
}

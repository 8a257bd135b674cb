package routes

import (
	"github.com/Kariqs/agronexus-api/controllers"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(api *gin.RouterGroup, h *controllers.Handler, requireAuth gin.HandlerFunc) {
	products := api.Group("/products")
	{
		products.GET("", h.GetProducts)
		products.GET("/categories", h.GetCategories)
		products.GET("/:id", h.GetProduct)
		products.POST("", requireAuth, h.CreateProduct)
		products.PUT("/:id", requireAuth, h.UpdateProduct)
		products.DELETE("/:id", requireAuth, h.DeleteProduct)
		products.POST("/:id/images", requireAuth, h.UploadProductImages)
	}
}

package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to AgroNexus API. Connecting farmers and buyers.

AUTH
- POST "/api/auth/register" - Create user account
- POST "/api/auth/login" - Access user account
- GET "/api/auth/me" - Current user
- POST "/api/auth/logout" - Revoke current token

PRODUCTS
- GET "/api/products" - Browse products (category, farmer_id, search, page, limit)
- GET "/api/products/categories" - List categories
- GET "/api/products/:id" - Get product by ID
- POST "/api/products" - Create product (farmers)
- PUT/DELETE "/api/products/:id" - Update or delete own product
- POST "/api/products/:id/images" - Upload product images

CART
- GET "/api/cart" - Current cart
- POST "/api/cart/items" - Add or update an item
- DELETE "/api/cart/items/:product_id" - Remove an item
- DELETE "/api/cart" - Clear cart

ORDERS
- GET "/api/orders" - List orders
- POST "/api/orders" - Place a direct order
- POST "/api/orders/checkout?cart_id=" - Check out a cart
- GET/PUT "/api/orders/:id" - Get or update an order

DASHBOARD
- GET "/api/dashboard/stats" - Role specific stats
- GET "/api/admin/users" - List users (admins)
- GET "/api/admin/stats" - Platform stats (admins)`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
		"version": "1.0.0",
	})
}

func (h *Handler) Health(ctx *gin.Context) {
	status, health, database := http.StatusOK, "healthy", "connected"

	sqlDB, err := h.DB.DB()
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(pingCtx)
	}
	if err != nil {
		log.Println("Health check failed:", err)
		status, health, database = http.StatusServiceUnavailable, "unhealthy", "disconnected"
	}

	ctx.JSON(status, gin.H{
		"status":    health,
		"database":  database,
		"timestamp": time.Now().UTC(),
	})
}

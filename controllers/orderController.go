package controllers

import (
	"net/http"

	"github.com/Kariqs/agronexus-api/models"
	"github.com/gin-gonic/gin"
)

type orderQuery struct {
	pageQuery
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed processing shipped delivered completed cancelled"`
}

type checkoutQuery struct {
	CartID string `form:"cart_id" binding:"required"`
}

func (h *Handler) CreateOrder(ctx *gin.Context) {
	buyer, ok := currentUser(ctx)
	if !ok {
		return
	}

	var data models.OrderData
	if !bindJSON(ctx, &data) {
		return
	}

	order, err := h.Orders.CreateDirectOrder(ctx.Request.Context(), buyer, data)
	if err != nil {
		handleServiceError(ctx, "Order creation failed", err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   order,
	})
}

// Checkout splits the caller's cart into one order per farmer.
func (h *Handler) Checkout(ctx *gin.Context) {
	buyer, ok := currentUser(ctx)
	if !ok {
		return
	}

	var query checkoutQuery
	if !bindQuery(ctx, &query) {
		return
	}
	var data models.CheckoutData
	if !bindJSON(ctx, &data) {
		return
	}

	orders, err := h.Orders.Checkout(ctx.Request.Context(), buyer, query.CartID, data)
	if err != nil {
		handleServiceError(ctx, "Checkout failed", err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": "Checkout successful",
		"orders":  orders,
	})
}

func (h *Handler) GetOrders(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var query orderQuery
	if !bindQuery(ctx, &query) {
		return
	}

	orders, pagination, err := h.Orders.List(ctx.Request.Context(), user, query.Status, query.page())
	if err != nil {
		handleServiceError(ctx, "Unable to fetch orders", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"orders":     orders,
		"pagination": pagination,
	})
}

func (h *Handler) GetOrder(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	order, err := h.Orders.Get(ctx.Request.Context(), ctx.Param("id"), user)
	if err != nil {
		handleServiceError(ctx, "Unable to retrieve order", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

func (h *Handler) UpdateOrder(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var patch models.OrderPatch
	if !bindJSON(ctx, &patch) {
		return
	}

	order, err := h.Orders.UpdateStatus(ctx.Request.Context(), ctx.Param("id"), user, patch)
	if err != nil {
		handleServiceError(ctx, "Failed to update order", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Order updated successfully",
		"order":   order,
	})
}

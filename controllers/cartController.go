package controllers

import (
	"net/http"

	"github.com/Kariqs/agronexus-api/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) GetCart(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	cart, err := h.Carts.GetOrCreate(ctx.Request.Context(), user.ID)
	if err != nil {
		handleServiceError(ctx, "Unable to retrieve cart", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"cart": cart})
}

func (h *Handler) AddCartItem(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var data models.CartItemData
	if !bindJSON(ctx, &data) {
		return
	}

	cart, err := h.Carts.AddItem(ctx.Request.Context(), user.ID, data.ProductID, data.Quantity)
	if err != nil {
		handleServiceError(ctx, "Failed to add item to cart", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Item added to cart",
		"cart":    cart,
	})
}

func (h *Handler) RemoveCartItem(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	cart, err := h.Carts.RemoveItem(ctx.Request.Context(), user.ID, ctx.Param("product_id"))
	if err != nil {
		handleServiceError(ctx, "Failed to remove item from cart", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Item removed from cart",
		"cart":    cart,
	})
}

func (h *Handler) ClearCart(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	cart, err := h.Carts.Clear(ctx.Request.Context(), user.ID)
	if err != nil {
		handleServiceError(ctx, "Failed to clear cart", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Cart cleared",
		"cart":    cart,
	})
}

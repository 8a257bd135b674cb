package controllers

import (
	"net/http"

	"github.com/Kariqs/agronexus-api/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) GetUser(ctx *gin.Context) {
	user, err := h.Users.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, "Unable to retrieve user", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) UpdateUser(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}

	var patch models.UserPatch
	if !bindJSON(ctx, &patch) {
		return
	}

	user, err := h.Users.Update(ctx.Request.Context(), actor, ctx.Param("id"), patch)
	if err != nil {
		handleServiceError(ctx, "Unable to update user", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func (h *Handler) ListUsers(ctx *gin.Context) {
	var query pageQuery
	if !bindQuery(ctx, &query) {
		return
	}

	users, pagination, err := h.Users.List(ctx.Request.Context(), query.page())
	if err != nil {
		handleServiceError(ctx, "Unable to fetch users", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"users":      users,
		"pagination": pagination,
	})
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetDashboardStats(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	stats, err := h.Dashboard.Stats(ctx.Request.Context(), user)
	if err != nil {
		handleServiceError(ctx, "Unable to compute dashboard stats", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"stats": stats})
}

func (h *Handler) GetAdminStats(ctx *gin.Context) {
	stats, err := h.Dashboard.AdminStats(ctx.Request.Context())
	if err != nil {
		handleServiceError(ctx, "Unable to compute admin stats", err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

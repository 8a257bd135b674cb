package controllers

import (
	"net/http"

	"github.com/Kariqs/agronexus-api/middlewares"
	"github.com/Kariqs/agronexus-api/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	msgUserCreated           = "User registered successfully"
	msgLoginSuccess          = "Login successful"
	msgLogoutSuccess         = "Successfully logged out"
	msgFailedToGenerateToken = "failed to generate token"
)

func (h *Handler) issueToken(ctx *gin.Context, user models.User) (string, bool) {
	token, err := h.Creds.IssueToken(user.ID, user.Email, user.UserType)
	if err != nil {
		log.Println("Token generation failed:", err)
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToGenerateToken, err)
		return "", false
	}
	return token, true
}

func (h *Handler) Register(ctx *gin.Context) {
	var data models.RegisterData
	if !bindJSON(ctx, &data) {
		return
	}

	user, err := h.Users.Register(ctx.Request.Context(), data)
	if err != nil {
		handleServiceError(ctx, "Registration failed", err)
		return
	}

	token, ok := h.issueToken(ctx, user)
	if !ok {
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": msgUserCreated,
		"user":    user,
		"token":   token,
	})
}

func (h *Handler) Login(ctx *gin.Context) {
	var data models.LoginData
	if !bindJSON(ctx, &data) {
		return
	}

	user, err := h.Users.Authenticate(ctx.Request.Context(), data.Email, data.Password)
	if err != nil {
		handleServiceError(ctx, "Login failed", err)
		return
	}

	token, ok := h.issueToken(ctx, user)
	if !ok {
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": msgLoginSuccess,
		"user":    user,
		"token":   token,
	})
}

func (h *Handler) Me(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"user": user})
}

// Logout revokes the presented token until it would have expired.
func (h *Handler) Logout(ctx *gin.Context) {
	claims, ok := middlewares.CurrentClaims(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := h.Revoker.Revoke(ctx.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		log.Println("Token revocation failed:", err)
		respondWithError(ctx, http.StatusInternalServerError, "Logout failed", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgLogoutSuccess})
}

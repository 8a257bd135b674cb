package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Kariqs/agronexus-api/models"
	"github.com/Kariqs/agronexus-api/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	UserKey   = "user"
	ClaimsKey = "claims"
)

func unauthorized(ctx *gin.Context, message string) {
	ctx.Header("WWW-Authenticate", "Bearer")
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": message})
}

// RequireAuth resolves the bearer token, rejects revoked tokens and stores the
// caller and the token claims in the context.
func RequireAuth(creds *services.Credentials, revoker services.Revoker, users *services.Users) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			unauthorized(ctx, "Authorization header missing or invalid")
			return
		}

		claims, err := creds.ResolveToken(strings.TrimSpace(token))
		if err != nil {
			unauthorized(ctx, err.Error())
			return
		}

		revoked, err := revoker.IsRevoked(ctx.Request.Context(), claims.ID)
		if err != nil {
			log.Println("Token revocation lookup failed:", err)
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}
		if revoked {
			unauthorized(ctx, services.ErrTokenRevoked.Message)
			return
		}

		user, err := users.Get(ctx.Request.Context(), claims.Subject)
		if errors.Is(err, services.ErrNotFound) {
			unauthorized(ctx, "User not found")
			return
		}
		if err != nil {
			log.WithField("user_id", claims.Subject).Println("User lookup failed:", err)
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}

		ctx.Set(UserKey, user)
		ctx.Set(ClaimsKey, claims)
		ctx.Next()
	}
}

// CurrentUser returns the caller stored by RequireAuth.
func CurrentUser(ctx *gin.Context) (models.User, bool) {
	value, exists := ctx.Get(UserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

func CurrentClaims(ctx *gin.Context) (*services.Claims, bool) {
	value, exists := ctx.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*services.Claims)
	return claims, ok
}

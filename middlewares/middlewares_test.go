package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Kariqs/agronexus-api/initializers"
	"github.com/Kariqs/agronexus-api/models"
	"github.com/Kariqs/agronexus-api/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestRequireAuthRejectsBadHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	creds, err := services.NewCredentials("secret", "salt", "HS256")
	require.NoError(t, err)

	router := gin.New()
	router.GET("/private", RequireAuth(creds, services.NewMemoryRevoker(), nil), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	for _, header := range []string{"", "Bearer", "Bearer ", "Token abc", "Basic dXNlcjpwYXNz", "Bearer not.a.jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	}
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	serve := func(user *models.User) int {
		router := gin.New()
		router.GET("/admin", func(ctx *gin.Context) {
			if user != nil {
				ctx.Set(UserKey, *user)
			}
		}, RequireAdmin(), func(ctx *gin.Context) {
			ctx.Status(http.StatusOK)
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(nil))
	assert.Equal(t, http.StatusForbidden, serve(&models.User{ID: "u1", UserType: models.RoleFarmer}))
	assert.Equal(t, http.StatusOK, serve(&models.User{ID: "u2", UserType: models.RoleAdmin}))
}

func TestRequireAuthUserLookup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, initializers.SyncDatabase(db))

	creds, err := services.NewCredentials("secret", "salt", "HS256")
	require.NoError(t, err)
	users := services.NewUsers(db, creds, false)
	user, err := users.Register(context.Background(), models.RegisterData{
		Username: "grace",
		Email:    "grace@example.com",
		Password: "password123",
		UserType: models.RoleBuyer,
	})
	require.NoError(t, err)

	router := gin.New()
	router.GET("/private", RequireAuth(creds, services.NewMemoryRevoker(), users), func(ctx *gin.Context) {
		caller, ok := CurrentUser(ctx)
		require.True(t, ok)
		ctx.String(http.StatusOK, caller.ID)
	})
	serve := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	token, err := creds.IssueToken(user.ID, user.Email, user.UserType)
	require.NoError(t, err)
	w := serve(token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.ID, w.Body.String())

	ghost, err := creds.IssueToken("deleted-user", "ghost@example.com", models.RoleBuyer)
	require.NoError(t, err)
	w = serve(ghost)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"User not found"}`, w.Body.String())

	// A broken store is a server fault, not a bad credential.
	require.NoError(t, sqlDB.Close())
	w = serve(token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"message":"Internal server error"}`, w.Body.String())
}

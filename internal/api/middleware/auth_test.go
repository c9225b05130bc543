package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosgl93/gumucio-propiedades/internal/api/middleware"
	"github.com/carlosgl93/gumucio-propiedades/internal/auth"
	"github.com/carlosgl93/gumucio-propiedades/internal/config"
)

func authTestRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/ping", middleware.AuthMiddleware(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	cfg := &config.Config{JwtSecret: "test-secret", JwtTTL: time.Hour}
	r := authTestRouter(cfg)

	token, err := auth.GenerateJWT("admin@gumuciopropiedades.cl", true, cfg.JwtSecret, cfg.JwtTTL)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	cfg := &config.Config{JwtSecret: "test-secret"}
	r := authTestRouter(cfg)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin/ping", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	cfg := &config.Config{JwtSecret: "test-secret"}
	r := authTestRouter(cfg)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin/ping", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	cfg := &config.Config{JwtSecret: "test-secret", JwtTTL: time.Hour}
	r := authTestRouter(cfg)

	token, err := auth.GenerateJWT("admin@gumuciopropiedades.cl", true, "other-secret", time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_NonAdminForbidden(t *testing.T) {
	cfg := &config.Config{JwtSecret: "test-secret", JwtTTL: time.Hour}
	r := authTestRouter(cfg)

	token, err := auth.GenerateJWT("visitor@example.com", false, cfg.JwtSecret, cfg.JwtTTL)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/carlosgl93/gumucio-propiedades/internal/auth"
	"github.com/carlosgl93/gumucio-propiedades/internal/config"
)

// RestAuthHandler handles the admin login endpoint. The site has a single
// back-office account configured through the environment; there is no user
// registration.
type RestAuthHandler struct {
	cfg *config.Config
}

// NewRestAuthHandler creates a new RestAuthHandler.
func NewRestAuthHandler(cfg *config.Config) *RestAuthHandler {
	return &RestAuthHandler{cfg: cfg}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /v1/auth/login
func (h *RestAuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	if !strings.EqualFold(req.Email, h.cfg.AdminEmail) ||
		!auth.CheckPasswordHash(req.Password, h.cfg.AdminPasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateJWT(h.cfg.AdminEmail, true, h.cfg.JwtSecret, h.cfg.JwtTTL)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

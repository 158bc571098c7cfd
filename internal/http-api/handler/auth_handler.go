package handler

import (
	"errors"
	"net/http"

	"mangapress/internal/http-api/dto"
	"mangapress/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes wires the credential endpoints. The rate limiter only
// guards the two password-bearing routes.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, authMW, limiterMW gin.HandlerFunc) {
	rg.POST("/register", limiterMW, h.Register)
	rg.POST("/login", limiterMW, h.Login)
	rg.POST("/logout", authMW, h.Logout)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrNameInUse) || errors.Is(err, service.ErrEmailInUse) {
			c.JSON(http.StatusConflict, gin.H{"error": "account creation failed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
}

// Logout acknowledges the request. Tokens are stateless with no
// revocation list, so discarding the token client-side is the logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

package handler

import (
	"errors"
	"net/http"

	"mangapress/internal/http-api/dto"
	"mangapress/internal/http-api/middleware"
	"mangapress/internal/http-api/models"
	"mangapress/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	users service.UserService
	coins service.CoinService
}

func NewAdminHandler(users service.UserService, coins service.CoinService) *AdminHandler {
	return &AdminHandler{users: users, coins: coins}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.Use(authMW, middleware.RequireRole(models.RoleAdmin))

	rg.GET("/users", h.ListUsers)
	rg.PUT("/users/:user_id/role", h.SetRole)
	rg.PUT("/users/:user_id/verify", h.SetVerified)
	rg.POST("/users/:user_id/coins", h.AdjustCoins)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	offset, limit := parsePagination(c)

	users, total, err := h.users.ListUsers(c.Request.Context(), offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	profiles := make([]dto.ProfileResponse, 0, len(users))
	for i := range users {
		profiles = append(profiles, dto.FromUserToProfile(&users[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"data": profiles,
		"pagination": gin.H{
			"offset": offset,
			"limit":  limit,
			"total":  total,
		},
	})
}

func (h *AdminHandler) SetRole(c *gin.Context) {
	var req dto.RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.users.SetRole(c.Request.Context(), c.Param("user_id"), models.Role(req.Role))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}

func (h *AdminHandler) SetVerified(c *gin.Context) {
	var req dto.VerifyUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.users.SetVerified(c.Request.Context(), c.Param("user_id"), *req.Verified)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "verification updated"})
}

func (h *AdminHandler) AdjustCoins(c *gin.Context) {
	var req dto.AdjustCoinsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.coins.Adjust(c.Request.Context(), c.GetString("user_id"), c.Param("user_id"), req.Delta)
	switch {
	case errors.Is(err, service.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"error": "adjustment would make balance negative"})
	case errors.Is(err, service.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "balance adjusted"})
	}
}

package handler

import (
	"context"
	"errors"
	"net/http"

	"mangapress/internal/http-api/dto"
	"mangapress/internal/http-api/models"
	"mangapress/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/me", authMW, h.Me)
	rg.PUT("/me", authMW, h.UpdateProfile)
	rg.GET("/:user_id", h.GetProfile)
	rg.GET("/:user_id/followers", h.Followers)
	rg.GET("/:user_id/following", h.Following)
	rg.POST("/:user_id/follow", authMW, h.Follow)
	rg.DELETE("/:user_id/follow", authMW, h.Unfollow)
}

func (h *UserHandler) Me(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.svc.GetProfile(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromUserToProfile(user))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("user_id")
	if err := h.svc.UpdateNickname(c.Request.Context(), userID, req.Nickname); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

func (h *UserHandler) Follow(c *gin.Context) {
	followerID := c.GetString("user_id")
	targetID := c.Param("user_id")

	err := h.svc.Follow(c.Request.Context(), followerID, targetID)
	switch {
	case errors.Is(err, service.ErrSelfFollow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "followed"})
	}
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	followerID := c.GetString("user_id")
	targetID := c.Param("user_id")

	err := h.svc.Unfollow(c.Request.Context(), followerID, targetID)
	switch {
	case errors.Is(err, service.ErrSelfFollow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "unfollowed"})
	}
}

func (h *UserHandler) Followers(c *gin.Context) {
	h.listRelated(c, h.svc.Followers)
}

func (h *UserHandler) Following(c *gin.Context) {
	h.listRelated(c, h.svc.Following)
}

func (h *UserHandler) listRelated(c *gin.Context, fetch func(ctx context.Context, userID string) ([]models.User, error)) {
	users, err := fetch(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	profiles := make([]dto.ProfileResponse, 0, len(users))
	for i := range users {
		profiles = append(profiles, dto.FromUserToProfile(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": profiles})
}

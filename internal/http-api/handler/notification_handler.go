package handler

import (
	"errors"
	"net/http"

	"mangapress/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("", authMW, h.Unread)
	rg.PUT("/:notification_id/read", authMW, h.MarkAsRead)
	rg.PUT("/read-all", authMW, h.MarkAllAsRead)
	rg.DELETE("/:notification_id", authMW, h.Delete)
}

func (h *NotificationHandler) Unread(c *gin.Context) {
	notifications, err := h.svc.GetUnread(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	err := h.svc.MarkAsRead(c.Request.Context(), c.GetString("user_id"), c.Param("notification_id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	if err := h.svc.MarkAllAsRead(c.Request.Context(), c.GetString("user_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all marked as read"})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.GetString("user_id"), c.Param("notification_id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

package handler

import (
	"errors"
	"net/http"

	"mangapress/internal/http-api/dto"
	"mangapress/internal/http-api/middleware"
	"mangapress/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	svc service.CommentService
}

func NewCommentHandler(svc service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

func (h *CommentHandler) RegisterRoutes(mangaRG, commentRG *gin.RouterGroup, authMW gin.HandlerFunc) {
	mangaRG.GET("/:manga_id/comments", h.ListByManga)
	mangaRG.POST("/:manga_id/comments", authMW, h.Create)

	commentRG.PUT("/:comment_id", authMW, h.Update)
	commentRG.DELETE("/:comment_id", authMW, h.Delete)
}

func (h *CommentHandler) ListByManga(c *gin.Context) {
	offset, limit := parsePagination(c)

	comments, total, err := h.svc.ListByManga(c.Request.Context(), c.Param("manga_id"), offset, limit)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "manga not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": comments,
		"pagination": gin.H{
			"offset": offset,
			"limit":  limit,
			"total":  total,
		},
	})
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.svc.Create(c.Request.Context(), c.GetString("user_id"), c.Param("manga_id"), req.Content)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "manga not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) Update(c *gin.Context) {
	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.svc.Update(c.Request.Context(), c.GetString("user_id"), c.Param("comment_id"), req.Content)
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not the author of this comment"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, comment)
	}
}

func (h *CommentHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.GetString("user_id"), middleware.CallerRole(c), c.Param("comment_id"))
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not the author of this comment"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.Status(http.StatusNoContent)
	}
}

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

type ChapterHandler struct {
	svc service.ChapterService
}

func NewChapterHandler(svc service.ChapterService) *ChapterHandler {
	return &ChapterHandler{svc: svc}
}

// RegisterRoutes wires chapter endpoints under both the manga group
// (listing/creation) and the top-level chapters group (single-chapter
// operations). Reads take OptionalAuth so publish-date gating can
// recognize creators and admins.
func (h *ChapterHandler) RegisterRoutes(mangaRG, chapterRG *gin.RouterGroup, authMW, optionalAuthMW gin.HandlerFunc) {
	mangaRG.GET("/:manga_id/chapters", optionalAuthMW, h.List)
	mangaRG.POST("/:manga_id/chapters", authMW, middleware.RequireRole(models.RoleCreator), h.Create)

	chapterRG.GET("/:chapter_id", optionalAuthMW, h.Get)
	chapterRG.PUT("/:chapter_id", authMW, middleware.RequireRole(models.RoleCreator), h.Update)
	chapterRG.DELETE("/:chapter_id", authMW, middleware.RequireRole(models.RoleCreator), h.Delete)
}

func (h *ChapterHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	chapters, total, err := h.svc.List(c.Request.Context(), c.Param("manga_id"), middleware.CallerRole(c), offset, limit)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "manga not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": chapters,
		"pagination": gin.H{
			"offset": offset,
			"limit":  limit,
			"total":  total,
		},
	})
}

func (h *ChapterHandler) Get(c *gin.Context) {
	ch, err := h.svc.Get(c.Request.Context(), middleware.CallerRole(c), c.Param("chapter_id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chapter not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (h *ChapterHandler) Create(c *gin.Context) {
	var req dto.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ch := req.ToModel(c.Param("manga_id"))
	err := h.svc.Create(c.Request.Context(), c.GetString("user_id"), middleware.CallerRole(c), &ch)
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "manga not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not the owner of this manga"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusCreated, ch)
	}
}

func (h *ChapterHandler) Update(c *gin.Context) {
	var req dto.UpdateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ch, err := h.svc.Update(c.Request.Context(), c.GetString("user_id"), middleware.CallerRole(c), c.Param("chapter_id"), &req)
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "chapter not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not the owner of this manga"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, ch)
	}
}

func (h *ChapterHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.GetString("user_id"), middleware.CallerRole(c), c.Param("chapter_id"))
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "chapter not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not the owner of this manga"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.Status(http.StatusNoContent)
	}
}

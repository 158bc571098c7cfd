package handler

import (
	"errors"
	"net/http"
	"strings"

	"mangapress/internal/http-api/dto"
	"mangapress/internal/http-api/middleware"
	"mangapress/internal/http-api/models"
	"mangapress/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type MangaHandler struct {
	svc service.MangaService
}

func NewMangaHandler(svc service.MangaService) *MangaHandler {
	return &MangaHandler{svc: svc}
}

func (h *MangaHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	// Public catalog reads
	rg.GET("", h.List)
	rg.GET("/search", h.Search)
	rg.GET("/:manga_id", h.Get)

	// Creator routes; ownership is checked in the service
	rg.POST("", authMW, middleware.RequireRole(models.RoleCreator), h.Create)
	rg.PUT("/:manga_id", authMW, middleware.RequireRole(models.RoleCreator), h.Update)
	rg.DELETE("/:manga_id", authMW, middleware.RequireRole(models.RoleCreator), h.Delete)

	rg.POST("/:manga_id/like", authMW, h.Like)
}

func (h *MangaHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	list, total, err := h.svc.List(c.Request.Context(), offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": list,
		"pagination": gin.H{
			"offset": offset,
			"limit":  limit,
			"total":  total,
		},
	})
}

func (h *MangaHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})
		return
	}
	offset, limit := parsePagination(c)

	list, total, err := h.svc.Search(c.Request.Context(), q, offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list, "total": total})
}

func (h *MangaHandler) Get(c *gin.Context) {
	m, err := h.svc.Get(c.Request.Context(), c.Param("manga_id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "manga not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MangaHandler) Create(c *gin.Context) {
	var req dto.CreateMangaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m := req.ToModel()
	if err := h.svc.Create(c.Request.Context(), c.GetString("user_id"), &m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *MangaHandler) Update(c *gin.Context) {
	var req dto.UpdateMangaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), c.GetString("user_id"), middleware.CallerRole(c), c.Param("manga_id"), &req)
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "manga not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not the owner of this manga"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, updated)
	}
}

func (h *MangaHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.GetString("user_id"), middleware.CallerRole(c), c.Param("manga_id"))
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "manga not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not the owner of this manga"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.Status(http.StatusNoContent)
	}
}

func (h *MangaHandler) Like(c *gin.Context) {
	if err := h.svc.Like(c.Request.Context(), c.Param("manga_id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "manga not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "liked"})
}

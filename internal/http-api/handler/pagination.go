package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parsePagination reads offset/limit query parameters. The limit is
// hard-capped at 100 regardless of what the client asked for.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset = 0
	limit = defaultPageSize

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return offset, limit
}

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"mangapress/internal/http-api/models"
	"mangapress/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware authenticates API requests. The token is verified and
// then resolved to a live user record, so a deleted account cannot keep
// acting on a previously issued token.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed authorization header"})
			c.Abort()
			return
		}

		user, err := authService.ResolveUser(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user no longer exists"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			}
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Set("role", user.Role)

		c.Next()
	}
}

// OptionalAuth resolves a bearer token when one is present but lets
// anonymous requests through as viewers. Read endpoints use this so
// publish-date gating can still recognize creators and admins.
func OptionalAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if user, err := authService.ResolveUser(c.Request.Context(), tokenString); err == nil {
				c.Set("user", user)
				c.Set("user_id", user.ID)
				c.Set("role", user.Role)
			}
		}
		c.Next()
	}
}

// RequireRole rejects callers whose role does not meet the minimum.
// Must run after AuthMiddleware.
func RequireRole(minimum models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "role not found in request context"})
			c.Abort()
			return
		}

		role, ok := roleValue.(models.Role)
		if !ok || !role.MeetsMinimum(minimum) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "insufficient permissions",
				"required": string(minimum),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CallerRole returns the authenticated caller's role, or viewer for
// anonymous requests.
func CallerRole(c *gin.Context) models.Role {
	if roleValue, exists := c.Get("role"); exists {
		if role, ok := roleValue.(models.Role); ok {
			return role
		}
	}
	return models.RoleViewer
}

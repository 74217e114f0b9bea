package middleware

import (
	"net/http"

	"travelagency/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole ensures the authenticated session carries one of the roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
		c.Abort()
	}
}

// SuperOnly gates the destructive booking actions; staff sessions can view
// but not approve, refund or delete.
func SuperOnly() gin.HandlerFunc {
	return RequireRole("super")
}

// AdminOnly admits both admin roles.
func AdminOnly() gin.HandlerFunc {
	return RequireRole("super", "staff")
}

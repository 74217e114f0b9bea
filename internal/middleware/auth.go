package middleware

import (
	"net/http"
	"strings"

	"travelagency/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type tokenValidator interface {
	ValidateToken(tokenStr string) (email, role string, err error)
}

// TokenValidatorFunc adapts a closure to the validator interface.
type TokenValidatorFunc func(tokenStr string) (string, string, error)

func (f TokenValidatorFunc) ValidateToken(tokenStr string) (string, string, error) {
	return f(tokenStr)
}

// Auth requires a Bearer token and stores the session's email and role on the
// request context.
func Auth(v tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Empty token")
			c.Abort()
			return
		}

		email, role, err := v.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			c.Abort()
			return
		}

		c.Set("email", email)
		c.Set("role", role)

		c.Next()
	}
}

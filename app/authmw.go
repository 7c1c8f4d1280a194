package app

import (
	"Gin_postgres_library_manager/token"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys set by RequireRole.
const (
	CtxPrincipalID = "principalID"
	CtxRole        = "role"
)

// RequireRole gates a route on a valid bearer token carrying the given role:
// 401 when the token is missing or bad, 403 when it belongs to the wrong
// kind of principal.
func RequireRole(tokens *token.Issuer, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "no token provided"})
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		claims, err := tokens.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid token"})
			return
		}
		if role != "" && claims.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden: incorrect role"})
			return
		}

		c.Set(CtxPrincipalID, claims.Subject)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"cabinbook/internal/infra/security"
)

// AdminAuth guards the dashboard routes with a shared token, compared
// against a bcrypt hash from configuration so the plaintext never lives in
// the environment. An empty hash disables the admin surface entirely.
func AdminAuth(tokenHash string) gin.HandlerFunc {
	hasher := security.BcryptHasher{}
	return func(c *gin.Context) {
		if tokenHash == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin access not configured"})
			return
		}
		token := c.GetHeader("X-Admin-Token")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin token required"})
			return
		}
		if err := hasher.Compare(tokenHash, token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin token"})
			return
		}
		c.Next()
	}
}

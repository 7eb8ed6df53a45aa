package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skywardclean/ordering-backend/internal/logger"
)

// AdminMiddleware gates the admin routes behind a shared key. Full
// authentication is handled upstream; this keeps the mutation surface off
// the open network.
type AdminMiddleware struct {
	log *logger.Logger
	key string
}

func NewAdminMiddleware(log *logger.Logger, key string) *AdminMiddleware {
	return &AdminMiddleware{log: log.With("Middleware", "AdminMiddleware"), key: key}
}

func (am *AdminMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if am.key == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access not configured"})
			return
		}
		provided := c.GetHeader("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(am.key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid admin key"})
			return
		}
		c.Next()
	}
}

package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/teamtrack/workforce-api/internal/errors"
	"github.com/teamtrack/workforce-api/internal/models"
)

// RequireAdmin rejects callers without the admin role. Must run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok || role != models.RoleAdmin {
			apierrors.Forbidden(c, "Admin privileges required")
			c.Abort()
			return
		}
		c.Next()
	}
}

package middlewares

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/january-msemakweli/MoAfyaCamps/pkg/camp"
)

// IsAdminUser gates admin-only endpoints on the resolved user's admin flag.
// Must run after ResolveCurrentUser.
func IsAdminUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userValue, ok := c.Get("currentUser")
		if !ok {
			slog.Warn("IsAdminUser: currentUser not found in context")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		user := userValue.(*camp.User)

		if !user.IsAdmin {
			slog.Warn("IsAdminUser: non admin user tried to access admin endpoint", slog.String("userID", user.ID))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
			return
		}
	}
}

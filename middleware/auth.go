package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/staylink/collab-api/utils"
)

const (
	contextUserID   = "user_id"
	contextUserRole = "user_role"
	contextEmail    = "user_email"
)

// AuthMiddleware validates the Bearer token and stores the viewer's id and
// role on the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := utils.ParseAccessToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(contextUserID, claims.UserID)
		c.Set(contextUserRole, claims.Role)
		c.Set(contextEmail, claims.Email)
		c.Next()
	}
}

// GetUserID returns the authenticated viewer's id, or "" when unauthenticated.
func GetUserID(c *gin.Context) string {
	return c.GetString(contextUserID)
}

// GetUserRole returns "hotel" or "creator" for the authenticated viewer.
func GetUserRole(c *gin.Context) string {
	return c.GetString(contextUserRole)
}

// GetUserEmail returns the authenticated viewer's email.
func GetUserEmail(c *gin.Context) string {
	return c.GetString(contextEmail)
}

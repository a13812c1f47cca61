package middleware

import (
	"net/http"
	"strings"

	"github.com/finvault/banking-api/utils"

	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// AuthMiddleware validates the Bearer token and stores the authenticated
// user ID on the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization header"})
			c.Abort()
			return
		}

		userID, err := utils.ParseAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// GetUserID returns the authenticated user ID, or "" when unauthenticated.
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"travel-vault-server/internal/auth"
	"travel-vault-server/internal/vault"
)

const userIDContextKey = "userID"

func UserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Get(userIDContextKey)
	if !ok {
		return "", false
	}
	value, ok := userID.(string)
	return value, ok && value != ""
}

// RequireAuth accepts a bearer token that verifies against cfg and matches
// the currently signed-in user. Tokens from a replaced or signed-out session
// are rejected even before they expire.
func RequireAuth(cfg auth.TokenConfig, sessions *vault.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
			c.Abort()
			return
		}

		claims, err := auth.VerifyToken(parts[1], cfg)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
			c.Abort()
			return
		}

		current, ok := sessions.Current()
		if !ok || current.ID != claims.UserID {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session is no longer active"})
			c.Abort()
			return
		}

		c.Set(userIDContextKey, claims.UserID)
		c.Next()
	}
}

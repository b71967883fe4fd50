package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/wepodcaster-backend/utils"
)

const (
	ContextIdentityID = "identity_id"
	ContextEmail      = "email"
)

// bearerToken lấy token từ Authorization, fallback X-Auth-Token (iOS)
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		authHeader = c.GetHeader("X-Auth-Token")
	}
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" && c.GetHeader("X-Auth-Token") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Thiếu Authorization header"})
			return
		}
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header không hợp lệ"})
			return
		}

		claims, err := tokens.VerifyToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token không hợp lệ hoặc hết hạn"})
			return
		}

		c.Set(ContextIdentityID, claims.IdentityID)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// OptionalAuthMiddleware: token thiếu hoặc sai thì coi như anonymous
func OptionalAuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := tokens.VerifyToken(tokenString); err == nil {
				c.Set(ContextIdentityID, claims.IdentityID)
				c.Set(ContextEmail, claims.Email)
			}
		}
		c.Next()
	}
}

// IdentityID trả về "" với request anonymous
func IdentityID(c *gin.Context) string {
	return c.GetString(ContextIdentityID)
}

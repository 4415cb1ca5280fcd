package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const (
	UserKey  = "userID"
	EmailKey = "userEmail"
	NameKey  = "userName"
	RoleKey  = "userRole"
)

// AuthMiddleware verifies the Bearer token and stores the caller's identity
// claims on the gin context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Missing token"})
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid token"})
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid token"})
			return
		}
		c.Set(UserKey, sub)
		if email, ok := claims["email"].(string); ok {
			c.Set(EmailKey, email)
		}
		if name, ok := claims["name"].(string); ok {
			c.Set(NameKey, name)
		}
		if role, ok := claims["role"].(string); ok {
			c.Set(RoleKey, role)
		}
		c.Next()
	}
}

// RequireAdmin rejects callers whose token does not carry the admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "Access denied"})
			return
		}
		c.Next()
	}
}

func GetUserID(c *gin.Context) string {
	if val, exists := c.Get(UserKey); exists {
		return val.(string)
	}
	return ""
}

func GetUserEmail(c *gin.Context) string {
	if val, exists := c.Get(EmailKey); exists {
		return val.(string)
	}
	return ""
}

func GetUserName(c *gin.Context) string {
	if val, exists := c.Get(NameKey); exists {
		return val.(string)
	}
	return ""
}

func GetRole(c *gin.Context) string {
	if val, exists := c.Get(RoleKey); exists {
		return val.(string)
	}
	return ""
}

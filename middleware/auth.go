package middleware

import (
	"fmt"
	"strings"

	"srs-backend/config"
	"srs-backend/helper"
	"srs-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// AuthMiddleware validates the Bearer token and stores the caller's
// identity in the request context under "user_id" and "role".
func AuthMiddleware(httpHelper *helper.HTTPHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httpHelper.SendUnauthorizedError(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httpHelper.SendUnauthorizedError(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return config.JWTSecret, nil
		})
		if err != nil || !token.Valid {
			httpHelper.SendUnauthorizedError(c, "Invalid or expired token")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httpHelper.SendUnauthorizedError(c, "Invalid token claims")
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(float64)
		if !ok {
			httpHelper.SendUnauthorizedError(c, "Invalid token claims")
			c.Abort()
			return
		}
		role, _ := claims["role"].(string)

		c.Set("user_id", uint(userID))
		c.Set("role", role)

		c.Next()
	}
}

// RequireRole restricts a route to the given roles. It must run after
// AuthMiddleware.
func RequireRole(httpHelper *helper.HTTPHelper, roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := models.UserRole(c.GetString("role"))
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		httpHelper.SendForbiddenError(c, "Insufficient permissions")
		c.Abort()
	}
}

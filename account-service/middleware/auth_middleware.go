package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"orghub-backend/shared/database/models"
	"orghub-backend/shared/database/repository"
	utils "orghub-backend/shared/utils/auth"
	"orghub-backend/shared/utils/response"
)

// Context keys set on authenticated requests
const (
	ContextUserKey   = "currentUser"
	ContextUserIDKey = "userID"
)

// AuthMiddleware verifies the access token and attaches the user row to the
// request context. Token source precedence: accessToken cookie, then the
// Authorization Bearer header. Any failure is terminal for the request.
func AuthMiddleware(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.AbortError(c, response.Unauthorized("Access token missing"))
			return
		}

		claims, err := utils.ValidateAccessToken(tokenString)
		if err != nil {
			response.AbortError(c, response.Unauthorized(err.Error()))
			return
		}

		if claims.UserID == "" {
			response.AbortError(c, response.Unauthorized("Token payload is invalid (missing user ID)"))
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.AbortError(c, response.Unauthorized("Token payload is invalid (missing user ID)"))
			return
		}

		user, err := users.FindByID(userID)
		if err != nil {
			response.AbortError(c, response.Unauthorized("User not found"))
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)

		c.Next()
	}
}

// extractToken returns the access token from the cookie or the Bearer header
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return ""
	}

	return tokenParts[1]
}

// CurrentUser returns the authenticated user attached by AuthMiddleware
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

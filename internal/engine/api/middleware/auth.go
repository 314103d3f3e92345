package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/questforge/questforge-backend/internal/engine/repository"
	"github.com/questforge/questforge-backend/internal/engine/types"
	"github.com/questforge/questforge-backend/pkg/logging"
)

const userContextKey = "authenticatedUser"

type ApiKeyAuth struct {
	users  repository.UserRepository
	logger logging.Logger
}

func NewApiKeyAuth(users repository.UserRepository, logger logging.Logger) *ApiKeyAuth {
	return &ApiKeyAuth{
		users:  users,
		logger: logger,
	}
}

// GinMiddleware resolves X-Api-Key to a user and stores it on the request
// context. Unknown keys get 401 without revealing whether the key exists.
func (a *ApiKeyAuth) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-Api-Key")
		if apiKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key is required"})
			return
		}

		user, err := a.users.GetUserByAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			a.logger.Warnf("Rejected request with unknown API key: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireAdmin gates admin routes. It must run after GinMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || user.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user stored by GinMiddleware.
func CurrentUser(c *gin.Context) (types.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return types.User{}, false
	}
	user, ok := value.(types.User)
	return user, ok
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questforge/questforge-backend/internal/engine/types"
	"github.com/questforge/questforge-backend/pkg/logging"
)

type fakeUserRepo struct {
	users map[string]types.User
}

func (f *fakeUserRepo) GetUserByAPIKey(ctx context.Context, apiKey string) (types.User, error) {
	user, ok := f.users[apiKey]
	if !ok {
		return types.User{}, errors.New("not found")
	}
	return user, nil
}

func setupAuthRouter(users *fakeUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := NewApiKeyAuth(users, &logging.NoopLogger{})

	router := gin.New()
	protected := router.Group("/api")
	protected.Use(auth.GinMiddleware())
	protected.GET("/whoami", func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"user_id": user.UserID})
	})

	admin := protected.Group("/admin")
	admin.Use(RequireAdmin())
	admin.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestApiKeyAuth(t *testing.T) {
	users := &fakeUserRepo{users: map[string]types.User{
		"user-key":  {UserID: 42, Role: "user"},
		"admin-key": {UserID: 1, Role: "admin"},
	}}
	router := setupAuthRouter(users)

	tests := []struct {
		name           string
		path           string
		apiKey         string
		expectedStatus int
	}{
		{
			name:           "missing key",
			path:           "/api/whoami",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown key",
			path:           "/api/whoami",
			apiKey:         "wrong",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "valid key",
			path:           "/api/whoami",
			apiKey:         "user-key",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "admin route rejects regular user",
			path:           "/api/admin/ping",
			apiKey:         "user-key",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "admin route accepts admin",
			path:           "/api/admin/ping",
			apiKey:         "admin-key",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.apiKey != "" {
				req.Header.Set("X-Api-Key", tt.apiKey)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestCurrentUserOutsideMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := CurrentUser(c)
	require.False(t, ok)
}

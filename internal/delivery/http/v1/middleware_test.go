package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azemskov/tasktrack/internal/models"
	"github.com/azemskov/tasktrack/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newMiddlewareTestRouter(auth services.AuthService) *gin.Engine {
	handler := New(zerolog.Nop(), auth, &fakeTaskService{})

	router := gin.New()
	router.GET("/protected", handler.HandleAuthMiddleware, func(c *gin.Context) {
		userID, _ := getStringFromContext(c, userIDCtxKey)
		c.String(http.StatusOK, userID)
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	auth := &fakeAuthService{
		resolveTokenFn: func(_ context.Context, token string) (*models.User, error) {
			if token == "valid-token" {
				return &models.User{ID: "user-1", Username: "alice"}, nil
			}
			return nil, services.ErrInvalidToken
		},
	}
	router := newMiddlewareTestRouter(auth)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "no token", header: "Bearer", wantStatus: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer valid-token", wantStatus: http.StatusOK, wantBody: "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareStorageFailure(t *testing.T) {
	auth := &fakeAuthService{
		resolveTokenFn: func(context.Context, string) (*models.User, error) {
			return nil, assert.AnError
		},
	}
	router := newMiddlewareTestRouter(auth)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer some-token")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

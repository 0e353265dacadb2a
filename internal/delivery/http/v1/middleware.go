package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/azemskov/tasktrack/internal/models"
	"github.com/azemskov/tasktrack/internal/services"
)

const (
	userCtxKey         = "user"
	userIDCtxKey       = "user_id"
	sessionTokenCtxKey = "session_token"
)

// HandleAuthMiddleware resolves the bearer token to a user and stores
// it in the request context. Handlers downstream never trust a
// client-supplied owner id.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		h.logger.Warn().Msg("authorization header required")
		abort(c, newUnauthorizedError(http.StatusText(http.StatusUnauthorized)))
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		h.logger.Warn().Msg("invalid authorization header")
		abort(c, newUnauthorizedError(http.StatusText(http.StatusUnauthorized)))
		return
	}
	token := parts[1]

	user, err := h.auth.ResolveToken(c, token)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			h.logger.Warn().Msg("invalid session token")
			abort(c, newUnauthorizedError(services.ErrInvalidToken.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to resolve session token")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.Set(userCtxKey, user)
	c.Set(userIDCtxKey, user.ID)
	c.Set(sessionTokenCtxKey, token)
	c.Next()
}

func getUserFromContext(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(userCtxKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func getStringFromContext(c *gin.Context, key string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

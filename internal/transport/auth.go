package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ganot/accomplish/internal/repository"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

const keyContextKey = "api_key"

// KeyResolver resolves a bearer token to the description of its API key.
type KeyResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// KeyFromContext returns the description of the API key that authenticated
// the request, if any.
func KeyFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(keyContextKey)
	if !ok {
		return "", false
	}
	desc, ok := v.(string)
	return desc, ok
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(header string) string {
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// AuthMiddleware enforces bearer token authentication.
func AuthMiddleware(resolver KeyResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, &APIError{Code: "UNAUTHORIZED", Message: "missing bearer token"})
			return
		}

		desc, err := resolver.Resolve(c.Request.Context(), token)
		switch {
		case errors.Is(err, repository.ErrNotFound), errors.Is(err, ErrUnauthorized):
			c.AbortWithStatusJSON(http.StatusUnauthorized, &APIError{Code: "UNAUTHORIZED", Message: "invalid bearer token"})
			return
		case err != nil:
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, &APIError{Code: "INTERNAL", Message: "Internal server error"})
			return
		}

		c.Set(keyContextKey, desc)
		c.Next()
	}
}

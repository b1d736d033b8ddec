package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/accomplish/internal/repository"
)

type contextKey int

const apiKeyKey contextKey = iota

// getAPIKey returns the description of the key that authenticated the call.
func getAPIKey(ctx context.Context) string {
	v, _ := ctx.Value(apiKeyKey).(string)
	return v
}

// KeyResolver resolves a bearer token to the description of its API key.
type KeyResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// authMiddleware implements bearer token authentication as MCP middleware.
// Only an unknown key is unauthorized; other resolver failures are internal.
func authMiddleware(resolver KeyResolver, logger *slog.Logger) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Protocol handshake stays open.
			if method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("unauthorized: missing headers")
			}

			auth := extra.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				return nil, fmt.Errorf("unauthorized: missing bearer token")
			}

			desc, err := resolver.Resolve(ctx, token)
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("unauthorized: invalid bearer token")
			}
			if err != nil {
				logger.Error("api key lookup failed", "method", method, "error", err)
				return nil, fmt.Errorf("internal error: api key lookup failed")
			}

			ctx = context.WithValue(ctx, apiKeyKey, desc)
			return next(ctx, method, req)
		}
	}
}

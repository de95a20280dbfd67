package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClerkKey is the context key for the name of the clerk making a call.
	ClerkKey contextKey = "clerk"
	// RequestIDKey is the context key for the per-call request ID.
	RequestIDKey contextKey = "request_id"
)

// ClerkHeader names the clerk at the counter. It is attribution only;
// the service has no authentication.
const ClerkHeader = "X-Clerk"

// GetClerk extracts the clerk name from the context.
// Returns empty string if not found.
func GetClerk(ctx context.Context) string {
	clerk, _ := ctx.Value(ClerkKey).(string)
	return clerk
}

// GetRequestID extracts the request ID from the context.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// ClerkInterceptor copies the X-Clerk header, when present, into the context.
func ClerkInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if clerk := strings.TrimSpace(req.Header().Get(ClerkHeader)); clerk != "" {
				ctx = context.WithValue(ctx, ClerkKey, clerk)
			}
			return next(ctx, req)
		}
	}
}

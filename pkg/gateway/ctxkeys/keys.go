// Package ctxkeys holds the request-scoped context keys and accessors shared
// by the gateway middleware and its handler packages.
package ctxkeys

import (
	"context"

	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/auth"
)

// ContextKey is used for storing request-scoped authentication metadata in context
type ContextKey string

const (
	// Identity stores the decoded bearer-token identity for the request
	Identity ContextKey = "identity"

	// RequestID stores the request correlation id
	RequestID ContextKey = "request_id"
)

// WithIdentity attaches a decoded identity to the context.
func WithIdentity(ctx context.Context, ident *auth.Identity) context.Context {
	return context.WithValue(ctx, Identity, ident)
}

// IdentityFrom returns the identity attached by the gateway filter, if any.
func IdentityFrom(ctx context.Context) (*auth.Identity, bool) {
	ident, ok := ctx.Value(Identity).(*auth.Identity)
	return ident, ok && ident != nil
}

// WithRequestID attaches a request correlation id to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestID, id)
}

// RequestIDFrom returns the request correlation id, if set.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(RequestID).(string)
	return id
}

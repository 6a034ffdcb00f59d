package http

import (
	"context"

	"lawdesk-backend/internal/domain"
)

type principalKey struct{}

// Principal is the authenticated caller, taken from a verified bearer token.
type Principal struct {
	UserID   int32
	Email    string
	Role     domain.Role
	OfficeID *int32
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller set by the auth middleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

package auth

import (
	"context"

	"github.com/iliyamo/food-squad/internal/model"
)

// identityKey is the private context key under which the middleware
// stores the authenticated identity. A package-scoped struct type
// cannot collide with keys from other packages.
type identityKey struct{}

// WithIdentity returns a child context carrying the identity
// reconstructed for this request.
func WithIdentity(ctx context.Context, ident model.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, ident)
}

// IdentityFrom reads the request identity. ok is false when the
// request was never authenticated (public route, missing header).
func IdentityFrom(ctx context.Context) (model.Identity, bool) {
	ident, ok := ctx.Value(identityKey{}).(model.Identity)
	return ident, ok
}

package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/food-squad/internal/auth"
	"github.com/iliyamo/food-squad/internal/model"
)

// UserGetter is the slice of the user repository the ownership
// policy needs.
type UserGetter interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// UserContext resolves the identity attached to the request context
// back into a live user row and applies the single ownership
// predicate every resource service shares. There is no per-resource
// authorization beyond this rule (plus the role-mutation guards in
// UserService).
type UserContext struct {
	users UserGetter
}

func NewUserContext(users UserGetter) *UserContext { return &UserContext{users: users} }

// Current returns the user behind the request identity. It fails
// with ErrUnauthenticated when no identity was attached by the
// middleware or when the user row has since been deleted: a token
// must never outlive its account.
func (uc *UserContext) Current(ctx context.Context) (*model.User, error) {
	ident, ok := auth.IdentityFrom(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	u, err := uc.users.GetByEmail(ctx, ident.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// CheckOwnership allows the request iff the current user owns the
// resource or holds an elevated role (MODERATOR or ADMIN). On allow
// it returns the current user so callers don't resolve it twice.
func (uc *UserContext) CheckOwnership(ctx context.Context, resourceOwnerID uuid.UUID) (*model.User, error) {
	cur, err := uc.Current(ctx)
	if err != nil {
		return nil, err
	}
	if cur.ID != resourceOwnerID && !cur.Role.Elevated() {
		return nil, ErrForbidden
	}
	return cur, nil
}

// RequireElevated allows the request only for MODERATOR or ADMIN
// users. Used by the few surfaces that have no single owner, such
// as listing all users or all orders.
func (uc *UserContext) RequireElevated(ctx context.Context) (*model.User, error) {
	cur, err := uc.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !cur.Role.Elevated() {
		return nil, ErrForbidden
	}
	return cur, nil
}

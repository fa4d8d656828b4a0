package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/iliyamo/food-squad/internal/model"
)

// OrderCounter is the slice of the order repository the user service
// needs for decorating responses.
type OrderCounter interface {
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// PurgeTx is one in-flight cascading user delete: a unit of work
// whose steps all commit or all roll back. The concrete
// implementation runs every statement on a single database
// transaction.
type PurgeTx interface {
	DeleteReviewsByUser(ctx context.Context, userID uuid.UUID) error
	DeleteOrdersByUser(ctx context.Context, userID uuid.UUID) error
	MenuItemIDsByUser(ctx context.Context, userID uuid.UUID) ([]int64, error)
	DeleteMenuItemRefs(ctx context.Context, menuItemID int64) error
	DeleteMenuItem(ctx context.Context, menuItemID int64) error
	DeleteSessionsByUser(ctx context.Context, userID uuid.UUID) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	Commit() error
	Rollback() error
}

// BeginPurge opens a new cascading-delete transaction.
type BeginPurge func(ctx context.Context) (PurgeTx, error)

// UserProfile carries the profile and orders count returned by the
// read endpoints.
type UserProfile struct {
	User        *model.User
	OrdersCount int64
}

// UserUpdate is the mutable subset of a user accepted on update.
// Role arrives as a string and is validated against the enumeration
// and the mutation guards before anything is written.
type UserUpdate struct {
	Name        string
	Role        string
	ImageURL    string
	PhoneNumber string
}

// UserService implements the user CRUD surface, the role-mutation
// guards and the cascading delete of a user with everything it owns.
type UserService struct {
	users      UserStore
	orders     OrderCounter
	uc         *UserContext
	beginPurge BeginPurge
}

func NewUserService(users UserStore, orders OrderCounter, uc *UserContext, beginPurge BeginPurge) *UserService {
	return &UserService{users: users, orders: orders, uc: uc, beginPurge: beginPurge}
}

// List returns a page of users with their order counts. Only
// elevated roles may enumerate accounts.
func (s *UserService) List(ctx context.Context, page, size int) ([]UserProfile, error) {
	if _, err := s.uc.RequireElevated(ctx); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, page, size)
	if err != nil {
		return nil, err
	}
	out := make([]UserProfile, 0, len(users))
	for _, u := range users {
		n, err := s.orders.CountByUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, UserProfile{User: u, OrdersCount: n})
	}
	return out, nil
}

// Get returns one user's profile, gated by the ownership policy.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserProfile, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.uc.CheckOwnership(ctx, u.ID); err != nil {
		return nil, err
	}
	n, err := s.orders.CountByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &UserProfile{User: u, OrdersCount: n}, nil
}

// Update rewrites a user's profile. Beyond the ownership policy,
// role changes are restricted:
//   - nobody changes their own role;
//   - a NORMAL actor never assigns any non-NORMAL role;
//   - only an ADMIN assigns the ADMIN role;
//   - an existing ADMIN's role is immutable, by anyone.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, upd UserUpdate) (*UserProfile, error) {
	target, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	cur, err := s.uc.CheckOwnership(ctx, target.ID)
	if err != nil {
		return nil, err
	}

	newRole, err := model.ParseRole(upd.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if cur.ID == target.ID && newRole != cur.Role {
		return nil, fmt.Errorf("%w: users cannot update their own role", ErrInvalidOperation)
	}
	if cur.Role == model.RoleNormal && newRole != model.RoleNormal {
		return nil, fmt.Errorf("%w: normal users cannot change roles", ErrInvalidOperation)
	}
	if cur.Role != model.RoleAdmin && newRole == model.RoleAdmin {
		return nil, fmt.Errorf("%w: only admin users can assign the admin role", ErrInvalidOperation)
	}
	if target.Role == model.RoleAdmin && newRole != model.RoleAdmin {
		return nil, fmt.Errorf("%w: admin user role cannot be changed", ErrInvalidOperation)
	}

	target.Name = upd.Name
	target.Role = newRole
	target.ImageURL = upd.ImageURL
	target.PhoneNumber = upd.PhoneNumber
	if err := s.users.Update(ctx, target); err != nil {
		return nil, err
	}
	n, err := s.orders.CountByUser(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	return &UserProfile{User: target, OrdersCount: n}, nil
}

// Delete removes a user and everything the user owns inside one
// transaction. Step order matters: reviews, then orders, then each
// owned menu item (clearing order line items referencing it, other
// users' orders included, before the item itself), then the session
// row, then the user. Admin accounts are never deletable. Any
// failure rolls the whole sequence back; partial deletion is never
// observable.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	target, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.uc.CheckOwnership(ctx, target.ID); err != nil {
		return err
	}
	if target.Role == model.RoleAdmin {
		return fmt.Errorf("%w: admin users cannot be deleted", ErrInvalidOperation)
	}

	tx, err := s.beginPurge(ctx)
	if err != nil {
		return err
	}
	if err := s.purge(ctx, tx, target.ID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: deleting user: %v", ErrInvalidOperation, err)
	}
	return tx.Commit()
}

func (s *UserService) purge(ctx context.Context, tx PurgeTx, userID uuid.UUID) error {
	if err := tx.DeleteReviewsByUser(ctx, userID); err != nil {
		return err
	}
	if err := tx.DeleteOrdersByUser(ctx, userID); err != nil {
		return err
	}
	itemIDs, err := tx.MenuItemIDsByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, itemID := range itemIDs {
		if err := tx.DeleteMenuItemRefs(ctx, itemID); err != nil {
			return err
		}
		if err := tx.DeleteMenuItem(ctx, itemID); err != nil {
			return err
		}
	}
	if err := tx.DeleteSessionsByUser(ctx, userID); err != nil {
		return err
	}
	return tx.DeleteUser(ctx, userID)
}

func (s *UserService) load(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	return u, err
}

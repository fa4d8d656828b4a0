package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/food-squad/internal/model"
)

type userFixture struct {
	users    *fakeUserStore
	orders   *fakeOrderStore
	svc      *UserService
	purgeTxs []*fakePurgeTx
}

func newUserFixture(failAt string, menuItemIDs []int64, users ...*model.User) *userFixture {
	f := &userFixture{
		users:  newFakeUserStore(users...),
		orders: newFakeOrderStore(),
	}
	begin := func(ctx context.Context) (PurgeTx, error) {
		tx := &fakePurgeTx{failAt: failAt, menuItemIDs: menuItemIDs}
		f.purgeTxs = append(f.purgeTxs, tx)
		return tx, nil
	}
	uc := NewUserContext(f.users)
	f.svc = NewUserService(f.users, f.orders, uc, begin)
	return f
}

func TestUserListRequiresElevatedRole(t *testing.T) {
	normal := newUser(model.RoleNormal)
	mod := newUser(model.RoleModerator)
	f := newUserFixture("", nil, normal, mod)

	_, err := f.svc.List(ctxFor(normal), 0, 20)
	require.ErrorIs(t, err, ErrForbidden)

	profiles, err := f.svc.List(ctxFor(mod), 0, 20)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
}

func TestUserGetOwnership(t *testing.T) {
	owner := newUser(model.RoleNormal)
	other := newUser(model.RoleNormal)
	mod := newUser(model.RoleModerator)
	admin := newUser(model.RoleAdmin)
	f := newUserFixture("", nil, owner, other, mod, admin)

	// Owner reads their own profile.
	p, err := f.svc.Get(ctxFor(owner), owner.ID)
	require.NoError(t, err)
	require.Equal(t, owner.ID, p.User.ID)

	// A stranger does not.
	_, err = f.svc.Get(ctxFor(other), owner.ID)
	require.ErrorIs(t, err, ErrForbidden)

	// Elevated roles bypass ownership.
	_, err = f.svc.Get(ctxFor(mod), owner.ID)
	require.NoError(t, err)
	_, err = f.svc.Get(ctxFor(admin), owner.ID)
	require.NoError(t, err)

	// Unauthenticated context.
	_, err = f.svc.Get(context.Background(), owner.ID)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUserGetNotFound(t *testing.T) {
	mod := newUser(model.RoleModerator)
	f := newUserFixture("", nil, mod)

	ghost := newUser(model.RoleNormal)
	_, err := f.svc.Get(ctxFor(mod), ghost.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func upd(u *model.User, role string) UserUpdate {
	return UserUpdate{Name: u.Name, Role: role, ImageURL: u.ImageURL, PhoneNumber: u.PhoneNumber}
}

func TestUserUpdateRoleGuards(t *testing.T) {
	t.Run("own role is immutable", func(t *testing.T) {
		mod := newUser(model.RoleModerator)
		f := newUserFixture("", nil, mod)
		_, err := f.svc.Update(ctxFor(mod), mod.ID, upd(mod, "ADMIN"))
		require.ErrorIs(t, err, ErrInvalidOperation)
	})

	t.Run("normal users never assign roles", func(t *testing.T) {
		u := newUser(model.RoleNormal)
		f := newUserFixture("", nil, u)
		_, err := f.svc.Update(ctxFor(u), u.ID, upd(u, "MODERATOR"))
		require.ErrorIs(t, err, ErrInvalidOperation)
	})

	t.Run("only admins assign the admin role", func(t *testing.T) {
		mod := newUser(model.RoleModerator)
		target := newUser(model.RoleNormal)
		f := newUserFixture("", nil, mod, target)
		_, err := f.svc.Update(ctxFor(mod), target.ID, upd(target, "ADMIN"))
		require.ErrorIs(t, err, ErrInvalidOperation)
	})

	t.Run("admin role is sticky", func(t *testing.T) {
		admin := newUser(model.RoleAdmin)
		target := newUser(model.RoleAdmin)
		f := newUserFixture("", nil, admin, target)
		_, err := f.svc.Update(ctxFor(admin), target.ID, upd(target, "NORMAL"))
		require.ErrorIs(t, err, ErrInvalidOperation)
	})

	t.Run("admin promotes normal to moderator", func(t *testing.T) {
		admin := newUser(model.RoleAdmin)
		target := newUser(model.RoleNormal)
		f := newUserFixture("", nil, admin, target)
		p, err := f.svc.Update(ctxFor(admin), target.ID, upd(target, "MODERATOR"))
		require.NoError(t, err)
		require.Equal(t, model.RoleModerator, p.User.Role)
	})

	t.Run("unknown role name", func(t *testing.T) {
		admin := newUser(model.RoleAdmin)
		target := newUser(model.RoleNormal)
		f := newUserFixture("", nil, admin, target)
		_, err := f.svc.Update(ctxFor(admin), target.ID, upd(target, "WIZARD"))
		require.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("profile update keeping own role", func(t *testing.T) {
		u := newUser(model.RoleNormal)
		f := newUserFixture("", nil, u)
		in := upd(u, "NORMAL")
		in.Name = "New Name"
		p, err := f.svc.Update(ctxFor(u), u.ID, in)
		require.NoError(t, err)
		require.Equal(t, "New Name", p.User.Name)
	})
}

func TestUserDeleteCascadeOrder(t *testing.T) {
	admin := newUser(model.RoleAdmin)
	target := newUser(model.RoleNormal)
	f := newUserFixture("", []int64{7, 9}, admin, target)

	require.NoError(t, f.svc.Delete(ctxFor(admin), target.ID))
	require.Len(t, f.purgeTxs, 1)

	tx := f.purgeTxs[0]
	require.True(t, tx.committed)
	require.False(t, tx.rolledBack)
	require.Equal(t, []string{
		"reviews",
		"orders",
		"menu-item-ids",
		"item-refs-7", "item-7",
		"item-refs-9", "item-9",
		"sessions",
		"user",
	}, tx.steps)
}

func TestUserDeleteRollsBackOnFailure(t *testing.T) {
	admin := newUser(model.RoleAdmin)
	target := newUser(model.RoleNormal)
	f := newUserFixture("item-refs-7", []int64{7, 9}, admin, target)

	err := f.svc.Delete(ctxFor(admin), target.ID)
	require.ErrorIs(t, err, ErrInvalidOperation)

	tx := f.purgeTxs[0]
	require.True(t, tx.rolledBack)
	require.False(t, tx.committed)
	// Nothing after the failing step ran.
	require.Equal(t, []string{"reviews", "orders", "menu-item-ids", "item-refs-7"}, tx.steps)
}

func TestUserDeleteGuards(t *testing.T) {
	admin := newUser(model.RoleAdmin)
	target := newUser(model.RoleNormal)
	other := newUser(model.RoleNormal)
	f := newUserFixture("", nil, admin, target, other)

	// Admin accounts are never deletable, even by an admin.
	err := f.svc.Delete(ctxFor(admin), admin.ID)
	require.ErrorIs(t, err, ErrInvalidOperation)

	// Ownership applies before anything is touched.
	err = f.svc.Delete(ctxFor(other), target.ID)
	require.ErrorIs(t, err, ErrForbidden)

	ghost := newUser(model.RoleNormal)
	err = f.svc.Delete(ctxFor(admin), ghost.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.Empty(t, f.purgeTxs)
}

func TestUserDeleteSelf(t *testing.T) {
	u := newUser(model.RoleNormal)
	f := newUserFixture("", nil, u)

	require.NoError(t, f.svc.Delete(ctxFor(u), u.ID))
	require.Len(t, f.purgeTxs, 1)
	require.True(t, f.purgeTxs[0].committed)
}

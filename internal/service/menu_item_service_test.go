package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/food-squad/internal/model"
)

func newMenuFixture(items []*model.MenuItem, users ...*model.User) (*fakeMenuStore, *MenuItemService) {
	userStore := newFakeUserStore(users...)
	menuStore := newFakeMenuStore(items...)
	return menuStore, NewMenuItemService(menuStore, NewUserContext(userStore))
}

func TestMenuItemCreate(t *testing.T) {
	owner := newUser(model.RoleNormal)
	store, svc := newMenuFixture(nil, owner)

	m, err := svc.Create(ctxFor(owner), MenuItemInput{
		Title:    "Margherita",
		Price:    8.50,
		Category: "pizza",
	})
	require.NoError(t, err)
	require.Equal(t, owner.ID, m.UserID)
	require.Equal(t, model.CategoryPizza, m.Category)
	require.NotEmpty(t, m.ImageURL, "default image applied")
	require.Len(t, store.items, 1)

	// Validation failures.
	_, err = svc.Create(ctxFor(owner), MenuItemInput{Price: 1, Category: "pizza"})
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = svc.Create(ctxFor(owner), MenuItemInput{Title: "Free", Price: 0})
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = svc.Create(ctxFor(owner), MenuItemInput{Title: "X", Price: 1, Category: "SUSHI"})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestMenuItemBrowsePublic(t *testing.T) {
	owner := newUser(model.RoleNormal)
	_, svc := newMenuFixture([]*model.MenuItem{
		{ID: 1, UserID: owner.ID, Title: "Margherita", Price: 8.5, Category: model.CategoryPizza},
		{ID: 2, UserID: owner.ID, Title: "Cola", Price: 2, Category: model.CategoryDrink},
	}, owner)

	// No identity needed to browse.
	anon := context.Background()
	items, err := svc.List(anon, "", 0, 20)
	require.NoError(t, err)
	require.Len(t, items, 2)

	items, err = svc.List(anon, "PIZZA", 0, 20)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = svc.List(anon, "SUSHI", 0, 20)
	require.ErrorIs(t, err, ErrInvalidArgument)

	m, err := svc.Get(anon, 1)
	require.NoError(t, err)
	require.Equal(t, "Margherita", m.Title)
	_, err = svc.Get(anon, 42)
	require.ErrorIs(t, err, ErrNotFound)

	byUser, err := svc.ListByUser(anon, owner.ID)
	require.NoError(t, err)
	require.Len(t, byUser, 2)
}

func TestMenuItemUpdateOwnership(t *testing.T) {
	owner := newUser(model.RoleNormal)
	stranger := newUser(model.RoleNormal)
	mod := newUser(model.RoleModerator)
	_, svc := newMenuFixture([]*model.MenuItem{
		{ID: 1, UserID: owner.ID, Title: "Margherita", Price: 8.5, Category: model.CategoryPizza},
	}, owner, stranger, mod)

	in := MenuItemInput{Title: "Margherita XL", Price: 9.5, Category: "PIZZA"}

	_, err := svc.Update(ctxFor(stranger), 1, in)
	require.ErrorIs(t, err, ErrForbidden)

	m, err := svc.Update(ctxFor(mod), 1, in)
	require.NoError(t, err)
	require.Equal(t, "Margherita XL", m.Title)
	// Identity of the row survives the rewrite.
	require.Equal(t, int64(1), m.ID)
	require.Equal(t, owner.ID, m.UserID)
}

func TestMenuItemDelete(t *testing.T) {
	owner := newUser(model.RoleNormal)
	stranger := newUser(model.RoleNormal)
	store, svc := newMenuFixture([]*model.MenuItem{
		{ID: 1, UserID: owner.ID, Title: "A", Price: 1},
		{ID: 2, UserID: owner.ID, Title: "B", Price: 2},
		{ID: 3, UserID: stranger.ID, Title: "C", Price: 3},
	}, owner, stranger)

	require.ErrorIs(t, svc.Delete(ctxFor(stranger), 1), ErrForbidden)
	require.NoError(t, svc.Delete(ctxFor(owner), 1))
	require.ErrorIs(t, svc.Delete(ctxFor(owner), 1), ErrNotFound)

	// Batch: one foreign item rejects the whole batch.
	err := svc.DeleteBatch(ctxFor(owner), []int64{2, 3})
	require.ErrorIs(t, err, ErrForbidden)
	require.Len(t, store.items, 2)

	require.ErrorIs(t, svc.DeleteBatch(ctxFor(owner), nil), ErrInvalidArgument)

	require.NoError(t, svc.DeleteBatch(ctxFor(owner), []int64{2}))
	require.Len(t, store.items, 1)
}

package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/iliyamo/food-squad/internal/auth"
	"github.com/iliyamo/food-squad/internal/model"
)

// ctxFor builds a request context authenticated as the given user,
// the way the middleware would.
func ctxFor(u *model.User) context.Context {
	return auth.WithIdentity(context.Background(), u.Identity())
}

func newUser(role model.Role) *model.User {
	id := uuid.New()
	return &model.User{
		ID:          id,
		Name:        "User " + id.String()[:8],
		Email:       id.String()[:8] + "@example.com",
		Role:        role,
		ImageURL:    "https://example.com/u.png",
		PhoneNumber: "555-0100",
	}
}

// ----- users -----

type fakeUserStore struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	s := &fakeUserStore{users: map[uuid.UUID]*model.User{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, u *model.User) error {
	s.users[u.ID] = u
	return nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *fakeUserStore) List(_ context.Context, page, size int) ([]*model.User, error) {
	out := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	start := page * size
	if start >= len(out) {
		return nil, nil
	}
	end := start + size
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (s *fakeUserStore) Update(_ context.Context, u *model.User) error {
	if _, ok := s.users[u.ID]; !ok {
		return sql.ErrNoRows
	}
	s.users[u.ID] = u
	return nil
}

// ----- sessions -----

type fakeSession struct {
	access  string
	refresh string
}

type fakeSessionStore struct {
	sessions map[uuid.UUID]fakeSession
	saves    int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[uuid.UUID]fakeSession{}}
}

func (s *fakeSessionStore) Save(_ context.Context, userID uuid.UUID, accessToken, refreshToken string) error {
	s.sessions[userID] = fakeSession{access: accessToken, refresh: refreshToken}
	s.saves++
	return nil
}

func (s *fakeSessionStore) IsRefreshValid(_ context.Context, userID uuid.UUID, refreshToken string) (bool, error) {
	sess, ok := s.sessions[userID]
	return ok && sess.refresh == refreshToken, nil
}

func (s *fakeSessionStore) IsAccessValid(_ context.Context, accessToken string) (bool, error) {
	for _, sess := range s.sessions {
		if sess.access == accessToken {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeSessionStore) Invalidate(_ context.Context, accessToken, refreshToken string) error {
	for id, sess := range s.sessions {
		if (accessToken != "" && sess.access == accessToken) ||
			(refreshToken != "" && sess.refresh == refreshToken) {
			delete(s.sessions, id)
		}
	}
	return nil
}

// ----- menu items -----

type fakeMenuStore struct {
	items  map[int64]*model.MenuItem
	nextID int64
}

func newFakeMenuStore(items ...*model.MenuItem) *fakeMenuStore {
	s := &fakeMenuStore{items: map[int64]*model.MenuItem{}, nextID: 1}
	for _, m := range items {
		if m.ID == 0 {
			m.ID = s.nextID
		}
		if m.ID >= s.nextID {
			s.nextID = m.ID + 1
		}
		s.items[m.ID] = m
	}
	return s
}

func (s *fakeMenuStore) Create(_ context.Context, m *model.MenuItem) error {
	m.ID = s.nextID
	s.nextID++
	s.items[m.ID] = m
	return nil
}

func (s *fakeMenuStore) GetByID(_ context.Context, id int64) (*model.MenuItem, error) {
	if m, ok := s.items[id]; ok {
		return m, nil
	}
	return nil, sql.ErrNoRows
}

func (s *fakeMenuStore) List(_ context.Context, category model.MenuItemCategory, page, size int) ([]*model.MenuItem, error) {
	out := make([]*model.MenuItem, 0, len(s.items))
	for _, m := range s.items {
		if category == "" || m.Category == category {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeMenuStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*model.MenuItem, error) {
	var out []*model.MenuItem
	for _, m := range s.items {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeMenuStore) Update(_ context.Context, m *model.MenuItem) error {
	if _, ok := s.items[m.ID]; !ok {
		return sql.ErrNoRows
	}
	s.items[m.ID] = m
	return nil
}

func (s *fakeMenuStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.items, id)
	return nil
}

func (s *fakeMenuStore) DeleteByIDs(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// ----- orders -----

type fakeOrderStore struct {
	orders map[uuid.UUID]*model.Order
}

func newFakeOrderStore(orders ...*model.Order) *fakeOrderStore {
	s := &fakeOrderStore{orders: map[uuid.UUID]*model.Order{}}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *fakeOrderStore) Create(_ context.Context, o *model.Order) error {
	s.orders[o.ID] = o
	return nil
}

func (s *fakeOrderStore) Update(_ context.Context, o *model.Order) error {
	if _, ok := s.orders[o.ID]; !ok {
		return sql.ErrNoRows
	}
	s.orders[o.ID] = o
	return nil
}

func (s *fakeOrderStore) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	if o, ok := s.orders[id]; ok {
		return o, nil
	}
	return nil, sql.ErrNoRows
}

func (s *fakeOrderStore) ListAll(_ context.Context, page, size int) ([]*model.Order, error) {
	out := make([]*model.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (s *fakeOrderStore) ListByUser(_ context.Context, userID uuid.UUID, page, size int) ([]*model.Order, error) {
	var out []*model.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (s *fakeOrderStore) CountByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for _, o := range s.orders {
		if o.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *fakeOrderStore) SetPaid(_ context.Context, id uuid.UUID, paid bool) error {
	o, ok := s.orders[id]
	if !ok {
		return sql.ErrNoRows
	}
	o.Paid = paid
	return nil
}

func (s *fakeOrderStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.orders[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.orders, id)
	return nil
}

func (s *fakeOrderStore) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// ----- reviews -----

type fakeReviewStore struct {
	reviews map[int64]*model.Review
	nextID  int64
}

func newFakeReviewStore(reviews ...*model.Review) *fakeReviewStore {
	s := &fakeReviewStore{reviews: map[int64]*model.Review{}, nextID: 1}
	for _, rv := range reviews {
		if rv.ID == 0 {
			rv.ID = s.nextID
		}
		if rv.ID >= s.nextID {
			s.nextID = rv.ID + 1
		}
		s.reviews[rv.ID] = rv
	}
	return s
}

func (s *fakeReviewStore) Create(_ context.Context, rv *model.Review) error {
	rv.ID = s.nextID
	s.nextID++
	s.reviews[rv.ID] = rv
	return nil
}

func (s *fakeReviewStore) GetByID(_ context.Context, id int64) (*model.Review, error) {
	if rv, ok := s.reviews[id]; ok {
		return rv, nil
	}
	return nil, sql.ErrNoRows
}

func (s *fakeReviewStore) ListByMenuItem(_ context.Context, menuItemID int64) ([]*model.Review, error) {
	var out []*model.Review
	for _, rv := range s.reviews {
		if rv.MenuItemID == menuItemID {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeReviewStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*model.Review, error) {
	var out []*model.Review
	for _, rv := range s.reviews {
		if rv.UserID == userID {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeReviewStore) Update(_ context.Context, rv *model.Review) error {
	if _, ok := s.reviews[rv.ID]; !ok {
		return sql.ErrNoRows
	}
	s.reviews[rv.ID] = rv
	return nil
}

func (s *fakeReviewStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.reviews[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.reviews, id)
	return nil
}

// ----- purge -----

// fakePurgeTx records the step sequence of a cascading delete and can
// be told to fail at a named step.
type fakePurgeTx struct {
	menuItemIDs []int64
	failAt      string
	steps       []string
	committed   bool
	rolledBack  bool
}

func (tx *fakePurgeTx) step(name string) error {
	tx.steps = append(tx.steps, name)
	if tx.failAt == name {
		return fmt.Errorf("injected failure at %s", name)
	}
	return nil
}

func (tx *fakePurgeTx) DeleteReviewsByUser(context.Context, uuid.UUID) error {
	return tx.step("reviews")
}

func (tx *fakePurgeTx) DeleteOrdersByUser(context.Context, uuid.UUID) error {
	return tx.step("orders")
}

func (tx *fakePurgeTx) MenuItemIDsByUser(context.Context, uuid.UUID) ([]int64, error) {
	if err := tx.step("menu-item-ids"); err != nil {
		return nil, err
	}
	return tx.menuItemIDs, nil
}

func (tx *fakePurgeTx) DeleteMenuItemRefs(_ context.Context, id int64) error {
	return tx.step(fmt.Sprintf("item-refs-%d", id))
}

func (tx *fakePurgeTx) DeleteMenuItem(_ context.Context, id int64) error {
	return tx.step(fmt.Sprintf("item-%d", id))
}

func (tx *fakePurgeTx) DeleteSessionsByUser(context.Context, uuid.UUID) error {
	return tx.step("sessions")
}

func (tx *fakePurgeTx) DeleteUser(context.Context, uuid.UUID) error {
	return tx.step("user")
}

func (tx *fakePurgeTx) Commit() error {
	tx.committed = true
	return nil
}

func (tx *fakePurgeTx) Rollback() error {
	tx.rolledBack = true
	return nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/iliyamo/food-squad/internal/model"
)

// OrderStore is the order repository surface the order service
// depends on.
type OrderStore interface {
	Create(ctx context.Context, o *model.Order) error
	Update(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListAll(ctx context.Context, page, size int) ([]*model.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]*model.Order, error)
	SetPaid(ctx context.Context, id uuid.UUID, paid bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
}

// MenuItemGetter is the single-item lookup the pricer needs.
type MenuItemGetter interface {
	GetByID(ctx context.Context, id int64) (*model.MenuItem, error)
}

// OrderService creates and maintains orders. The total cost is
// always computed here from current menu item prices (never trusted
// from input) and captured on the order row, so later price edits
// do not reprice past orders.
type OrderService struct {
	orders OrderStore
	menu   MenuItemGetter
	uc     *UserContext
}

func NewOrderService(orders OrderStore, menu MenuItemGetter, uc *UserContext) *OrderService {
	return &OrderService{orders: orders, menu: menu, uc: uc}
}

// Create prices and stores a new order for the current user.
func (s *OrderService) Create(ctx context.Context, quantities map[int64]int) (*model.Order, error) {
	cur, err := s.uc.Current(ctx)
	if err != nil {
		return nil, err
	}
	items, total, err := s.price(ctx, quantities)
	if err != nil {
		return nil, err
	}
	o := &model.Order{
		ID:        uuid.New(),
		UserID:    cur.ID,
		TotalCost: total,
		Status:    model.OrderPending,
		Items:     items,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Get returns one order, gated by the ownership policy.
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.uc.CheckOwnership(ctx, o.UserID); err != nil {
		return nil, err
	}
	return o, nil
}

// ListAll returns a page of every order; elevated roles only.
func (s *OrderService) ListAll(ctx context.Context, page, size int) ([]*model.Order, error) {
	if _, err := s.uc.RequireElevated(ctx); err != nil {
		return nil, err
	}
	return s.orders.ListAll(ctx, page, size)
}

// ListByUser returns a page of one user's orders, gated by the
// ownership policy.
func (s *OrderService) ListByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]*model.Order, error) {
	if _, err := s.uc.CheckOwnership(ctx, userID); err != nil {
		return nil, err
	}
	return s.orders.ListByUser(ctx, userID, page, size)
}

// Update replaces an order's line items and reprices it from the
// menu prices current at update time.
func (s *OrderService) Update(ctx context.Context, id uuid.UUID, quantities map[int64]int) (*model.Order, error) {
	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.uc.CheckOwnership(ctx, o.UserID); err != nil {
		return nil, err
	}
	items, total, err := s.price(ctx, quantities)
	if err != nil {
		return nil, err
	}
	o.Items = items
	o.TotalCost = total
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// SetPaid registers payment on an order; elevated roles only.
func (s *OrderService) SetPaid(ctx context.Context, id uuid.UUID, paid bool) error {
	if _, err := s.uc.RequireElevated(ctx); err != nil {
		return err
	}
	err := s.orders.SetPaid(ctx, id, paid)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	return err
}

// Delete removes one order, gated by the ownership policy.
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	o, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.uc.CheckOwnership(ctx, o.UserID); err != nil {
		return err
	}
	return s.orders.Delete(ctx, o.ID)
}

// DeleteBatch removes several orders. Every order is ownership
// checked before anything is deleted, so a single forbidden id
// rejects the whole batch.
func (s *OrderService) DeleteBatch(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no order ids supplied", ErrInvalidArgument)
	}
	for _, id := range ids {
		o, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		if _, err := s.uc.CheckOwnership(ctx, o.UserID); err != nil {
			return err
		}
	}
	return s.orders.DeleteByIDs(ctx, ids)
}

// price resolves every (menuItemID, quantity) entry against the
// current menu and returns the line items plus the total, rounded to
// two decimals. One unknown id or non-positive quantity fails the
// whole operation; no partial order is ever created.
func (s *OrderService) price(ctx context.Context, quantities map[int64]int) ([]model.OrderItem, float64, error) {
	if len(quantities) == 0 {
		return nil, 0, fmt.Errorf("%w: order must contain at least one menu item", ErrInvalidArgument)
	}
	items := make([]model.OrderItem, 0, len(quantities))
	var total float64
	for itemID, qty := range quantities {
		if qty <= 0 {
			return nil, 0, fmt.Errorf("%w: quantity for menu item %d must be positive", ErrInvalidArgument, itemID)
		}
		m, err := s.menu.GetByID(ctx, itemID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, fmt.Errorf("%w: invalid menu item id %d", ErrInvalidArgument, itemID)
		}
		if err != nil {
			return nil, 0, err
		}
		items = append(items, model.OrderItem{MenuItemID: m.ID, Quantity: qty})
		total += m.Price * float64(qty)
	}
	return items, round2(total), nil
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *OrderService) load(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	return o, err
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/iliyamo/food-squad/internal/model"
)

// MenuItemStore is the menu item repository surface the service
// depends on.
type MenuItemStore interface {
	Create(ctx context.Context, m *model.MenuItem) error
	GetByID(ctx context.Context, id int64) (*model.MenuItem, error)
	List(ctx context.Context, category model.MenuItemCategory, page, size int) ([]*model.MenuItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.MenuItem, error)
	Update(ctx context.Context, m *model.MenuItem) error
	Delete(ctx context.Context, id int64) error
	DeleteByIDs(ctx context.Context, ids []int64) error
}

// MenuItemInput is the client-supplied shape of a menu item.
type MenuItemInput struct {
	Title       string
	Description string
	ImageURL    string
	DefaultItem bool
	Price       float64
	Category    string
}

// MenuItemService implements the menu item CRUD surface. Browsing is
// public; mutation is gated by the ownership policy.
type MenuItemService struct {
	items MenuItemStore
	uc    *UserContext
}

func NewMenuItemService(items MenuItemStore, uc *UserContext) *MenuItemService {
	return &MenuItemService{items: items, uc: uc}
}

// Create stores a new menu item owned by the current user.
func (s *MenuItemService) Create(ctx context.Context, in MenuItemInput) (*model.MenuItem, error) {
	cur, err := s.uc.Current(ctx)
	if err != nil {
		return nil, err
	}
	m, err := s.build(in)
	if err != nil {
		return nil, err
	}
	m.UserID = cur.ID
	if err := s.items.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Get returns one menu item. Public: browsing needs no identity.
func (s *MenuItemService) Get(ctx context.Context, id int64) (*model.MenuItem, error) {
	return s.load(ctx, id)
}

// List returns a page of menu items, optionally filtered by
// category. Public.
func (s *MenuItemService) List(ctx context.Context, category string, page, size int) ([]*model.MenuItem, error) {
	cat := model.MenuItemCategory("")
	if category != "" {
		parsed, err := model.ParseCategory(category)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		cat = parsed
	}
	return s.items.List(ctx, cat, page, size)
}

// ListByUser returns every menu item a user offers. Public.
func (s *MenuItemService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.MenuItem, error) {
	return s.items.ListByUser(ctx, userID)
}

// Update rewrites a menu item, gated by the ownership policy. The
// new price applies to future orders only; totals captured on past
// orders keep the price in effect when they were placed.
func (s *MenuItemService) Update(ctx context.Context, id int64, in MenuItemInput) (*model.MenuItem, error) {
	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.uc.CheckOwnership(ctx, existing.UserID); err != nil {
		return nil, err
	}
	m, err := s.build(in)
	if err != nil {
		return nil, err
	}
	m.ID = existing.ID
	m.UserID = existing.UserID
	m.CreatedAt = existing.CreatedAt
	if err := s.items.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes a menu item, clearing order line-item references
// first (the repository does both inside one transaction).
func (s *MenuItemService) Delete(ctx context.Context, id int64) error {
	m, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.uc.CheckOwnership(ctx, m.UserID); err != nil {
		return err
	}
	return s.items.Delete(ctx, m.ID)
}

// DeleteBatch removes several menu items after ownership checking
// every one of them.
func (s *MenuItemService) DeleteBatch(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no menu item ids supplied", ErrInvalidArgument)
	}
	for _, id := range ids {
		m, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		if _, err := s.uc.CheckOwnership(ctx, m.UserID); err != nil {
			return err
		}
	}
	return s.items.DeleteByIDs(ctx, ids)
}

func (s *MenuItemService) build(in MenuItemInput) (*model.MenuItem, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	if in.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrInvalidArgument)
	}
	cat, err := model.ParseCategory(in.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	imageURL := in.ImageURL
	if imageURL == "" {
		imageURL = "https://example.com/default-menu-item-image.png"
	}
	return &model.MenuItem{
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    imageURL,
		DefaultItem: in.DefaultItem,
		Price:       in.Price,
		Category:    cat,
	}, nil
}

func (s *MenuItemService) load(ctx context.Context, id int64) (*model.MenuItem, error) {
	m, err := s.items.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: menu item %d", ErrNotFound, id)
	}
	return m, err
}

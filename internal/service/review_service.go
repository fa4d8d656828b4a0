package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/iliyamo/food-squad/internal/model"
)

// ReviewStore is the review repository surface the service depends on.
type ReviewStore interface {
	Create(ctx context.Context, rv *model.Review) error
	GetByID(ctx context.Context, id int64) (*model.Review, error)
	ListByMenuItem(ctx context.Context, menuItemID int64) ([]*model.Review, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Review, error)
	Update(ctx context.Context, rv *model.Review) error
	Delete(ctx context.Context, id int64) error
}

// ReviewService implements the review CRUD surface.
type ReviewService struct {
	reviews ReviewStore
	menu    MenuItemGetter
	uc      *UserContext
}

func NewReviewService(reviews ReviewStore, menu MenuItemGetter, uc *UserContext) *ReviewService {
	return &ReviewService{reviews: reviews, menu: menu, uc: uc}
}

// Create stores a review by the current user about an existing menu
// item.
func (s *ReviewService) Create(ctx context.Context, menuItemID int64, comment string, rating int) (*model.Review, error) {
	if _, err := s.menu.GetByID(ctx, menuItemID); errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: menu item %d", ErrNotFound, menuItemID)
	} else if err != nil {
		return nil, err
	}
	cur, err := s.uc.Current(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateReview(comment, rating); err != nil {
		return nil, err
	}
	rv := &model.Review{
		UserID:     cur.ID,
		MenuItemID: menuItemID,
		Comment:    comment,
		Rating:     rating,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

// ListByMenuItem returns a menu item's reviews. Public.
func (s *ReviewService) ListByMenuItem(ctx context.Context, menuItemID int64) ([]*model.Review, error) {
	return s.reviews.ListByMenuItem(ctx, menuItemID)
}

// ListByUser returns a user's reviews, gated by the ownership
// policy.
func (s *ReviewService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Review, error) {
	if _, err := s.uc.CheckOwnership(ctx, userID); err != nil {
		return nil, err
	}
	return s.reviews.ListByUser(ctx, userID)
}

// Update rewrites a review's comment and rating, gated by the
// ownership policy.
func (s *ReviewService) Update(ctx context.Context, id int64, comment string, rating int) (*model.Review, error) {
	rv, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.uc.CheckOwnership(ctx, rv.UserID); err != nil {
		return nil, err
	}
	if err := validateReview(comment, rating); err != nil {
		return nil, err
	}
	rv.Comment = comment
	rv.Rating = rating
	if err := s.reviews.Update(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

// Delete removes a review, gated by the ownership policy.
func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	rv, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.uc.CheckOwnership(ctx, rv.UserID); err != nil {
		return err
	}
	return s.reviews.Delete(ctx, rv.ID)
}

func validateReview(comment string, rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidArgument)
	}
	if len(comment) > 1000 {
		return fmt.Errorf("%w: comment exceeds 1000 characters", ErrInvalidArgument)
	}
	return nil
}

func (s *ReviewService) load(ctx context.Context, id int64) (*model.Review, error) {
	rv, err := s.reviews.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: review %d", ErrNotFound, id)
	}
	return rv, err
}

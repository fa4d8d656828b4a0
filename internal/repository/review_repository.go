package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/iliyamo/food-squad/internal/model"
)

const reviewColumns = "id,user_id,menu_item_id,comment,rating,created_at"

// ReviewRepo persists rows of the 'reviews' table.
type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// Create inserts a review and populates the generated ID.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (user_id, menu_item_id, comment, rating) VALUES (?,?,?,?)",
		rv.UserID.String(), rv.MenuItemID, rv.Comment, rv.Rating)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = id
	return nil
}

// GetByID fetches a review; sql.ErrNoRows when absent.
func (r *ReviewRepo) GetByID(ctx context.Context, id int64) (*model.Review, error) {
	return scanReview(r.DB.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE id=? LIMIT 1", id))
}

// ListByMenuItem returns every review of a menu item, newest first.
func (r *ReviewRepo) ListByMenuItem(ctx context.Context, menuItemID int64) ([]*model.Review, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE menu_item_id=? ORDER BY created_at DESC, id", menuItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReviews(rows)
}

// ListByUser returns every review written by a user, newest first.
func (r *ReviewRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Review, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE user_id=? ORDER BY created_at DESC, id", userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReviews(rows)
}

// Update rewrites the comment and rating of a review.
func (r *ReviewRepo) Update(ctx context.Context, rv *model.Review) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE reviews SET comment=?, rating=? WHERE id=?",
		rv.Comment, rv.Rating, rv.ID)
	return err
}

// Delete removes a review; sql.ErrNoRows when it was already gone.
func (r *ReviewRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM reviews WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanReview(row rowScanner) (*model.Review, error) {
	var (
		rv  model.Review
		uid string
	)
	err := row.Scan(&rv.ID, &uid, &rv.MenuItemID, &rv.Comment, &rv.Rating, &rv.CreatedAt)
	if err != nil {
		return nil, err
	}
	if rv.UserID, err = uuid.Parse(uid); err != nil {
		return nil, err
	}
	return &rv, nil
}

func collectReviews(rows *sql.Rows) ([]*model.Review, error) {
	var out []*model.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

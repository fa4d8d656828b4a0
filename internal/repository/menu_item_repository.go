package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/iliyamo/food-squad/internal/model"
)

const menuItemColumns = "id,user_id,title,description,image_url,default_item,price,category,created_at"

// MenuItemRepo persists rows of the 'menu_items' table.
type MenuItemRepo struct{ DB *sql.DB }

func NewMenuItemRepo(db *sql.DB) *MenuItemRepo { return &MenuItemRepo{DB: db} }

// Create inserts a menu item and populates the generated ID.
func (r *MenuItemRepo) Create(ctx context.Context, m *model.MenuItem) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO menu_items (user_id, title, description, image_url, default_item, price, category) VALUES (?,?,?,?,?,?,?)",
		m.UserID.String(), m.Title, m.Description, m.ImageURL, m.DefaultItem, m.Price, string(m.Category))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

// GetByID fetches a menu item; sql.ErrNoRows when absent.
func (r *MenuItemRepo) GetByID(ctx context.Context, id int64) (*model.MenuItem, error) {
	return scanMenuItem(r.DB.QueryRowContext(ctx,
		"SELECT "+menuItemColumns+" FROM menu_items WHERE id=? LIMIT 1", id))
}

// List returns a page of menu items, optionally narrowed to one
// category. page is zero-based.
func (r *MenuItemRepo) List(ctx context.Context, category model.MenuItemCategory, page, size int) ([]*model.MenuItem, error) {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 1
	}
	q := "SELECT " + menuItemColumns + " FROM menu_items"
	args := []any{}
	if category != "" {
		q += " WHERE category=?"
		args = append(args, string(category))
	}
	q += " ORDER BY id LIMIT ? OFFSET ?"
	args = append(args, size, page*size)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMenuItems(rows)
}

// ListByUser returns every menu item owned by a user, unpaginated.
// The aggregate delete path walks this list in full.
func (r *MenuItemRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+menuItemColumns+" FROM menu_items WHERE user_id=? ORDER BY id", userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMenuItems(rows)
}

// Update rewrites the mutable columns of a menu item.
func (r *MenuItemRepo) Update(ctx context.Context, m *model.MenuItem) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE menu_items SET title=?, description=?, image_url=?, default_item=?, price=?, category=? WHERE id=?",
		m.Title, m.Description, m.ImageURL, m.DefaultItem, m.Price, string(m.Category), m.ID)
	return err
}

// Delete removes a menu item inside one transaction, first clearing
// every order_items row that references it. Orders belonging to any
// user may hold such references; leaving them behind would break
// foreign-key consistency.
func (r *MenuItemRepo) Delete(ctx context.Context, id int64) error {
	return r.deleteMany(ctx, []int64{id})
}

// DeleteByIDs removes a batch of menu items with the same
// reference-then-item ordering, all in one transaction.
func (r *MenuItemRepo) DeleteByIDs(ctx context.Context, ids []int64) error {
	return r.deleteMany(ctx, ids)
}

func (r *MenuItemRepo) deleteMany(ctx context.Context, ids []int64) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	for _, id := range ids {
		if _, err = tx.ExecContext(ctx,
			"DELETE FROM order_items WHERE menu_item_id=?", id); err != nil {
			return err
		}
		var res sql.Result
		if res, err = tx.ExecContext(ctx,
			"DELETE FROM menu_items WHERE id=?", id); err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			err = sql.ErrNoRows
			return err
		}
	}
	return nil
}

func scanMenuItem(row rowScanner) (*model.MenuItem, error) {
	var (
		m        model.MenuItem
		uid, cat string
	)
	err := row.Scan(&m.ID, &uid, &m.Title, &m.Description, &m.ImageURL, &m.DefaultItem, &m.Price, &cat, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	if m.UserID, err = uuid.Parse(uid); err != nil {
		return nil, err
	}
	if m.Category, err = model.ParseCategory(cat); err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMenuItems(rows *sql.Rows) ([]*model.MenuItem, error) {
	var out []*model.MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

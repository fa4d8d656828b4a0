package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/food-squad/internal/model"
)

const orderColumns = "id,user_id,total_cost,status,paid,created_at"

// OrderRepo persists rows of the 'orders' and 'order_items' tables.
// Line items always travel with their order: Create and Update
// replace them atomically alongside the order row.
type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

// Create inserts an order and its line items in one transaction.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) (err error) {
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

	if _, err = tx.ExecContext(ctx,
		"INSERT INTO orders (id, user_id, total_cost, status, paid) VALUES (?,?,?,?,?)",
		o.ID.String(), o.UserID.String(), o.TotalCost, string(o.Status), o.Paid); err != nil {
		return err
	}
	err = insertOrderItems(ctx, tx, o)
	return err
}

// Update rewrites the order row and replaces its line items in one
// transaction. The caller has already recomputed TotalCost.
func (r *OrderRepo) Update(ctx context.Context, o *model.Order) (err error) {
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

	var res sql.Result
	if res, err = tx.ExecContext(ctx,
		"UPDATE orders SET total_cost=?, status=?, paid=? WHERE id=?",
		o.TotalCost, string(o.Status), o.Paid, o.ID.String()); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err = tx.QueryRowContext(ctx,
			"SELECT 1 FROM orders WHERE id=?", o.ID.String()).Scan(&one); err != nil {
			return err
		}
	}
	if _, err = tx.ExecContext(ctx,
		"DELETE FROM order_items WHERE order_id=?", o.ID.String()); err != nil {
		return err
	}
	err = insertOrderItems(ctx, tx, o)
	return err
}

func insertOrderItems(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		res, err := tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, menu_item_id, quantity) VALUES (?,?,?)",
			o.ID.String(), it.MenuItemID, it.Quantity)
		if err != nil {
			return err
		}
		if id, err := res.LastInsertId(); err == nil {
			it.ID = id
		}
	}
	return nil
}

// GetByID fetches an order with its line items; sql.ErrNoRows when
// the order is absent.
func (r *OrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	o, err := scanOrder(r.DB.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id=? LIMIT 1", id.String()))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// ListAll returns a page of all orders, newest first.
func (r *OrderRepo) ListAll(ctx context.Context, page, size int) ([]*model.Order, error) {
	return r.list(ctx,
		"SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC, id LIMIT ? OFFSET ?",
		clampSize(size), clampPage(page)*clampSize(size))
}

// ListByUser returns a page of one user's orders, newest first.
// size <= 0 means no limit; the aggregate delete path uses that to
// walk everything.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]*model.Order, error) {
	if size <= 0 {
		return r.list(ctx,
			"SELECT "+orderColumns+" FROM orders WHERE user_id=? ORDER BY created_at DESC, id",
			userID.String())
	}
	return r.list(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE user_id=? ORDER BY created_at DESC, id LIMIT ? OFFSET ?",
		userID.String(), clampSize(size), clampPage(page)*clampSize(size))
}

// CountByUser returns the number of orders a user owns.
func (r *OrderRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM orders WHERE user_id=?", userID.String()).Scan(&n)
	return n, err
}

// SetPaid flips the paid flag; sql.ErrNoRows when the order is absent.
func (r *OrderRepo) SetPaid(ctx context.Context, id uuid.UUID, paid bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE orders SET paid=? WHERE id=?", paid, id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM orders WHERE id=?", id.String()).Scan(&one); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an order and its line items in one transaction.
func (r *OrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DeleteByIDs(ctx, []uuid.UUID{id})
}

// DeleteByIDs removes a batch of orders and their line items.
func (r *OrderRepo) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (err error) {
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
			"DELETE FROM order_items WHERE order_id=?", id.String()); err != nil {
			return err
		}
		var res sql.Result
		if res, err = tx.ExecContext(ctx,
			"DELETE FROM orders WHERE id=?", id.String()); err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			err = sql.ErrNoRows
			return err
		}
	}
	return nil
}

func (r *OrderRepo) list(ctx context.Context, q string, args ...any) ([]*model.Order, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range out {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *OrderRepo) loadItems(ctx context.Context, o *model.Order) error {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, order_id, menu_item_id, quantity FROM order_items WHERE order_id=? ORDER BY id",
		o.ID.String())
	if err != nil {
		return err
	}
	defer rows.Close()

	o.Items = o.Items[:0]
	for rows.Next() {
		var (
			it  model.OrderItem
			oid string
		)
		if err := rows.Scan(&it.ID, &oid, &it.MenuItemID, &it.Quantity); err != nil {
			return err
		}
		if it.OrderID, err = uuid.Parse(oid); err != nil {
			return err
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		o           model.Order
		id, uid, st string
	)
	err := row.Scan(&id, &uid, &o.TotalCost, &st, &o.Paid, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	if o.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if o.UserID, err = uuid.Parse(uid); err != nil {
		return nil, err
	}
	if o.Status, err = model.ParseOrderStatus(strings.ToUpper(st)); err != nil {
		return nil, err
	}
	return &o, nil
}

func clampPage(p int) int {
	if p < 0 {
		return 0
	}
	return p
}

func clampSize(s int) int {
	if s < 1 {
		return 1
	}
	return s
}

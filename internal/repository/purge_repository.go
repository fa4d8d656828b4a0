package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// PurgeRepo exposes the transactional unit of work used to delete a
// user together with everything the user owns. The ordering of the
// steps lives in the service layer; this type only provides the
// individual statements and the commit/rollback boundary.
type PurgeRepo struct{ DB *sql.DB }

func NewPurgeRepo(db *sql.DB) *PurgeRepo { return &PurgeRepo{DB: db} }

// Begin opens the transaction for one cascading delete. Every step
// runs on the same *sql.Tx, so a failure at any point rolls back the
// whole sequence and no partial deletion is ever observable.
func (r *PurgeRepo) Begin(ctx context.Context) (*PurgeTx, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &PurgeTx{tx: tx}, nil
}

// PurgeTx is one in-flight cascading delete.
type PurgeTx struct{ tx *sql.Tx }

func (p *PurgeTx) Commit() error   { return p.tx.Commit() }
func (p *PurgeTx) Rollback() error { return p.tx.Rollback() }

// DeleteReviewsByUser removes every review the user wrote.
func (p *PurgeTx) DeleteReviewsByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := p.tx.ExecContext(ctx,
		"DELETE FROM reviews WHERE user_id=?", userID.String())
	return err
}

// DeleteOrdersByUser removes the user's orders and their line items.
func (p *PurgeTx) DeleteOrdersByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := p.tx.ExecContext(ctx,
		`DELETE oi FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 WHERE o.user_id = ?`, userID.String()); err != nil {
		return err
	}
	_, err := p.tx.ExecContext(ctx,
		"DELETE FROM orders WHERE user_id=?", userID.String())
	return err
}

// MenuItemIDsByUser lists the ids of every menu item the user owns.
func (p *PurgeTx) MenuItemIDsByUser(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	rows, err := p.tx.QueryContext(ctx,
		"SELECT id FROM menu_items WHERE user_id=? ORDER BY id", userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteMenuItemRefs clears every order line item referencing the
// menu item, including lines inside other users' orders. Those
// references must go before the item itself or the foreign key
// breaks.
func (p *PurgeTx) DeleteMenuItemRefs(ctx context.Context, menuItemID int64) error {
	_, err := p.tx.ExecContext(ctx,
		"DELETE FROM order_items WHERE menu_item_id=?", menuItemID)
	return err
}

// DeleteMenuItem removes one menu item row and its reviews.
func (p *PurgeTx) DeleteMenuItem(ctx context.Context, menuItemID int64) error {
	if _, err := p.tx.ExecContext(ctx,
		"DELETE FROM reviews WHERE menu_item_id=?", menuItemID); err != nil {
		return err
	}
	_, err := p.tx.ExecContext(ctx,
		"DELETE FROM menu_items WHERE id=?", menuItemID)
	return err
}

// DeleteSessionsByUser removes the user's session row, if any.
func (p *PurgeTx) DeleteSessionsByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := p.tx.ExecContext(ctx,
		"DELETE FROM sessions WHERE user_id=?", userID.String())
	return err
}

// DeleteUser removes the user row itself, last.
func (p *PurgeTx) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	res, err := p.tx.ExecContext(ctx,
		"DELETE FROM users WHERE id=?", userID.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

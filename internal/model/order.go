package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus tracks the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// ParseOrderStatus converts a status name case-insensitively.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case OrderPending:
		return OrderPending, nil
	case OrderCompleted:
		return OrderCompleted, nil
	case OrderCancelled:
		return OrderCancelled, nil
	}
	return OrderPending, fmt.Errorf("unknown order status %q", s)
}

// Order mirrors the `orders` table. TotalCost is derived: it is
// recomputed from current menu item prices whenever the order is
// created or its line items are replaced, and is never accepted
// from client input.
//
// Fields:
//  ID        – primary key identifier (UUID stored as CHAR(36)).
//  UserID    – owner of the order.
//  TotalCost – snapshot of Σ(price × quantity), rounded to 2 decimals.
//  Status    – fulfilment state.
//  Paid      – whether payment has been registered.
//  CreatedAt – timestamp of creation.
//  Items     – line items; loaded with the order by the repository.
type Order struct {
	ID        uuid.UUID   // orders.id
	UserID    uuid.UUID   // orders.user_id
	TotalCost float64     // orders.total_cost
	Status    OrderStatus // orders.status
	Paid      bool        // orders.paid
	CreatedAt time.Time   // orders.created_at
	Items     []OrderItem
}

// OrderItem mirrors the `order_items` table and links an order to a
// menu item with a quantity. The menu item reference is captured at
// order creation time.
//
// Fields:
//  ID         – auto-increment primary key.
//  OrderID    – owning order.
//  MenuItemID – referenced menu item.
//  Quantity   – number of units ordered.
type OrderItem struct {
	ID         int64     // order_items.id
	OrderID    uuid.UUID // order_items.order_id
	MenuItemID int64     // order_items.menu_item_id
	Quantity   int       // order_items.quantity
}

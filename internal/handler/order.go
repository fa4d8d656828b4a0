package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/food-squad/internal/auth"
	"github.com/iliyamo/food-squad/internal/queue"
	"github.com/iliyamo/food-squad/internal/service"
)

// OrderHandler bundles dependencies for the order endpoints.
type OrderHandler struct {
	Orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{Orders: orders}
}

// orderReq maps menu item ids to quantities. JSON object keys arrive
// as strings; Go decodes them into the int64 keys directly.
type orderReq struct {
	Items map[int64]int `json:"items"`
}

type orderIDsReq struct {
	IDs []string `json:"ids"`
}

// Create prices and stores a new order, then fires the order.placed
// event best-effort.
func (h *OrderHandler) Create(c echo.Context) error {
	var req orderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	o, err := h.Orders.Create(ctx, req.Items)
	if err != nil {
		return respondError(c, err)
	}

	email := ""
	if ident, ok := auth.IdentityFrom(c.Request().Context()); ok {
		email = ident.Email
	}
	ev := queue.OrderPlacedEvent{
		OrderID:   o.ID.String(),
		UserID:    o.UserID.String(),
		Email:     email,
		TotalCost: o.TotalCost,
		Status:    string(o.Status),
		PlacedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()
		_ = queue.PublishOrderPlaced(pubCtx, ev)
	}()

	return c.JSON(http.StatusCreated, toOrderResp(o))
}

// Get returns one order.
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	o, err := h.Orders.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResp(o))
}

// List returns a page of every order.
func (h *OrderHandler) List(c echo.Context) error {
	page, size := pageParams(c, 20)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	orders, err := h.Orders.ListAll(ctx, page, size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResps(orders))
}

// ListByUser returns a page of one user's orders.
func (h *OrderHandler) ListByUser(c echo.Context) error {
	userID, err := pathUUID(c, "userId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	page, size := pageParams(c, 20)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	orders, err := h.Orders.ListByUser(ctx, userID, page, size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResps(orders))
}

// Update replaces an order's line items and reprices it.
func (h *OrderHandler) Update(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var req orderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	o, err := h.Orders.Update(ctx, id, req.Items)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResp(o))
}

// SetPaid registers or clears payment on an order.
func (h *OrderHandler) SetPaid(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var req struct {
		Paid bool `json:"paid"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Orders.SetPaid(ctx, id, req.Paid); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes one order.
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Orders.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteBatch removes several orders in one transaction.
func (h *OrderHandler) DeleteBatch(c echo.Context) error {
	var req orderIDsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id " + raw})
		}
		ids = append(ids, id)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Orders.DeleteBatch(ctx, ids); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

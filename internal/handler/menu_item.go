package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/food-squad/internal/service"
)

// MenuItemHandler bundles dependencies for the menu item endpoints.
type MenuItemHandler struct {
	Menu *service.MenuItemService
}

func NewMenuItemHandler(menu *service.MenuItemService) *MenuItemHandler {
	return &MenuItemHandler{Menu: menu}
}

type menuItemReq struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	DefaultItem bool    `json:"defaultItem"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}

func (r menuItemReq) input() service.MenuItemInput {
	return service.MenuItemInput{
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		DefaultItem: r.DefaultItem,
		Price:       r.Price,
		Category:    r.Category,
	}
}

type idsReq struct {
	IDs []int64 `json:"ids"`
}

// Create stores a new menu item owned by the caller.
func (h *MenuItemHandler) Create(c echo.Context) error {
	var req menuItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	m, err := h.Menu.Create(ctx, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toMenuItemResp(m))
}

// Get returns one menu item.
func (h *MenuItemHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid menu item id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	m, err := h.Menu.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toMenuItemResp(m))
}

// List returns a page of menu items, optionally filtered with
// ?category=.
func (h *MenuItemHandler) List(c echo.Context) error {
	page, size := pageParams(c, 20)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Menu.List(ctx, c.QueryParam("category"), page, size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toMenuItemResps(items))
}

// ListByUser returns every menu item a user offers.
func (h *MenuItemHandler) ListByUser(c echo.Context) error {
	userID, err := pathUUID(c, "userId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Menu.ListByUser(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toMenuItemResps(items))
}

// Update rewrites a menu item.
func (h *MenuItemHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid menu item id"})
	}
	var req menuItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	m, err := h.Menu.Update(ctx, id, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toMenuItemResp(m))
}

// Delete removes one menu item.
func (h *MenuItemHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid menu item id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Menu.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteBatch removes several menu items in one transaction.
func (h *MenuItemHandler) DeleteBatch(c echo.Context) error {
	var req idsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Menu.DeleteBatch(ctx, req.IDs); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

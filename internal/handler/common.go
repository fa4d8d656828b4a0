// Package handler contains the Echo endpoints. Handlers bind DTOs,
// bound every store call with a timeout, delegate to the services and
// translate the service error taxonomy to HTTP statuses.
package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/food-squad/internal/auth"
	"github.com/iliyamo/food-squad/internal/model"
	"github.com/iliyamo/food-squad/internal/repository"
	"github.com/iliyamo/food-squad/internal/service"
)

// dbTimeout bounds a single request's store work.
const dbTimeout = 5 * time.Second

// respondError maps a service error onto the wire. Messages of 4xx
// errors are safe to expose: the services build them from the
// sentinel plus a short reason. Everything unclassified is a 500 with
// a generic body.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, auth.ErrMalformedToken):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidOperation), errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "request timed out, retry later"})
	default:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// pageParams reads ?page= and ?size= with the given default size.
func pageParams(c echo.Context, defaultSize int) (page, size int) {
	page = atoiDefault(c.QueryParam("page"), 0)
	size = atoiDefault(c.QueryParam("size"), defaultSize)
	return page, size
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// pathUUID parses a :id style path parameter as a UUID.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errors.New("invalid id")
	}
	return id, nil
}

// ----- shared response shapes -----

type userResp struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	ImageURL    string `json:"imageUrl"`
	PhoneNumber string `json:"phoneNumber"`
	OrdersCount *int64 `json:"ordersCount,omitempty"`
}

func toUserResp(u *model.User) userResp {
	return userResp{
		ID:          u.ID.String(),
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role.String(),
		ImageURL:    u.ImageURL,
		PhoneNumber: u.PhoneNumber,
	}
}

func toProfileResp(p service.UserProfile) userResp {
	r := toUserResp(p.User)
	n := p.OrdersCount
	r.OrdersCount = &n
	return r
}

type menuItemResp struct {
	ID          int64   `json:"id"`
	UserID      string  `json:"userId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	DefaultItem bool    `json:"defaultItem"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}

func toMenuItemResp(m *model.MenuItem) menuItemResp {
	return menuItemResp{
		ID:          m.ID,
		UserID:      m.UserID.String(),
		Title:       m.Title,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		DefaultItem: m.DefaultItem,
		Price:       m.Price,
		Category:    string(m.Category),
	}
}

func toMenuItemResps(items []*model.MenuItem) []menuItemResp {
	out := make([]menuItemResp, 0, len(items))
	for _, m := range items {
		out = append(out, toMenuItemResp(m))
	}
	return out
}

type orderItemResp struct {
	MenuItemID int64 `json:"menuItemId"`
	Quantity   int   `json:"quantity"`
}

type orderResp struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	TotalCost float64         `json:"totalCost"`
	Status    string          `json:"status"`
	Paid      bool            `json:"paid"`
	CreatedAt time.Time       `json:"createdAt"`
	Items     []orderItemResp `json:"items"`
}

func toOrderResp(o *model.Order) orderResp {
	items := make([]orderItemResp, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResp{MenuItemID: it.MenuItemID, Quantity: it.Quantity})
	}
	return orderResp{
		ID:        o.ID.String(),
		UserID:    o.UserID.String(),
		TotalCost: o.TotalCost,
		Status:    string(o.Status),
		Paid:      o.Paid,
		CreatedAt: o.CreatedAt,
		Items:     items,
	}
}

func toOrderResps(orders []*model.Order) []orderResp {
	out := make([]orderResp, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResp(o))
	}
	return out
}

type reviewResp struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"userId"`
	MenuItemID int64     `json:"menuItemId"`
	Comment    string    `json:"comment"`
	Rating     int       `json:"rating"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toReviewResp(rv *model.Review) reviewResp {
	return reviewResp{
		ID:         rv.ID,
		UserID:     rv.UserID.String(),
		MenuItemID: rv.MenuItemID,
		Comment:    rv.Comment,
		Rating:     rv.Rating,
		CreatedAt:  rv.CreatedAt,
	}
}

func toReviewResps(reviews []*model.Review) []reviewResp {
	out := make([]reviewResp, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, toReviewResp(rv))
	}
	return out
}

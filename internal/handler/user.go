package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/food-squad/internal/queue"
	"github.com/iliyamo/food-squad/internal/service"
)

// UserHandler bundles dependencies for the user endpoints.
type UserHandler struct {
	Users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

type userUpdateReq struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	ImageURL    string `json:"imageUrl"`
	PhoneNumber string `json:"phoneNumber"`
}

// List returns a page of user profiles with order counts.
func (h *UserHandler) List(c echo.Context) error {
	page, size := pageParams(c, 20)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	profiles, err := h.Users.List(ctx, page, size)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]userResp, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toProfileResp(p))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one user's profile.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := h.Users.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toProfileResp(*p))
}

// Update rewrites a user's profile, enforcing the role guards.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req userUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := h.Users.Update(ctx, id, service.UserUpdate{
		Name:        req.Name,
		Role:        req.Role,
		ImageURL:    req.ImageURL,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toProfileResp(*p))
}

// Delete removes a user and everything the user owns. The cascade
// touches four tables inside one transaction, so it gets a longer
// budget than ordinary requests.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	// Load first so the event still has the email after the rows are
	// gone. The same ownership gate guards the read and the delete.
	p, err := h.Users.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Users.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}

	ev := queue.UserDeletedEvent{
		UserID:    p.User.ID.String(),
		Email:     p.User.Email,
		DeletedAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()
		_ = queue.PublishUserDeleted(pubCtx, ev)
	}()

	return c.NoContent(http.StatusNoContent)
}

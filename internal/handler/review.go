package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/food-squad/internal/service"
)

// ReviewHandler bundles dependencies for the review endpoints.
type ReviewHandler struct {
	Reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews}
}

type reviewCreateReq struct {
	MenuItemID int64  `json:"menuItemId"`
	Comment    string `json:"comment"`
	Rating     int    `json:"rating"`
}

type reviewUpdateReq struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

// Create stores a review about a menu item.
func (h *ReviewHandler) Create(c echo.Context) error {
	var req reviewCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rv, err := h.Reviews.Create(ctx, req.MenuItemID, req.Comment, req.Rating)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toReviewResp(rv))
}

// ListByMenuItem returns a menu item's reviews.
func (h *ReviewHandler) ListByMenuItem(c echo.Context) error {
	menuItemID, err := strconv.ParseInt(c.Param("menuItemId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid menu item id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	reviews, err := h.Reviews.ListByMenuItem(ctx, menuItemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toReviewResps(reviews))
}

// ListByUser returns a user's reviews.
func (h *ReviewHandler) ListByUser(c echo.Context) error {
	userID, err := pathUUID(c, "userId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	reviews, err := h.Reviews.ListByUser(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toReviewResps(reviews))
}

// Update rewrites a review's comment and rating.
func (h *ReviewHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	var req reviewUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rv, err := h.Reviews.Update(ctx, id, req.Comment, req.Rating)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toReviewResp(rv))
}

// Delete removes a review.
func (h *ReviewHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Reviews.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

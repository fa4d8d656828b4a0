// Package router maps HTTP routes onto the handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/food-squad/internal/handler"
)

// Handlers carries every handler the router wires up.
type Handlers struct {
	Auth    *handler.AuthHandler
	Users   *handler.UserHandler
	Menu    *handler.MenuItemHandler
	Orders  *handler.OrderHandler
	Reviews *handler.ReviewHandler
}

// PublicPrefixes are the paths the authenticator skips entirely:
// sign-up, sign-in, token refresh and the health check. Everything
// else passes through identity reconstruction.
var PublicPrefixes = []string{
	"/api/auth/signup",
	"/api/auth/signin",
	"/api/token",
	"/healthz",
}

// Register wires all routes. The authenticator middleware is expected
// to be installed globally on the Echo instance before this runs; it
// skips PublicPrefixes on its own.
func Register(e *echo.Echo, h Handlers) {
	e.GET("/healthz", handler.Health)

	auth := e.Group("/api/auth")
	auth.POST("/signup", h.Auth.Signup)
	auth.POST("/signin", h.Auth.Signin)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/current-user", h.Auth.CurrentUser)

	// The refresh endpoint lives under its own prefix so the
	// authenticator never touches the expired access token that
	// usually accompanies a refresh call.
	e.POST("/api/token/refresh-token", h.Auth.Refresh)

	users := e.Group("/api/users")
	users.GET("", h.Users.List)
	users.GET("/:id", h.Users.Get)
	users.PUT("/:id", h.Users.Update)
	users.DELETE("/:id", h.Users.Delete)

	menu := e.Group("/api/menu-items")
	menu.POST("", h.Menu.Create)
	menu.GET("", h.Menu.List)
	menu.GET("/:id", h.Menu.Get)
	menu.GET("/by-user/:userId", h.Menu.ListByUser)
	menu.PUT("/:id", h.Menu.Update)
	menu.DELETE("/:id", h.Menu.Delete)
	menu.DELETE("", h.Menu.DeleteBatch)

	orders := e.Group("/api/orders")
	orders.POST("", h.Orders.Create)
	orders.GET("", h.Orders.List)
	orders.GET("/:id", h.Orders.Get)
	orders.GET("/by-user/:userId", h.Orders.ListByUser)
	orders.PUT("/:id", h.Orders.Update)
	orders.PATCH("/:id/paid", h.Orders.SetPaid)
	orders.DELETE("/:id", h.Orders.Delete)
	orders.DELETE("", h.Orders.DeleteBatch)

	reviews := e.Group("/api/reviews")
	reviews.POST("", h.Reviews.Create)
	reviews.GET("/by-menu-item/:menuItemId", h.Reviews.ListByMenuItem)
	reviews.GET("/by-user/:userId", h.Reviews.ListByUser)
	reviews.PUT("/:id", h.Reviews.Update)
	reviews.DELETE("/:id", h.Reviews.Delete)
}

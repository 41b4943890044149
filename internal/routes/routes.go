package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/gamerstore/backend/internal/auth"
	"github.com/gamerstore/backend/internal/handler"
	"github.com/gamerstore/backend/internal/middleware"
)

// Deps contains the handlers and middleware inputs for route registration.
type Deps struct {
	Auth       *handler.AuthHandler
	Products   *handler.ProductHandler
	Categories *handler.CategoryHandler
	Carts      *handler.CartHandler
	Orders     *handler.OrderHandler
	Images     *handler.ImageHandler

	Tokens  *auth.TokenService
	Metrics *middleware.Metrics

	// UploadsDir is served statically under /uploads when non-empty.
	UploadsDir string
}

// Register mounts the full API surface on e.
func Register(e *echo.Echo, deps Deps) {
	authn := middleware.Authenticate(deps.Tokens)
	admin := middleware.RequireAdmin()

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
	if deps.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))
	}
	if deps.UploadsDir != "" {
		e.Static("/uploads", deps.UploadsDir)
	}

	api := e.Group("/api")

	// Auth
	api.POST("/auth/register", deps.Auth.Register)
	api.POST("/auth/login", deps.Auth.Login)
	api.GET("/auth/oauth/google", deps.Auth.OAuthLogin)
	api.GET("/auth/oauth/google/callback", deps.Auth.OAuthCallback)
	api.GET("/users/me", deps.Auth.Me, authn)

	// Catalog
	api.GET("/products", deps.Products.List)
	api.GET("/products/:id", deps.Products.Get)
	api.POST("/products", deps.Products.Create, authn, admin)
	api.PUT("/products/:id", deps.Products.Update, authn, admin)
	api.DELETE("/products/:id", deps.Products.Delete, authn, admin)

	api.GET("/categories", deps.Categories.List)
	api.POST("/categories", deps.Categories.Create, authn, admin)
	api.DELETE("/categories/:id", deps.Categories.Delete, authn, admin)

	// Cart
	api.GET("/cart", deps.Carts.Get, authn)
	api.POST("/cart/items", deps.Carts.AddItem, authn)
	api.DELETE("/cart/items/:productId/one", deps.Carts.RemoveOne, authn)
	api.DELETE("/cart/items/:productId", deps.Carts.RemoveItem, authn)
	api.DELETE("/cart/clear", deps.Carts.Clear, authn)

	// Orders
	api.POST("/orders", deps.Orders.Create, authn)
	api.GET("/orders", deps.Orders.ListAll, authn, admin)
	api.GET("/orders/my-orders", deps.Orders.ListMine, authn)
	api.GET("/orders/:id", deps.Orders.Get, authn)
	api.PATCH("/orders/:id/status", deps.Orders.UpdateStatus, authn)

	// Payments. The webhook is unauthenticated: the gateway calls it.
	api.POST("/orders/payment/process", deps.Orders.ProcessPayment, authn)
	api.POST("/orders/:id/preference", deps.Orders.CreatePreference, authn)
	api.POST("/orders/webhook", deps.Orders.Webhook)

	// Images
	api.POST("/images", deps.Images.Upload, authn, admin)
}

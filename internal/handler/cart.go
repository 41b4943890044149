package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gamerstore/backend/internal/domain"
	"github.com/gamerstore/backend/internal/middleware"
)

// CartHandler exposes the authenticated user's shopping cart.
type CartHandler struct {
	carts  domain.CartService
	logger zerolog.Logger
}

// NewCartHandler creates a new CartHandler instance.
func NewCartHandler(carts domain.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{carts: carts, logger: logger}
}

type cartLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int32           `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Stock       int32           `json:"stock"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

type cartResponse struct {
	ID     string             `json:"id"`
	UserID string             `json:"userId"`
	Items  []cartLineResponse `json:"items"`
	Total  decimal.Decimal    `json:"total"`
}

func toCartResponse(summary *domain.CartSummary) cartResponse {
	resp := cartResponse{
		ID:     summary.ID.String(),
		UserID: summary.UserID.String(),
		Items:  make([]cartLineResponse, len(summary.Items)),
		Total:  decimal.Zero,
	}
	for i, line := range summary.Items {
		subtotal := line.UnitPrice.Mul(decimal.NewFromInt32(line.Quantity))
		resp.Items[i] = cartLineResponse{
			ID:          line.ID.String(),
			ProductID:   line.ProductID.String(),
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			Subtotal:    subtotal,
			Stock:       line.Stock,
			ImageURL:    line.ImageURL,
		}
		resp.Total = resp.Total.Add(subtotal)
	}
	return resp
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int32  `json:"quantity" validate:"required,gt=0"`
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c echo.Context) error {
	identity, _ := middleware.IdentityFrom(c)

	summary, err := h.carts.GetCart(c.Request().Context(), identity.UserID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, toCartResponse(summary))
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(c echo.Context) error {
	identity, _ := middleware.IdentityFrom(c)

	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.logger, domain.Invalid("cart.add", "malformed request body"))
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.logger, err)
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return respondError(c, h.logger, domain.Invalid("cart.add", "invalid product id"))
	}

	summary, err := h.carts.AddItem(c.Request().Context(), identity.UserID, productID, req.Quantity)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, toCartResponse(summary))
}

// RemoveOne handles DELETE /api/cart/items/:productId/one.
func (h *CartHandler) RemoveOne(c echo.Context) error {
	identity, _ := middleware.IdentityFrom(c)

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		return respondError(c, h.logger, domain.Invalid("cart.remove_one", "invalid product id"))
	}

	summary, err := h.carts.RemoveOne(c.Request().Context(), identity.UserID, productID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, toCartResponse(summary))
}

// RemoveItem handles DELETE /api/cart/items/:productId.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	identity, _ := middleware.IdentityFrom(c)

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		return respondError(c, h.logger, domain.Invalid("cart.remove", "invalid product id"))
	}

	summary, err := h.carts.RemoveItem(c.Request().Context(), identity.UserID, productID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, toCartResponse(summary))
}

// Clear handles DELETE /api/cart/clear.
func (h *CartHandler) Clear(c echo.Context) error {
	identity, _ := middleware.IdentityFrom(c)

	summary, err := h.carts.ClearCart(c.Request().Context(), identity.UserID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, toCartResponse(summary))
}

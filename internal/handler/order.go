package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gamerstore/backend/internal/domain"
	"github.com/gamerstore/backend/internal/middleware"
	"github.com/gamerstore/backend/internal/service"
)

// OrderHandler exposes checkout, the order ledger, and the payment endpoints.
type OrderHandler struct {
	orders   domain.OrderService
	payments service.PaymentService
	logger   zerolog.Logger
}

// NewOrderHandler creates a new OrderHandler instance.
func NewOrderHandler(orders domain.OrderService, payments service.PaymentService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, payments: payments, logger: logger}
}

type orderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Quantity  int32           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	UserID          string              `json:"userId"`
	Status          string              `json:"status"`
	Total           decimal.Decimal     `json:"total"`
	DeliveryMethod  string              `json:"deliveryMethod"`
	ShippingAddress string              `json:"shippingAddress"`
	CreatedAt       time.Time           `json:"createdAt"`
	Items           []orderItemResponse `json:"items"`
}

func toOrderResponse(order *domain.Order) orderResponse {
	resp := orderResponse{
		ID:              order.ID.String(),
		UserID:          order.UserID.String(),
		Status:          string(order.Status),
		Total:           order.Total,
		DeliveryMethod:  order.DeliveryMethod,
		ShippingAddress: order.ShippingAddress,
		CreatedAt:       order.CreatedAt,
		Items:           make([]orderItemResponse, len(order.Items)),
	}
	for i, item := range order.Items {
		resp.Items[i] = orderItemResponse{
			ID:        item.ID.String(),
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return resp
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	out := make([]orderResponse, len(orders))
	for i := range orders {
		out[i] = toOrderResponse(&orders[i])
	}
	return out
}

type createOrderRequest struct {
	DeliveryMethod  string `json:"deliveryMethod" validate:"required"`
	ShippingAddress string `json:"shippingAddress" validate:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type processPaymentRequest struct {
	OrderID           string          `json:"orderId" validate:"required,uuid"`
	Token             string          `json:"token" validate:"required"`
	PaymentMethodID   string          `json:"paymentMethodId" validate:"required"`
	Installments      int             `json:"installments" validate:"gte=1"`
	TransactionAmount decimal.Decimal `json:"transactionAmount"`
	Payer             struct {
		Email string `json:"email" validate:"required,email"`
	} `json:"payer"`
}

type chargeResponse struct {
	ID           int64  `json:"id"`
	Status       string `json:"status"`
	StatusDetail string `json:"statusDetail"`
}

// Create handles POST /api/orders: converts the caller's cart into an order.
func (h *OrderHandler) Create(c echo.Context) error {
	identity, _ := middleware.IdentityFrom(c)

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.logger, domain.Invalid("order.create", "malformed request body"))
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.logger, err)
	}

	order, err := h.orders.CreateOrder(c.Request().Context(), identity.UserID, domain.CheckoutParams{
		DeliveryMethod:  req.DeliveryMethod,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

// ListAll handles GET /api/orders (admin).
func (h *OrderHandler) ListAll(c echo.Context) error {
	identity, _ := middleware.IdentityFrom(c)

	orders, err := h.orders.ListOrders(c.Request().Context(), identity)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, toOrderResponses(orders))
}

// ListMine handles GET /api/orders/my-orders.
func (h *OrderHandler) ListMine(c echo.Context) error {
	identity, _ := middleware.IdentityFrom(c)

	orders, err := h.orders.ListUserOrders(c.Request().Context(), identity.UserID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, toOrderResponses(orders))
}

// Get handles GET /api/orders/:id (owner or admin).
func (h *OrderHandler) Get(c echo.Context) error {
	identity, _ := middleware.IdentityFrom(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, h.logger, domain.Invalid("order.get", "invalid order id"))
	}

	order, err := h.orders.GetOrder(c.Request().Context(), identity, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// UpdateStatus handles PATCH /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	identity, _ := middleware.IdentityFrom(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, h.logger, domain.Invalid("order.update_status", "invalid order id"))
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.logger, domain.Invalid("order.update_status", "malformed request body"))
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.logger, err)
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	order, err := h.orders.UpdateStatus(c.Request().Context(), identity, id, status)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// ProcessPayment handles POST /api/orders/payment/process.
func (h *OrderHandler) ProcessPayment(c echo.Context) error {
	var req processPaymentRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.logger, domain.Invalid("payment.process", "malformed request body"))
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.logger, err)
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return respondError(c, h.logger, domain.Invalid("payment.process", "invalid order id"))
	}

	charge, err := h.payments.ProcessPayment(c.Request().Context(), service.ProcessPaymentParams{
		OrderID:         orderID,
		CardToken:       req.Token,
		PaymentMethodID: req.PaymentMethodID,
		Installments:    req.Installments,
		PayerEmail:      req.Payer.Email,
		Amount:          req.TransactionAmount,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, chargeResponse{
		ID:           charge.ID,
		Status:       charge.Status,
		StatusDetail: charge.StatusDetail,
	})
}

// CreatePreference handles POST /api/orders/:id/preference.
func (h *OrderHandler) CreatePreference(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, h.logger, domain.Invalid("payment.preference", "invalid order id"))
	}

	pref, err := h.payments.CreatePreference(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"preferenceId": pref.ID})
}

// Webhook handles POST /api/orders/webhook. The gateway is always answered
// with 200 so its retry loop is driven by its own schedule, not our errors.
func (h *OrderHandler) Webhook(c echo.Context) error {
	h.payments.HandleWebhook(c.Request().Context(), service.WebhookNotification{
		Type:   c.QueryParam("type"),
		Topic:  c.QueryParam("topic"),
		DataID: c.QueryParam("data.id"),
		ID:     c.QueryParam("id"),
	})
	return c.String(http.StatusOK, "received")
}

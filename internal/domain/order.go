package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order-related domain errors.
var (
	ErrOrderNotFound     = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrInvalidStatus     = &Error{Code: EINVALID, Message: "Invalid order status"}
	ErrIllegalTransition = &Error{Code: EINVALID, Message: "Illegal order status transition"}
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCanceled  OrderStatus = "CANCELED"
)

// ParseOrderStatus converts a raw string into an OrderStatus.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	switch OrderStatus(raw) {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCanceled:
		return OrderStatus(raw), nil
	}
	return "", Errorf(EINVALID, "order.status", "invalid status: %s", raw)
}

// transitions is the full order state machine:
// PENDING -> PAID -> SHIPPED -> DELIVERED, with PENDING -> CANCELED and
// PAID -> CANCELED as escape transitions.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending: {StatusPaid, StatusCanceled},
	StatusPaid:    {StatusShipped, StatusCanceled},
	StatusShipped: {StatusDelivered},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is an immutable snapshot created at checkout. Only its status ever
// changes; the total and item prices are frozen at creation time.
type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Status          OrderStatus
	Total           decimal.Decimal
	DeliveryMethod  string
	ShippingAddress string
	CreatedAt       time.Time
	Items           []OrderItem
}

// OrderItem is a snapshot of a cart line at checkout time. UnitPrice is
// copied from the catalog, not linked: later price changes never touch it.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int32
	UnitPrice decimal.Decimal
}

// OrderStore persists orders and their items.
type OrderStore interface {
	// Create persists an order together with its items.
	Create(ctx context.Context, order *Order) error

	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)

	// SetStatus unconditionally records a new status.
	SetStatus(ctx context.Context, id uuid.UUID, status OrderStatus) error

	// SetStatusIf records the new status only when the order currently holds
	// the expected one. Returns true when the row changed. This is the
	// compare-and-swap that keeps PENDING -> PAID safe under duplicate
	// webhook delivery.
	SetStatusIf(ctx context.Context, id uuid.UUID, expected, status OrderStatus) (bool, error)
}

// CheckoutParams contains parameters for converting a cart into an order.
type CheckoutParams struct {
	DeliveryMethod  string
	ShippingAddress string
}

// OrderService provides business logic for the order ledger.
// The acting identity is passed explicitly on every call.
type OrderService interface {
	// CreateOrder converts the user's cart into a PENDING order: stock is
	// re-validated and deducted, prices are snapshotted, and the cart is
	// cleared, all in one atomic transaction.
	CreateOrder(ctx context.Context, userID uuid.UUID, params CheckoutParams) (*Order, error)

	// GetOrder returns an order visible to the caller (owner or admin).
	GetOrder(ctx context.Context, actor Identity, orderID uuid.UUID) (*Order, error)

	// ListOrders returns every order. Admin only.
	ListOrders(ctx context.Context, actor Identity) ([]Order, error)

	// ListUserOrders returns the caller's own orders.
	ListUserOrders(ctx context.Context, userID uuid.UUID) ([]Order, error)

	// UpdateStatus applies a status transition on behalf of the actor.
	// Non-admins may only cancel their own PENDING orders.
	UpdateStatus(ctx context.Context, actor Identity, orderID uuid.UUID, status OrderStatus) (*Order, error)

	// ApprovePayment transitions PENDING -> PAID. A no-op, not an error, in
	// any other state, so it is safe under at-least-once webhook delivery.
	ApprovePayment(ctx context.Context, orderID uuid.UUID) error
}

// Stores bundles every persistence interface behind one transaction scope.
type Stores interface {
	Users() UserStore
	Products() ProductStore
	Categories() CategoryStore
	Carts() CartStore
	Orders() OrderStore

	// ExecTx runs fn inside a database transaction. The Stores handed to fn
	// operate on that transaction; returning an error rolls everything back.
	ExecTx(ctx context.Context, fn func(Stores) error) error
}

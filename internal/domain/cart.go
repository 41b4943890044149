package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart-related domain errors.
var (
	ErrCartNotFound      = &Error{Code: ENOTFOUND, Message: "Cart not found"}
	ErrCartItemNotFound  = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
	ErrInvalidQuantity   = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
	ErrInsufficientStock = &Error{Code: EINVALID, Message: "Insufficient stock"}
	ErrEmptyCart         = &Error{Code: EINVALID, Message: "Cart is empty"}
)

// Cart is a user's mutable working state. Exactly one exists per user; it is
// emptied on successful checkout.
type Cart struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

// CartItem pairs a product reference with a requested quantity.
type CartItem struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int32
}

// CartSummary is the projection returned by every cart mutation: the cart
// with line items joined against live product data.
type CartSummary struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Items  []CartLine
}

// CartLine is a cart item joined with its product's current state.
type CartLine struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Stock       int32
	Quantity    int32
	ImageURL    string
}

// CartStore persists carts and their line items.
type CartStore interface {
	// GetOrCreate returns the user's cart, creating an empty one if absent.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*Cart, error)

	GetByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)
	GetItems(ctx context.Context, cartID uuid.UUID) ([]CartItem, error)
	GetItem(ctx context.Context, cartID, productID uuid.UUID) (*CartItem, error)

	// UpsertItem merges quantity into an existing line or creates a new one.
	UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int32) error

	SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int32) error
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error
	Clear(ctx context.Context, cartID uuid.UUID) error

	// GetSummary loads the cart projection with product details joined in.
	GetSummary(ctx context.Context, cartID uuid.UUID) (*CartSummary, error)
}

// CartService provides business logic for shopping cart operations.
// The acting user is passed explicitly on every call.
type CartService interface {
	// GetCart returns the user's cart, creating an empty one on first access.
	GetCart(ctx context.Context, userID uuid.UUID) (*CartSummary, error)

	// AddItem adds quantity of a product, merging into an existing line.
	// Fails if in-cart quantity plus the request exceeds live stock.
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int32) (*CartSummary, error)

	// RemoveOne decrements a line by one unit, removing the line at zero.
	RemoveOne(ctx context.Context, userID, productID uuid.UUID) (*CartSummary, error)

	// RemoveItem removes a line regardless of quantity.
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartSummary, error)

	// ClearCart removes all lines.
	ClearCart(ctx context.Context, userID uuid.UUID) (*CartSummary, error)
}

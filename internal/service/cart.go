package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gamerstore/backend/internal/domain"
)

// cartService implements domain.CartService.
type cartService struct {
	stores domain.Stores
	logger zerolog.Logger
}

// NewCartService creates a new CartService instance.
func NewCartService(stores domain.Stores, logger zerolog.Logger) domain.CartService {
	return &cartService{
		stores: stores,
		logger: logger.With().Str("component", "cart").Logger(),
	}
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*domain.CartSummary, error) {
	cart, err := s.stores.Carts().GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.stores.Carts().GetSummary(ctx, cart.ID)
}

// AddItem adds quantity of a product, merging into an existing line. The
// admission check is against live stock: what is already in the cart plus the
// request must fit.
func (s *cartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int32) (*domain.CartSummary, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	cart, err := s.stores.Carts().GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.stores.Products().GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	var inCart int32
	existing, err := s.stores.Carts().GetItem(ctx, cart.ID, productID)
	if err != nil && !errors.Is(err, domain.ErrCartItemNotFound) {
		return nil, err
	}
	if existing != nil {
		inCart = existing.Quantity
	}

	// Compared against the remaining headroom rather than summed, so a huge
	// requested quantity cannot wrap int32 past the stock check.
	if quantity > product.Stock-inCart {
		s.logger.Warn().
			Str("product_id", productID.String()).
			Int32("requested", quantity).
			Int32("in_cart", inCart).
			Int32("stock", product.Stock).
			Msg("cart admission rejected: insufficient stock")
		return nil, domain.Errorf(domain.EINVALID, "cart.add",
			"insufficient stock for %s: %d available", product.Name, product.Stock)
	}

	if err := s.stores.Carts().UpsertItem(ctx, cart.ID, productID, quantity); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Str("product_id", productID.String()).
		Int32("quantity", quantity).
		Msg("item added to cart")

	return s.stores.Carts().GetSummary(ctx, cart.ID)
}

// RemoveOne decrements a line by one unit, removing the line at zero.
func (s *cartService) RemoveOne(ctx context.Context, userID, productID uuid.UUID) (*domain.CartSummary, error) {
	cart, err := s.stores.Carts().GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.stores.Carts().GetItem(ctx, cart.ID, productID)
	if err != nil {
		return nil, err
	}

	if item.Quantity > 1 {
		err = s.stores.Carts().SetItemQuantity(ctx, cart.ID, productID, item.Quantity-1)
	} else {
		err = s.stores.Carts().RemoveItem(ctx, cart.ID, productID)
	}
	if err != nil {
		return nil, err
	}

	return s.stores.Carts().GetSummary(ctx, cart.ID)
}

// RemoveItem removes a line regardless of quantity.
func (s *cartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*domain.CartSummary, error) {
	cart, err := s.stores.Carts().GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.stores.Carts().RemoveItem(ctx, cart.ID, productID); err != nil {
		return nil, err
	}

	return s.stores.Carts().GetSummary(ctx, cart.ID)
}

// ClearCart removes all lines.
func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) (*domain.CartSummary, error) {
	cart, err := s.stores.Carts().GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.stores.Carts().Clear(ctx, cart.ID); err != nil {
		return nil, err
	}

	return s.stores.Carts().GetSummary(ctx, cart.ID)
}

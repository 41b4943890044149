package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gamerstore/backend/internal/domain"
)

// CartStore implements domain.CartStore using PostgreSQL.
type CartStore struct {
	db DBTX
}

// GetOrCreate returns the user's cart, creating an empty one if absent.
// The upsert keeps concurrent first accesses from racing into duplicates.
func (s *CartStore) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	var cart domain.Cart
	err := s.db.QueryRow(ctx, `
		INSERT INTO carts (id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id
	`, uuid.New(), userID).Scan(&cart.ID, &cart.UserID)
	if err != nil {
		return nil, domain.Internal(err, "cart.get_or_create", "failed to get or create cart")
	}
	return &cart, nil
}

func (s *CartStore) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	var cart domain.Cart
	err := s.db.QueryRow(ctx, `SELECT id, user_id FROM carts WHERE user_id = $1`, userID).
		Scan(&cart.ID, &cart.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCartNotFound
		}
		return nil, domain.Internal(err, "cart.get", "failed to get cart")
	}
	return &cart, nil
}

func (s *CartStore) GetItems(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, cart_id, product_id, quantity FROM cart_items WHERE cart_id = $1
	`, cartID)
	if err != nil {
		return nil, domain.Internal(err, "cart.items", "failed to get cart items")
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity); err != nil {
			return nil, domain.Internal(err, "cart.items", "failed to scan cart item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "cart.items", "failed to read cart items")
	}
	return items, nil
}

func (s *CartStore) GetItem(ctx context.Context, cartID, productID uuid.UUID) (*domain.CartItem, error) {
	var item domain.CartItem
	err := s.db.QueryRow(ctx, `
		SELECT id, cart_id, product_id, quantity
		FROM cart_items WHERE cart_id = $1 AND product_id = $2
	`, cartID, productID).Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCartItemNotFound
		}
		return nil, domain.Internal(err, "cart.item", "failed to get cart item")
	}
	return &item, nil
}

// UpsertItem merges quantity into an existing line or creates a new one.
func (s *CartStore) UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int32) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO cart_items (id, cart_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`, uuid.New(), cartID, productID, quantity)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrProductNotFound
		}
		return domain.Internal(err, "cart.upsert_item", "failed to add cart item")
	}
	return nil
}

func (s *CartStore) SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int32) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE cart_items SET quantity = $3 WHERE cart_id = $1 AND product_id = $2
	`, cartID, productID, quantity)
	if err != nil {
		return domain.Internal(err, "cart.set_quantity", "failed to update cart item")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

func (s *CartStore) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2
	`, cartID, productID)
	if err != nil {
		return domain.Internal(err, "cart.remove_item", "failed to remove cart item")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

func (s *CartStore) Clear(ctx context.Context, cartID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return domain.Internal(err, "cart.clear", "failed to clear cart")
	}
	return nil
}

// GetSummary loads the cart projection with live product details joined in.
func (s *CartStore) GetSummary(ctx context.Context, cartID uuid.UUID) (*domain.CartSummary, error) {
	var summary domain.CartSummary
	err := s.db.QueryRow(ctx, `SELECT id, user_id FROM carts WHERE id = $1`, cartID).
		Scan(&summary.ID, &summary.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCartNotFound
		}
		return nil, domain.Internal(err, "cart.summary", "failed to get cart")
	}

	rows, err := s.db.Query(ctx, `
		SELECT ci.id, ci.product_id, p.name, p.price, p.stock, ci.quantity, p.image_url
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at
	`, cartID)
	if err != nil {
		return nil, domain.Internal(err, "cart.summary", "failed to get cart lines")
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(&line.ID, &line.ProductID, &line.ProductName, &line.UnitPrice,
			&line.Stock, &line.Quantity, &line.ImageURL); err != nil {
			return nil, domain.Internal(err, "cart.summary", "failed to scan cart line")
		}
		summary.Items = append(summary.Items, line)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "cart.summary", "failed to read cart lines")
	}
	return &summary, nil
}

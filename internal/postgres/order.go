package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gamerstore/backend/internal/domain"
)

// OrderStore implements domain.OrderStore using PostgreSQL.
type OrderStore struct {
	db DBTX
}

func (s *OrderStore) Create(ctx context.Context, order *domain.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	err := s.db.QueryRow(ctx, `
		INSERT INTO orders (id, user_id, status, total, delivery_method, shipping_address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, order.ID, order.UserID, order.Status, order.Total, order.DeliveryMethod, order.ShippingAddress).
		Scan(&order.CreatedAt)
	if err != nil {
		return domain.Internal(err, "order.create", "failed to create order")
	}

	for i := range order.Items {
		item := &order.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = order.ID

		_, err := s.db.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)
		`, item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice)
		if err != nil {
			return domain.Internal(err, "order.create", "failed to create order item")
		}
	}
	return nil
}

func (s *OrderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, status, total, delivery_method, shipping_address, created_at
		FROM orders WHERE id = $1
	`, id).Scan(&order.ID, &order.UserID, &order.Status, &order.Total,
		&order.DeliveryMethod, &order.ShippingAddress, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.Internal(err, "order.get", "failed to get order")
	}

	items, err := s.itemsFor(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (s *OrderStore) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.list(ctx, `
		SELECT id, user_id, status, total, delivery_method, shipping_address, created_at
		FROM orders ORDER BY created_at DESC
	`)
}

func (s *OrderStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	return s.list(ctx, `
		SELECT id, user_id, status, total, delivery_method, shipping_address, created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
}

func (s *OrderStore) SetStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	tag, err := s.db.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return domain.Internal(err, "order.set_status", "failed to update order status")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// SetStatusIf is a conditional update: it flips the status only when the row
// still holds the expected one. Duplicate webhook deliveries and the race
// between the synchronous and asynchronous payment paths both collapse into
// "zero rows affected" here.
func (s *OrderStore) SetStatusIf(ctx context.Context, id uuid.UUID, expected, status domain.OrderStatus) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders SET status = $3 WHERE id = $1 AND status = $2
	`, id, expected, status)
	if err != nil {
		return false, domain.Internal(err, "order.set_status_if", "failed to update order status")
	}
	return tag.RowsAffected() > 0, nil
}

func (s *OrderStore) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Internal(err, "order.list", "failed to list orders")
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.UserID, &order.Status, &order.Total,
			&order.DeliveryMethod, &order.ShippingAddress, &order.CreatedAt); err != nil {
			return nil, domain.Internal(err, "order.list", "failed to scan order")
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "order.list", "failed to read orders")
	}

	for i := range orders {
		items, err := s.itemsFor(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (s *OrderStore) itemsFor(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM order_items WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, domain.Internal(err, "order.items", "failed to get order items")
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, domain.Internal(err, "order.items", "failed to scan order item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "order.items", "failed to read order items")
	}
	return items, nil
}

package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gamerstore/backend/internal/domain"
)

// orderService implements domain.OrderService.
type orderService struct {
	stores domain.Stores
	logger zerolog.Logger
}

// NewOrderService creates a new OrderService instance.
func NewOrderService(stores domain.Stores, logger zerolog.Logger) domain.OrderService {
	return &orderService{
		stores: stores,
		logger: logger.With().Str("component", "order").Logger(),
	}
}

// CreateOrder converts the user's cart into a PENDING order.
//
// Everything runs in one transaction: stock is re-validated per line under a
// row lock (a cart snapshot may be stale), deducted, the total accumulated
// from current catalog prices, the order persisted with price-snapshot items,
// and the cart cleared. Any failure rolls all of it back and leaves the cart
// untouched.
func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, params domain.CheckoutParams) (*domain.Order, error) {
	var order *domain.Order

	err := s.stores.ExecTx(ctx, func(tx domain.Stores) error {
		cart, err := tx.Carts().GetByUser(ctx, userID)
		if err != nil {
			return err
		}

		items, err := tx.Carts().GetItems(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrEmptyCart
		}

		total := decimal.Zero
		orderItems := make([]domain.OrderItem, 0, len(items))

		for _, item := range items {
			product, err := tx.Products().GetByIDForUpdate(ctx, item.ProductID)
			if err != nil {
				return err
			}

			if product.Stock < item.Quantity {
				return domain.Errorf(domain.EINVALID, "order.create",
					"insufficient stock for %s: %d available", product.Name, product.Stock)
			}

			if err := tx.Products().AdjustStock(ctx, product.ID, -item.Quantity); err != nil {
				return err
			}

			lineTotal := product.Price.Mul(decimal.NewFromInt32(item.Quantity))
			total = total.Add(lineTotal)

			orderItems = append(orderItems, domain.OrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price, // snapshot, never re-read
			})
		}

		order = &domain.Order{
			UserID:          userID,
			Status:          domain.StatusPending,
			Total:           total,
			DeliveryMethod:  params.DeliveryMethod,
			ShippingAddress: params.ShippingAddress,
			Items:           orderItems,
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		return tx.Carts().Clear(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID.String()).
		Str("total", order.Total.String()).
		Int("items", len(order.Items)).
		Msg("order created")

	return order, nil
}

// GetOrder returns an order visible to the caller: its owner, or any admin.
func (s *orderService) GetOrder(ctx context.Context, actor domain.Identity, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.stores.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && order.UserID != actor.UserID {
		return nil, domain.Forbidden("order.get", "you do not have access to this order")
	}
	return order, nil
}

// ListOrders returns every order. Admin only.
func (s *orderService) ListOrders(ctx context.Context, actor domain.Identity) ([]domain.Order, error) {
	if !actor.IsAdmin() {
		return nil, domain.Forbidden("order.list", "only admins can list all orders")
	}
	return s.stores.Orders().ListAll(ctx)
}

// ListUserOrders returns the caller's own orders.
func (s *orderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	return s.stores.Orders().ListByUser(ctx, userID)
}

// UpdateStatus applies a status transition on behalf of the actor.
//
// Admins may apply any legal state-machine transition on any order.
// Non-admins may only cancel their own orders, and only while PENDING.
func (s *orderService) UpdateStatus(ctx context.Context, actor domain.Identity, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.stores.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		if order.UserID != actor.UserID {
			return nil, domain.Forbidden("order.update_status", "you do not have access to this order")
		}
		if status != domain.StatusCanceled {
			return nil, domain.Forbidden("order.update_status", "you are not allowed to set status "+string(status))
		}
		if order.Status != domain.StatusPending {
			return nil, domain.Forbidden("order.update_status", "only pending orders can be canceled")
		}
	}

	if !domain.CanTransition(order.Status, status) {
		return nil, domain.Errorf(domain.EINVALID, "order.update_status",
			"cannot transition order from %s to %s", order.Status, status)
	}

	if err := s.stores.Orders().SetStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("from", string(order.Status)).
		Str("to", string(status)).
		Bool("admin", actor.IsAdmin()).
		Msg("order status updated")

	order.Status = status
	return order, nil
}

// ApprovePayment transitions PENDING -> PAID. Calling it on an order in any
// other state is a no-op, which makes it safe to invoke repeatedly under
// at-least-once webhook delivery.
func (s *orderService) ApprovePayment(ctx context.Context, orderID uuid.UUID) error {
	changed, err := s.stores.Orders().SetStatusIf(ctx, orderID, domain.StatusPending, domain.StatusPaid)
	if err != nil {
		return err
	}

	if changed {
		s.logger.Info().Str("order_id", orderID.String()).Msg("payment approved")
	} else {
		s.logger.Debug().Str("order_id", orderID.String()).Msg("approve payment: order not pending, nothing to do")
	}
	return nil
}

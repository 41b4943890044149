package service

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gamerstore/backend/internal/domain"
	"github.com/gamerstore/backend/internal/payment"
)

// PaymentService drives synchronous charge creation and asynchronous
// webhook-driven confirmation against the order ledger. Both entry points
// converge on OrderService.ApprovePayment, which is idempotent.
type PaymentService interface {
	// ProcessPayment submits a card charge for an order. On an approved
	// charge the order transitions to PAID; on any other outcome the order
	// is left untouched and the charge result is returned for the client to
	// act on. No retries happen server-side.
	ProcessPayment(ctx context.Context, params ProcessPaymentParams) (*payment.Charge, error)

	// CreatePreference builds a hosted checkout session for the order's
	// total. No order state changes.
	CreatePreference(ctx context.Context, orderID uuid.UUID) (*payment.Preference, error)

	// HandleWebhook reconciles a gateway notification. Internal failures are
	// logged and swallowed; callers always acknowledge receipt so the
	// gateway does not retry-storm on our errors.
	HandleWebhook(ctx context.Context, notification WebhookNotification)
}

// ProcessPaymentParams contains parameters for a synchronous card charge.
type ProcessPaymentParams struct {
	OrderID         uuid.UUID
	CardToken       string
	PaymentMethodID string
	Installments    int
	PayerEmail      string
	Amount          decimal.Decimal
}

// WebhookNotification is the query payload of a gateway callback. The
// gateway sends either type=payment&data.id=N or topic=payment&id=N.
type WebhookNotification struct {
	Type   string
	Topic  string
	DataID string
	ID     string
}

// IsPayment reports whether the notification is payment-typed. Everything
// else is ignored.
func (n WebhookNotification) IsPayment() bool {
	return n.Type == "payment" || n.Topic == "payment"
}

// ChargeID extracts the gateway charge id from whichever field carries it.
func (n WebhookNotification) ChargeID() (int64, bool) {
	raw := n.DataID
	if raw == "" {
		raw = n.ID
	}
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// paymentService implements PaymentService.
type paymentService struct {
	stores   domain.Stores
	provider payment.Provider
	orders   domain.OrderService
	logger   zerolog.Logger
}

// NewPaymentService creates a new PaymentService instance. The gateway
// client is passed in explicitly; there is no package-level configuration.
func NewPaymentService(stores domain.Stores, provider payment.Provider, orders domain.OrderService, logger zerolog.Logger) PaymentService {
	return &paymentService{
		stores:   stores,
		provider: provider,
		orders:   orders,
		logger:   logger.With().Str("component", "payment").Logger(),
	}
}

// ProcessPayment submits a charge carrying externalReference = order id.
func (s *paymentService) ProcessPayment(ctx context.Context, params ProcessPaymentParams) (*payment.Charge, error) {
	order, err := s.stores.Orders().GetByID(ctx, params.OrderID)
	if err != nil {
		return nil, err
	}

	charge, err := s.provider.CreateCharge(ctx, payment.CreateChargeParams{
		Amount:            params.Amount,
		CardToken:         params.CardToken,
		Description:       "GamerStore - Order #" + order.ID.String(),
		Installments:      params.Installments,
		PaymentMethodID:   params.PaymentMethodID,
		PayerEmail:        params.PayerEmail,
		ExternalReference: order.ID.String(),
	})
	if err != nil {
		return nil, err
	}

	if charge.Approved() {
		if err := s.orders.ApprovePayment(ctx, order.ID); err != nil {
			return nil, err
		}
	} else {
		s.logger.Info().
			Str("order_id", order.ID.String()).
			Str("status", charge.Status).
			Str("status_detail", charge.StatusDetail).
			Msg("charge not approved, order left pending")
	}

	return charge, nil
}

// CreatePreference builds a one-line checkout session for the order total.
func (s *paymentService) CreatePreference(ctx context.Context, orderID uuid.UUID) (*payment.Preference, error) {
	order, err := s.stores.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	payerEmail := ""
	if user, err := s.stores.Users().GetByID(ctx, order.UserID); err == nil {
		payerEmail = user.Email
	}

	return s.provider.CreatePreference(ctx, payment.CreatePreferenceParams{
		Title:             "GamerStore - Purchase #" + order.ID.String(),
		Amount:            order.Total,
		PayerEmail:        payerEmail,
		ExternalReference: order.ID.String(),
	})
}

// HandleWebhook reconciles an asynchronous gateway notification.
//
// The webhook body is never trusted for payment state: the charge is fetched
// back from the gateway, and only a fetched "approved" status with a
// resolvable external reference approves the order. Failures are logged and
// swallowed; the payment reconciles on the gateway's own redelivery.
func (s *paymentService) HandleWebhook(ctx context.Context, notification WebhookNotification) {
	if !notification.IsPayment() {
		s.logger.Debug().
			Str("type", notification.Type).
			Str("topic", notification.Topic).
			Msg("webhook ignored: not a payment notification")
		return
	}

	chargeID, ok := notification.ChargeID()
	if !ok {
		s.logger.Warn().Msg("webhook ignored: missing or malformed charge id")
		return
	}

	charge, err := s.provider.GetCharge(ctx, chargeID)
	if err != nil {
		s.logger.Error().Err(err).Int64("charge_id", chargeID).Msg("webhook: failed to fetch charge from gateway")
		return
	}

	if !charge.Approved() {
		s.logger.Info().
			Int64("charge_id", chargeID).
			Str("status", charge.Status).
			Msg("webhook: charge not approved, nothing to do")
		return
	}

	orderID, err := uuid.Parse(charge.ExternalReference)
	if err != nil {
		s.logger.Error().
			Int64("charge_id", chargeID).
			Str("external_reference", charge.ExternalReference).
			Msg("webhook: charge has no resolvable order reference")
		return
	}

	if err := s.orders.ApprovePayment(ctx, orderID); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("webhook: failed to approve payment")
		return
	}

	s.logger.Info().
		Int64("charge_id", chargeID).
		Str("order_id", orderID.String()).
		Msg("webhook: order paid")
}

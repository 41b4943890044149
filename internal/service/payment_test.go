package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamerstore/backend/internal/domain"
	"github.com/gamerstore/backend/internal/payment"
)

func seedPendingOrder(stores *memStores) domain.Order {
	user := stores.addUser("alice", domain.RoleUser)
	order := domain.Order{
		ID:     uuid.New(),
		UserID: user.ID,
		Status: domain.StatusPending,
		Total:  mustDecimal("149.97"),
	}
	stores.orders[order.ID] = order
	return order
}

func TestProcessPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("approved charge marks the order paid", func(t *testing.T) {
		stores := newMemStores()
		order := seedPendingOrder(stores)
		provider := &payment.MockProvider{
			Charge: &payment.Charge{ID: 42, Status: "approved", ExternalReference: order.ID.String()},
		}

		orders := NewOrderService(stores, testLogger())
		svc := NewPaymentService(stores, provider, orders, testLogger())

		charge, err := svc.ProcessPayment(ctx, ProcessPaymentParams{
			OrderID:         order.ID,
			CardToken:       "tok_visa",
			PaymentMethodID: "visa",
			Installments:    1,
			PayerEmail:      "alice@example.com",
			Amount:          order.Total,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(42), charge.ID)
		assert.Equal(t, domain.StatusPaid, stores.orders[order.ID].Status)

		require.Len(t, provider.CreateCalls, 1)
		assert.Equal(t, order.ID.String(), provider.CreateCalls[0].ExternalReference)
	})

	t.Run("rejected charge leaves the order pending", func(t *testing.T) {
		stores := newMemStores()
		order := seedPendingOrder(stores)
		provider := &payment.MockProvider{
			Charge: &payment.Charge{ID: 43, Status: "rejected", StatusDetail: "cc_rejected_insufficient_amount"},
		}

		orders := NewOrderService(stores, testLogger())
		svc := NewPaymentService(stores, provider, orders, testLogger())

		charge, err := svc.ProcessPayment(ctx, ProcessPaymentParams{OrderID: order.ID, Amount: order.Total})
		require.NoError(t, err)
		assert.Equal(t, "rejected", charge.Status)
		assert.Equal(t, domain.StatusPending, stores.orders[order.ID].Status)
	})

	t.Run("unknown order never reaches the gateway", func(t *testing.T) {
		stores := newMemStores()
		provider := &payment.MockProvider{}

		orders := NewOrderService(stores, testLogger())
		svc := NewPaymentService(stores, provider, orders, testLogger())

		_, err := svc.ProcessPayment(ctx, ProcessPaymentParams{OrderID: uuid.New()})
		require.ErrorIs(t, err, domain.ErrOrderNotFound)
		assert.Empty(t, provider.CreateCalls)
	})
}

func TestCreatePreference(t *testing.T) {
	ctx := context.Background()
	stores := newMemStores()
	order := seedPendingOrder(stores)
	provider := &payment.MockProvider{Pref: &payment.Preference{ID: "pref-123"}}

	orders := NewOrderService(stores, testLogger())
	svc := NewPaymentService(stores, provider, orders, testLogger())

	pref, err := svc.CreatePreference(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "pref-123", pref.ID)

	require.Len(t, provider.PrefCalls, 1)
	assert.True(t, provider.PrefCalls[0].Amount.Equal(order.Total))
	assert.Equal(t, order.ID.String(), provider.PrefCalls[0].ExternalReference)
}

func TestHandleWebhook(t *testing.T) {
	ctx := context.Background()

	notification := func(id string) WebhookNotification {
		return WebhookNotification{Type: "payment", DataID: id}
	}

	t.Run("approved charge pays the order", func(t *testing.T) {
		stores := newMemStores()
		order := seedPendingOrder(stores)
		provider := &payment.MockProvider{
			Fetched: &payment.Charge{ID: 42, Status: "approved", ExternalReference: order.ID.String()},
		}

		orders := NewOrderService(stores, testLogger())
		svc := NewPaymentService(stores, provider, orders, testLogger())

		svc.HandleWebhook(ctx, notification("42"))
		assert.Equal(t, domain.StatusPaid, stores.orders[order.ID].Status)
		assert.Equal(t, []int64{42}, provider.GetCalls)
	})

	t.Run("double delivery settles the order exactly once", func(t *testing.T) {
		stores := newMemStores()
		order := seedPendingOrder(stores)
		provider := &payment.MockProvider{
			Fetched: &payment.Charge{ID: 42, Status: "approved", ExternalReference: order.ID.String()},
		}

		orders := NewOrderService(stores, testLogger())
		svc := NewPaymentService(stores, provider, orders, testLogger())

		svc.HandleWebhook(ctx, notification("42"))
		svc.HandleWebhook(ctx, notification("42"))
		assert.Equal(t, domain.StatusPaid, stores.orders[order.ID].Status)
	})

	t.Run("status comes from the fetched charge, not the notification", func(t *testing.T) {
		stores := newMemStores()
		order := seedPendingOrder(stores)
		provider := &payment.MockProvider{
			Fetched: &payment.Charge{ID: 42, Status: "in_process", ExternalReference: order.ID.String()},
		}

		orders := NewOrderService(stores, testLogger())
		svc := NewPaymentService(stores, provider, orders, testLogger())

		svc.HandleWebhook(ctx, notification("42"))
		assert.Equal(t, domain.StatusPending, stores.orders[order.ID].Status)
	})

	t.Run("non-payment notifications are ignored", func(t *testing.T) {
		stores := newMemStores()
		provider := &payment.MockProvider{}

		orders := NewOrderService(stores, testLogger())
		svc := NewPaymentService(stores, provider, orders, testLogger())

		svc.HandleWebhook(ctx, WebhookNotification{Type: "merchant_order", DataID: "42"})
		assert.Empty(t, provider.GetCalls)
	})

	t.Run("missing charge id is swallowed", func(t *testing.T) {
		stores := newMemStores()
		provider := &payment.MockProvider{}

		orders := NewOrderService(stores, testLogger())
		svc := NewPaymentService(stores, provider, orders, testLogger())

		svc.HandleWebhook(ctx, notification(""))
		assert.Empty(t, provider.GetCalls)
	})

	t.Run("gateway failure is swallowed", func(t *testing.T) {
		stores := newMemStores()
		order := seedPendingOrder(stores)
		provider := &payment.MockProvider{FetchErr: errors.New("gateway down")}

		orders := NewOrderService(stores, testLogger())
		svc := NewPaymentService(stores, provider, orders, testLogger())

		svc.HandleWebhook(ctx, notification("42"))
		assert.Equal(t, domain.StatusPending, stores.orders[order.ID].Status)
	})

	t.Run("topic form of the notification is accepted", func(t *testing.T) {
		stores := newMemStores()
		order := seedPendingOrder(stores)
		provider := &payment.MockProvider{
			Fetched: &payment.Charge{ID: 7, Status: "approved", ExternalReference: order.ID.String()},
		}

		orders := NewOrderService(stores, testLogger())
		svc := NewPaymentService(stores, provider, orders, testLogger())

		svc.HandleWebhook(ctx, WebhookNotification{Topic: "payment", ID: "7"})
		assert.Equal(t, domain.StatusPaid, stores.orders[order.ID].Status)
	})
}

package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// Provider defines the interface for the external payment gateway.
// A constructed client is passed into the reconciler explicitly; there is no
// process-wide SDK configuration.
type Provider interface {
	// CreateCharge submits a card charge. The ExternalReference in params
	// must carry the order id so the asynchronous path can find its way back.
	CreateCharge(ctx context.Context, params CreateChargeParams) (*Charge, error)

	// GetCharge fetches the authoritative charge record by gateway id.
	// Webhook bodies are never trusted for payment state; this is.
	GetCharge(ctx context.Context, id int64) (*Charge, error)

	// CreatePreference builds a redirect-based checkout session and returns
	// its opaque identifier.
	CreatePreference(ctx context.Context, params CreatePreferenceParams) (*Preference, error)
}

// ChargeStatusApproved is the gateway status that settles an order.
const ChargeStatusApproved = "approved"

// CreateChargeParams contains parameters for a synchronous card charge.
type CreateChargeParams struct {
	Amount            decimal.Decimal
	CardToken         string
	Description       string
	Installments      int
	PaymentMethodID   string
	PayerEmail        string
	ExternalReference string
}

// Charge is the gateway's view of a payment attempt.
type Charge struct {
	ID                int64
	Status            string
	StatusDetail      string
	ExternalReference string
}

// Approved reports whether the charge settled.
func (c *Charge) Approved() bool {
	return c.Status == ChargeStatusApproved
}

// CreatePreferenceParams contains parameters for a hosted checkout session.
type CreatePreferenceParams struct {
	Title             string
	Amount            decimal.Decimal
	PayerEmail        string
	ExternalReference string
}

// Preference is a hosted checkout session.
type Preference struct {
	ID string
}

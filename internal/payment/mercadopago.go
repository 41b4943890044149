package payment

import (
	"context"
	"fmt"
	"net/http"
	"time"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	mppreference "github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/gamerstore/backend/internal/domain"
)

// MercadoPagoConfig contains configuration for the MercadoPago provider.
type MercadoPagoConfig struct {
	AccessToken string

	// FrontendURL is the base for checkout back URLs (success/failure/pending).
	FrontendURL string

	// CurrencyID is the ISO currency for preferences, e.g. "ARS".
	CurrencyID string

	// Timeout bounds every gateway call. Zero means 10s.
	Timeout time.Duration
}

// MercadoPago implements Provider against the MercadoPago API.
type MercadoPago struct {
	payments    mppayment.Client
	preferences mppreference.Client
	frontendURL string
	currencyID  string
}

// Compile-time check that MercadoPago implements Provider.
var _ Provider = (*MercadoPago)(nil)

// NewMercadoPago creates a MercadoPago-backed payment provider.
func NewMercadoPago(cfg MercadoPagoConfig) (*MercadoPago, error) {
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("mercadopago access token is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	sdkCfg, err := mpconfig.New(cfg.AccessToken, mpconfig.WithHTTPClient(&http.Client{Timeout: timeout}))
	if err != nil {
		return nil, fmt.Errorf("failed to configure mercadopago client: %w", err)
	}

	currency := cfg.CurrencyID
	if currency == "" {
		currency = "ARS"
	}

	return &MercadoPago{
		payments:    mppayment.NewClient(sdkCfg),
		preferences: mppreference.NewClient(sdkCfg),
		frontendURL: cfg.FrontendURL,
		currencyID:  currency,
	}, nil
}

// CreateCharge submits a card charge carrying the order id as external reference.
func (p *MercadoPago) CreateCharge(ctx context.Context, params CreateChargeParams) (*Charge, error) {
	amount, _ := params.Amount.Float64()

	resp, err := p.payments.Create(ctx, mppayment.Request{
		TransactionAmount: amount,
		Token:             params.CardToken,
		Description:       params.Description,
		Installments:      params.Installments,
		PaymentMethodID:   params.PaymentMethodID,
		Payer:             &mppayment.PayerRequest{Email: params.PayerEmail},
		ExternalReference: params.ExternalReference,
	})
	if err != nil {
		return nil, domain.Errorf(domain.EPAYMENT, "payment.create_charge", "payment gateway error: %v", err)
	}

	return &Charge{
		ID:                int64(resp.ID),
		Status:            resp.Status,
		StatusDetail:      resp.StatusDetail,
		ExternalReference: resp.ExternalReference,
	}, nil
}

// GetCharge fetches the authoritative charge record by gateway id.
func (p *MercadoPago) GetCharge(ctx context.Context, id int64) (*Charge, error) {
	resp, err := p.payments.Get(ctx, int(id))
	if err != nil {
		return nil, domain.Errorf(domain.EPAYMENT, "payment.get_charge", "payment gateway error: %v", err)
	}

	return &Charge{
		ID:                int64(resp.ID),
		Status:            resp.Status,
		StatusDetail:      resp.StatusDetail,
		ExternalReference: resp.ExternalReference,
	}, nil
}

// CreatePreference builds a hosted checkout session for the order total.
func (p *MercadoPago) CreatePreference(ctx context.Context, params CreatePreferenceParams) (*Preference, error) {
	amount, _ := params.Amount.Float64()

	resp, err := p.preferences.Create(ctx, mppreference.Request{
		Items: []mppreference.ItemRequest{
			{
				Title:      params.Title,
				Quantity:   1,
				UnitPrice:  amount,
				CurrencyID: p.currencyID,
			},
		},
		Payer: &mppreference.PayerRequest{Email: params.PayerEmail},
		BackURLs: &mppreference.BackURLsRequest{
			Success: p.frontendURL + "/profile",
			Failure: p.frontendURL + "/cart",
			Pending: p.frontendURL + "/profile",
		},
		ExternalReference: params.ExternalReference,
	})
	if err != nil {
		return nil, domain.Errorf(domain.EPAYMENT, "payment.create_preference", "payment gateway error: %v", err)
	}

	return &Preference{ID: resp.ID}, nil
}

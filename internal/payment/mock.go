package payment

import (
	"context"
	"errors"
)

// MockProvider implements Provider for testing. Configure the fields, then
// inspect the recorded calls.
type MockProvider struct {
	Charge      *Charge
	ChargeErr   error
	Fetched     *Charge
	FetchErr    error
	Pref        *Preference
	PrefErr     error
	CreateCalls []CreateChargeParams
	GetCalls    []int64
	PrefCalls   []CreatePreferenceParams
}

// Compile-time check that MockProvider implements Provider.
var _ Provider = (*MockProvider)(nil)

func (m *MockProvider) CreateCharge(ctx context.Context, params CreateChargeParams) (*Charge, error) {
	m.CreateCalls = append(m.CreateCalls, params)
	if m.ChargeErr != nil {
		return nil, m.ChargeErr
	}
	if m.Charge == nil {
		return nil, errors.New("mock: no charge configured")
	}
	return m.Charge, nil
}

func (m *MockProvider) GetCharge(ctx context.Context, id int64) (*Charge, error) {
	m.GetCalls = append(m.GetCalls, id)
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	if m.Fetched == nil {
		return nil, errors.New("mock: no fetched charge configured")
	}
	return m.Fetched, nil
}

func (m *MockProvider) CreatePreference(ctx context.Context, params CreatePreferenceParams) (*Preference, error) {
	m.PrefCalls = append(m.PrefCalls, params)
	if m.PrefErr != nil {
		return nil, m.PrefErr
	}
	if m.Pref == nil {
		return nil, errors.New("mock: no preference configured")
	}
	return m.Pref, nil
}

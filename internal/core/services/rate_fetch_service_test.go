package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	"github.com/SscSPs/pricing_admin_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock RatesProvider ---
type MockRatesProvider struct {
	mock.Mock
}

func (m *MockRatesProvider) Name() string { return "mock" }

func (m *MockRatesProvider) FetchRates(ctx context.Context, base string) (*domain.RateTable, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateTable), args.Error(1)
}

// --- Mock RecalculationSvc ---
type MockRecalculationSvc struct {
	mock.Mock
}

func (m *MockRecalculationSvc) RecalculateAll(ctx context.Context, userID string) (*domain.RecalculationSummary, error) {
	args := m.Called(ctx, userID)
	return nil, args.Error(1)
}

func (m *MockRecalculationSvc) RecalculateForProduct(ctx context.Context, productID int64, userID string) (*domain.RecalculationSummary, error) {
	args := m.Called(ctx, productID, userID)
	return nil, args.Error(1)
}

func (m *MockRecalculationSvc) RecalculateForCurrency(ctx context.Context, currencyCode string, userID string) (*domain.RecalculationSummary, error) {
	args := m.Called(ctx, currencyCode, userID)
	return nil, args.Error(1)
}

func (m *MockRecalculationSvc) RecalculateForCountry(ctx context.Context, countryCode string, userID string) (*domain.RecalculationSummary, error) {
	args := m.Called(ctx, countryCode, userID)
	return nil, args.Error(1)
}

func newRateFetchFixture(t *testing.T, opts ...services.RateFetchOption) (*fakeStore, *MockRatesProvider, func() (*domain.CurrencyRateFetchLog, error)) {
	t.Helper()
	store := newFakeStore()
	store.putCurrency(baseCurrency("USD"))
	store.putCurrency(apiCurrency("INR", "80"))
	store.putCurrency(apiCurrency("EUR", "0.9"))

	provider := new(MockRatesProvider)
	audit := services.NewAuditService(store, store)
	currency := services.NewCurrencyService(store, store, audit)
	svc := services.NewRateFetchService(provider, currency, store, audit, opts...)
	return store, provider, func() (*domain.CurrencyRateFetchLog, error) {
		return svc.FetchAndApply(context.Background(), "system:scheduler")
	}
}

func TestFetchAndApply_Success(t *testing.T) {
	store, provider, fetch := newRateFetchFixture(t)
	provider.On("FetchRates", mock.Anything, "USD").Return(&domain.RateTable{
		Provider: "primary",
		Base:     "USD",
		Rates:    map[string]decimal.Decimal{"INR": dec("83"), "EUR": dec("0.9")},
		Raw:      []byte(`{"base":"USD"}`),
	}, nil).Once()

	log, err := fetch()

	require.NoError(t, err)
	assert.Equal(t, domain.FetchSuccess, log.Status)
	assert.Equal(t, "primary", log.Provider)
	assert.Equal(t, 1, log.UpdatedCount)
	assert.Equal(t, 1, log.UnchangedCount)
	assert.JSONEq(t, `{"base":"USD"}`, string(log.RawPayload))
	assert.NotNil(t, log.FinishedAt)

	assert.True(t, store.currency("INR").ExchangeRate.Equal(dec("83")))
	assert.Equal(t, "api:primary", store.currency("INR").RateSource)
	assert.Equal(t, domain.FetchSuccess, store.fetchLogs[log.FetchID].Status)
	assert.Equal(t, 1, store.countAudit(domain.AuditRateFetch))
	provider.AssertExpectations(t)
}

func TestFetchAndApply_ProviderFailureTouchesNothing(t *testing.T) {
	store, provider, fetch := newRateFetchFixture(t)
	provider.On("FetchRates", mock.Anything, "USD").
		Return(nil, fmt.Errorf("primary: timeout: %w", apperrors.ErrExternalDependency)).Once()

	log, err := fetch()

	require.NoError(t, err)
	assert.Equal(t, domain.FetchFailure, log.Status)
	assert.Contains(t, log.Message, "timeout")
	assert.True(t, store.currency("INR").ExchangeRate.Equal(dec("80")))
	assert.Empty(t, store.historyFor("INR"))
	assert.Equal(t, domain.FetchFailure, store.fetchLogs[log.FetchID].Status)
}

func TestFetchAndApply_WrongBaseRejected(t *testing.T) {
	store, provider, fetch := newRateFetchFixture(t)
	provider.On("FetchRates", mock.Anything, "USD").Return(&domain.RateTable{
		Provider: "primary",
		Base:     "EUR",
		Rates:    map[string]decimal.Decimal{"INR": dec("90")},
	}, nil).Once()

	log, err := fetch()

	require.NoError(t, err)
	assert.Equal(t, domain.FetchFailure, log.Status)
	assert.True(t, store.currency("INR").ExchangeRate.Equal(dec("80")))
}

func TestFetchAndApply_NoBaseCurrency(t *testing.T) {
	store := newFakeStore()
	provider := new(MockRatesProvider)
	audit := services.NewAuditService(store, store)
	svc := services.NewRateFetchService(provider, services.NewCurrencyService(store, store, audit), store, audit)

	_, err := svc.FetchAndApply(context.Background(), "admin-1")

	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	provider.AssertNotCalled(t, "FetchRates", mock.Anything, mock.Anything)
}

func TestFetchAndApply_AutoRecalculatesChangedCurrencies(t *testing.T) {
	recalc := new(MockRecalculationSvc)
	recalc.On("RecalculateForCurrency", mock.Anything, "INR", "system:scheduler").Return(nil, nil).Once()

	_, provider, fetch := newRateFetchFixture(t, services.WithAutoRecalculation(recalc))
	provider.On("FetchRates", mock.Anything, "USD").Return(&domain.RateTable{
		Provider: "primary",
		Base:     "USD",
		Rates:    map[string]decimal.Decimal{"INR": dec("83"), "EUR": dec("0.9")},
	}, nil).Once()

	_, err := fetch()

	require.NoError(t, err)
	recalc.AssertExpectations(t)
	recalc.AssertNotCalled(t, "RecalculateForCurrency", mock.Anything, "EUR", mock.Anything)
}

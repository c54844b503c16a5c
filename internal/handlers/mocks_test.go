package handlers_test

import (
	"context"

	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	portssvc "github.com/SscSPs/pricing_admin_backend/internal/core/ports/services"
	"github.com/SscSPs/pricing_admin_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock CurrencyService ---
type MockCurrencyService struct {
	mock.Mock
}

func (m *MockCurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) GetBaseCurrency(ctx context.Context) (*domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) ListCurrencies(ctx context.Context, activeOnly bool) ([]domain.Currency, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) GetEffectiveRate(ctx context.Context, currencyCode string) (decimal.Decimal, error) {
	args := m.Called(ctx, currencyCode)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockCurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) UpdateCurrencyRate(ctx context.Context, currencyCode string, patch domain.CurrencyRatePatch, userID string) (*domain.RateUpdateResult, error) {
	args := m.Called(ctx, currencyCode, patch, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateUpdateResult), args.Error(1)
}

func (m *MockCurrencyService) SetBaseCurrency(ctx context.Context, currencyCode string, userID string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) ApplyFetchedRates(ctx context.Context, rates map[string]decimal.Decimal, provider string, userID string) (*domain.RateApplyResult, error) {
	args := m.Called(ctx, rates, provider, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateApplyResult), args.Error(1)
}

var _ portssvc.CurrencySvcFacade = (*MockCurrencyService)(nil)

// --- Mock PriceResolverService ---
type MockPriceResolverService struct {
	mock.Mock
}

func (m *MockPriceResolverService) ResolvePrice(ctx context.Context, productID int64, countryCode string, includeTax bool) (*domain.PriceQuote, error) {
	args := m.Called(ctx, productID, countryCode, includeTax)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceQuote), args.Error(1)
}

var _ portssvc.PriceResolverSvc = (*MockPriceResolverService)(nil)

// --- Mock RecalculationService ---
type MockRecalculationService struct {
	mock.Mock
}

func (m *MockRecalculationService) summary(args mock.Arguments) (*domain.RecalculationSummary, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecalculationSummary), args.Error(1)
}

func (m *MockRecalculationService) RecalculateAll(ctx context.Context, userID string) (*domain.RecalculationSummary, error) {
	return m.summary(m.Called(ctx, userID))
}

func (m *MockRecalculationService) RecalculateForProduct(ctx context.Context, productID int64, userID string) (*domain.RecalculationSummary, error) {
	return m.summary(m.Called(ctx, productID, userID))
}

func (m *MockRecalculationService) RecalculateForCurrency(ctx context.Context, currencyCode string, userID string) (*domain.RecalculationSummary, error) {
	return m.summary(m.Called(ctx, currencyCode, userID))
}

func (m *MockRecalculationService) RecalculateForCountry(ctx context.Context, countryCode string, userID string) (*domain.RecalculationSummary, error) {
	return m.summary(m.Called(ctx, countryCode, userID))
}

var _ portssvc.RecalculationSvc = (*MockRecalculationService)(nil)

// --- Mock RegionalOverrideService ---
type MockRegionalOverrideService struct {
	mock.Mock
}

func (m *MockRegionalOverrideService) UpsertRegionalOverride(ctx context.Context, productID int64, countryCode string, patch domain.RegionalOverridePatch, userID string) (*domain.OverrideUpsertResult, error) {
	args := m.Called(ctx, productID, countryCode, patch, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OverrideUpsertResult), args.Error(1)
}

func (m *MockRegionalOverrideService) ListRegionalOverrides(ctx context.Context, productID int64) ([]domain.RegionalOverride, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RegionalOverride), args.Error(1)
}

func (m *MockRegionalOverrideService) DeleteRegionalOverride(ctx context.Context, productID int64, countryCode string, userID string) error {
	return m.Called(ctx, productID, countryCode, userID).Error(0)
}

var _ portssvc.RegionalOverrideSvc = (*MockRegionalOverrideService)(nil)

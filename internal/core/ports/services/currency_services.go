package services

import (
	"context"

	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	"github.com/SscSPs/pricing_admin_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// CurrencyReaderSvc defines read operations for currency data
type CurrencyReaderSvc interface {
	// GetCurrencyByCode retrieves a specific currency by its code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// GetBaseCurrency retrieves the single base currency.
	GetBaseCurrency(ctx context.Context) (*domain.Currency, error)

	// ListCurrencies retrieves available currencies, optionally only active ones.
	ListCurrencies(ctx context.Context, activeOnly bool) ([]domain.Currency, error)

	// GetEffectiveRate returns the conversion rate from the base currency to currencyCode.
	GetEffectiveRate(ctx context.Context, currencyCode string) (decimal.Decimal, error)
}

// CurrencyWriterSvc defines write operations for currency data
type CurrencyWriterSvc interface {
	// CreateCurrency persists a new currency with neutral adjustment factors.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)

	// UpdateCurrencyRate applies a partial update of the conversion settings.
	UpdateCurrencyRate(ctx context.Context, currencyCode string, patch domain.CurrencyRatePatch, userID string) (*domain.RateUpdateResult, error)

	// SetBaseCurrency makes currencyCode the single base currency.
	SetBaseCurrency(ctx context.Context, currencyCode string, userID string) (*domain.Currency, error)
}

// RateApplierSvc applies provider rate tables to stored currencies.
type RateApplierSvc interface {
	// ApplyFetchedRates refreshes api rates and re-derives effective rates where not overridden.
	ApplyFetchedRates(ctx context.Context, rates map[string]decimal.Decimal, provider string, userID string) (*domain.RateApplyResult, error)
}

// CurrencySvcFacade combines all currency-related service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
	CurrencyWriterSvc
	RateApplierSvc
}

// RateFetchSvc pulls rates from the provider chain and records every attempt.
type RateFetchSvc interface {
	// FetchAndApply runs one fetch. A provider failure is reported in the returned log, not as an error.
	FetchAndApply(ctx context.Context, userID string) (*domain.CurrencyRateFetchLog, error)

	// ListFetchLogs returns the most recent fetch attempts.
	ListFetchLogs(ctx context.Context, limit int) ([]domain.CurrencyRateFetchLog, error)
}

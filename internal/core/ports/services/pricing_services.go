package services

import (
	"context"

	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	"github.com/SscSPs/pricing_admin_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// CountrySvc manages the storefront country table.
type CountrySvc interface {
	CreateCountry(ctx context.Context, req dto.CreateCountryRequest, creatorUserID string) (*domain.Country, error)
	GetCountryByCode(ctx context.Context, countryCode string) (*domain.Country, error)
	ListCountries(ctx context.Context, activeOnly bool) ([]domain.Country, error)
}

// TaxSvc edits and explains tax settings.
type TaxSvc interface {
	SetProductTax(ctx context.Context, productID int64, patch domain.ProductTaxPatch, userID string) (*domain.ProductTaxUpdateResult, error)
	SetCountryDefaultTax(ctx context.Context, countryCode string, rate decimal.Decimal, userID string) (*domain.CountryTaxUpdateResult, error)

	// ResolveTaxRate reports the rate the cascade picks for a product in a country and why.
	ResolveTaxRate(ctx context.Context, productID int64, countryCode string) (*domain.TaxResolution, error)
}

// RegionalOverrideSvc manages per-country exceptions for a product.
type RegionalOverrideSvc interface {
	UpsertRegionalOverride(ctx context.Context, productID int64, countryCode string, patch domain.RegionalOverridePatch, userID string) (*domain.OverrideUpsertResult, error)
	ListRegionalOverrides(ctx context.Context, productID int64) ([]domain.RegionalOverride, error)
	DeleteRegionalOverride(ctx context.Context, productID int64, countryCode string, userID string) error
}

// ProductPriceSvc manages stored prices outside the recalculation engine.
type ProductPriceSvc interface {
	// SetManualPrice pins a price so that automatic writers leave it alone.
	SetManualPrice(ctx context.Context, productID int64, currencyCode, countryCode string, price decimal.Decimal, userID string) (*domain.ManualPriceResult, error)

	// ReleaseManualPrice hands a pinned price back to the recalculation engine.
	ReleaseManualPrice(ctx context.Context, productID int64, currencyCode string, userID string) (*domain.ManualPriceResult, error)

	// ImportPrices upserts automatic prices row by row, skipping locked rows.
	ImportPrices(ctx context.Context, rows []domain.PriceImportRow, userID string) (*domain.ImportSummary, error)

	ListProductPrices(ctx context.Context, productID int64) ([]domain.ProductPrice, error)
}

// PriceResolverSvc answers "what does this product cost in this country".
type PriceResolverSvc interface {
	ResolvePrice(ctx context.Context, productID int64, countryCode string, includeTax bool) (*domain.PriceQuote, error)
}

// RecalculationSvc rewrites automatic prices from current rates.
type RecalculationSvc interface {
	RecalculateAll(ctx context.Context, userID string) (*domain.RecalculationSummary, error)
	RecalculateForProduct(ctx context.Context, productID int64, userID string) (*domain.RecalculationSummary, error)
	RecalculateForCurrency(ctx context.Context, currencyCode string, userID string) (*domain.RecalculationSummary, error)
	RecalculateForCountry(ctx context.Context, countryCode string, userID string) (*domain.RecalculationSummary, error)
}

// AuditSvc records and serves the pricing audit trail.
type AuditSvc interface {
	// Log appends an audit entry. Failures are logged and counted, never returned.
	Log(ctx context.Context, entry domain.PricingAuditLog)

	// LogRateChange appends a rate history row with the same failure handling as Log.
	LogRateChange(ctx context.Context, history domain.CurrencyRateHistory)

	GetAuditLogs(ctx context.Context, params dto.ListAuditLogsParams) (*dto.ListAuditLogsResponse, error)
	GetRateHistory(ctx context.Context, currencyCode string, limit int) ([]domain.CurrencyRateHistory, error)
}

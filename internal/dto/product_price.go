package dto

import (
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SetManualPriceRequest pins a product's price in one currency.
type SetManualPriceRequest struct {
	CurrencyCode string           `json:"currencyCode" binding:"required,currency_iso3"`
	CountryCode  string           `json:"countryCode" binding:"omitempty,country_iso2"`
	Price        *decimal.Decimal `json:"price" binding:"required"`
}

// ReleaseManualPriceRequest hands a pinned price back to automatic pricing.
type ReleaseManualPriceRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,currency_iso3"`
}

// ImportPriceRow is one row of a bulk price import.
type ImportPriceRow struct {
	ProductID    int64            `json:"productID" binding:"required,min=1"`
	CurrencyCode string           `json:"currencyCode" binding:"required,currency_iso3"`
	CountryCode  string           `json:"countryCode" binding:"omitempty,country_iso2"`
	Price        *decimal.Decimal `json:"price" binding:"required"`
}

// ImportPricesRequest carries a batch of automatic prices.
type ImportPricesRequest struct {
	Rows []ImportPriceRow `json:"rows" binding:"required,min=1,max=5000,dive"`
}

// ToDomainRows converts the request rows.
func (r ImportPricesRequest) ToDomainRows() []domain.PriceImportRow {
	rows := make([]domain.PriceImportRow, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = domain.PriceImportRow{
			ProductID:    row.ProductID,
			CurrencyCode: row.CurrencyCode,
			CountryCode:  row.CountryCode,
			Price:        *row.Price,
		}
	}
	return rows
}

// PriceQuoteParams holds query parameters for a price quote.
type PriceQuoteParams struct {
	Country    string `form:"country" binding:"required,country_iso2"`
	IncludeTax *bool  `form:"includeTax"`
}

// IncludeTaxOrDefault returns the includeTax flag, defaulting to true.
func (p PriceQuoteParams) IncludeTaxOrDefault() bool {
	if p.IncludeTax == nil {
		return true
	}
	return *p.IncludeTax
}

// RecalculateRequest selects the scope of a recalculation run. Empty means everything.
type RecalculateRequest struct {
	ProductID    *int64 `json:"productID" binding:"omitempty,min=1"`
	CurrencyCode string `json:"currencyCode" binding:"omitempty,currency_iso3"`
	CountryCode  string `json:"countryCode" binding:"omitempty,country_iso2"`
}

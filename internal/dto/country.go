package dto

import (
	"github.com/shopspring/decimal"
)

// CreateCountryRequest defines the data needed to register a storefront country.
type CreateCountryRequest struct {
	CountryCode    string           `json:"countryCode" binding:"required,country_iso2"`
	Name           string           `json:"name" binding:"required"`
	CurrencyCode   string           `json:"currencyCode" binding:"required,currency_iso3"`
	DefaultTaxRate *decimal.Decimal `json:"defaultTaxRate"`
}

// SetCountryTaxRequest sets a country's default tax percentage.
type SetCountryTaxRequest struct {
	DefaultTaxRate *decimal.Decimal `json:"defaultTaxRate" binding:"required"`
}

// SetProductTaxRequest is a partial update of product tax settings.
type SetProductTaxRequest struct {
	IsTaxable    *bool            `json:"isTaxable"`
	TaxRate      *decimal.Decimal `json:"taxRate"`
	ClearTaxRate bool             `json:"clearTaxRate"`
}

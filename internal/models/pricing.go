package models

import (
	"github.com/shopspring/decimal"
)

// Country is a row of the countries table.
type Country struct {
	CountryCode    string          `db:"country_code"`
	Name           string          `db:"name"`
	CurrencyCode   string          `db:"currency_code"`
	DefaultTaxRate decimal.Decimal `db:"default_tax_rate"`
	IsActive       bool            `db:"is_active"`
	AuditFields
}

// Product is the pricing columns of a products row.
type Product struct {
	ProductID int64               `db:"product_id"`
	SKU       string              `db:"sku"`
	Name      string              `db:"name"`
	BasePrice decimal.Decimal     `db:"base_price"`
	SalePrice decimal.NullDecimal `db:"sale_price"`
	IsTaxable bool                `db:"is_taxable"`
	TaxRate   decimal.NullDecimal `db:"tax_rate"`
	IsActive  bool                `db:"is_active"`
	AuditFields
}

// ProductPrice is a row of the product_prices table.
type ProductPrice struct {
	PriceID      string          `db:"price_id"`
	ProductID    int64           `db:"product_id"`
	CountryCode  string          `db:"country_code"`
	CurrencyCode string          `db:"currency_code"`
	Price        decimal.Decimal `db:"price"`
	PricingType  string          `db:"pricing_type"`
	IsActive     bool            `db:"is_active"`
	AuditFields
}

// RegionalOverride is a row of the product_regional_overrides table.
type RegionalOverride struct {
	OverrideID           string              `db:"override_id"`
	ProductID            int64               `db:"product_id"`
	CountryCode          string              `db:"country_code"`
	CurrencyCode         string              `db:"currency_code"`
	OverrideType         string              `db:"override_type"`
	BasePriceOverride    decimal.NullDecimal `db:"base_price_override"`
	SalePriceOverride    decimal.NullDecimal `db:"sale_price_override"`
	AdjustmentPercentage decimal.Decimal     `db:"adjustment_percentage"`
	TaxRateOverride      decimal.NullDecimal `db:"tax_rate_override"`
	UseCountryDefaultTax bool                `db:"use_country_default_tax"`
	PriceLocked          bool                `db:"price_locked"`
	Priority             int                 `db:"priority"`
	AuditFields
}

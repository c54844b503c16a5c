package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is a row of the currencies table.
type Currency struct {
	CurrencyCode           string              `db:"currency_code"` // Primary Key (e.g., "USD")
	Symbol                 string              `db:"symbol"`
	Name                   string              `db:"name"`
	Precision              int                 `db:"precision"`
	APIRate                decimal.Decimal     `db:"api_rate"`
	ExchangeRate           decimal.Decimal     `db:"exchange_rate"`
	AdjustmentFactor       decimal.Decimal     `db:"adjustment_factor"`
	CustomPercentageChange decimal.Decimal     `db:"custom_percentage_change"`
	CustomValueFactor      decimal.Decimal     `db:"custom_value_factor"`
	RegionalTaxPercent     decimal.Decimal     `db:"regional_tax_percent"`
	ManualOverride         bool                `db:"manual_override"`
	ManualRate             decimal.NullDecimal `db:"manual_rate"`
	RateSource             string              `db:"rate_source"`
	IsBaseCurrency         bool                `db:"is_base_currency"`
	IsActive               bool                `db:"is_active"`
	LastUpdated            time.Time           `db:"last_updated"`
	LastAPIUpdate          *time.Time          `db:"last_api_update"`
	AuditFields
}

package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Rate provenance values stored in Currency.RateSource.
const (
	RateSourceManual  = "manual:dashboard"
	RateSourceBase    = "base"
	RateSourceSeed    = "seed"
	RateSourceRebase  = "rebase"
	rateSourceAPIFrom = "api:"
)

// APIRateSource formats the provenance string for a rate that came from a provider.
func APIRateSource(provider string) string {
	return rateSourceAPIFrom + provider
}

// Currency represents a supported currency together with its conversion settings.
//
// APIRate is the last raw rate fetched from a provider, relative to the base currency.
// ExchangeRate is the effective rate used for conversions: either derived from APIRate
// through the adjustment factors or pinned to ManualRate.
type Currency struct {
	CurrencyCode           string           `json:"currencyCode"` // Primary Key (e.g., "USD")
	Symbol                 string           `json:"symbol"`
	Name                   string           `json:"name"`
	Precision              int              `json:"precision"`
	APIRate                decimal.Decimal  `json:"apiRate"`
	ExchangeRate           decimal.Decimal  `json:"exchangeRate"`
	AdjustmentFactor       decimal.Decimal  `json:"adjustmentFactor"`
	CustomPercentageChange decimal.Decimal  `json:"customPercentageChange"` // markup %, may be negative
	CustomValueFactor      decimal.Decimal  `json:"customValueFactor"`
	RegionalTaxPercent     decimal.Decimal  `json:"regionalTaxPercent"`
	ManualOverride         bool             `json:"manualOverride"`
	ManualRate             *decimal.Decimal `json:"manualRate,omitempty"`
	RateSource             string           `json:"rateSource"`
	IsBaseCurrency         bool             `json:"isBaseCurrency"`
	IsActive               bool             `json:"isActive"`
	LastUpdated            time.Time        `json:"lastUpdated"`
	LastAPIUpdate          *time.Time       `json:"lastAPIUpdate,omitempty"`
	AuditFields
}

// NewCurrency builds an active currency with neutral adjustment factors.
func NewCurrency(code, name, symbol string) Currency {
	return Currency{
		CurrencyCode:           code,
		Name:                   name,
		Symbol:                 symbol,
		Precision:              MoneyDecimalPlaces,
		AdjustmentFactor:       decimal.NewFromInt(1),
		CustomValueFactor:      decimal.NewFromInt(1),
		CustomPercentageChange: decimal.Zero,
		RegionalTaxPercent:     decimal.Zero,
		IsActive:               true,
	}
}

// MarkAsBase turns the currency into the base currency. Its rate is fixed at 1.
func (c *Currency) MarkAsBase(now time.Time) {
	c.IsBaseCurrency = true
	c.ManualOverride = false
	c.ManualRate = nil
	c.APIRate = decimal.NewFromInt(1)
	c.ExchangeRate = decimal.NewFromInt(1)
	c.RateSource = RateSourceBase
	c.LastUpdated = now
}

// RecomputeExchangeRate re-derives ExchangeRate from the current settings.
// It reports whether the stored effective rate moved by more than RateEpsilon.
func (c *Currency) RecomputeExchangeRate(source string, now time.Time) (bool, error) {
	effective, err := EffectiveRate(*c, c.APIRate)
	if err != nil {
		return false, err
	}
	switch {
	case c.IsBaseCurrency:
		source = RateSourceBase
	case c.ManualOverride:
		source = RateSourceManual
	}
	if RatesEqual(effective, c.ExchangeRate) {
		return false, nil
	}
	c.ExchangeRate = effective
	c.RateSource = source
	c.LastUpdated = now
	return true, nil
}

// ApplyAPIRate records a freshly fetched raw rate.
//
// APIRate is refreshed unconditionally so that lifting a manual override later resumes
// from a current baseline. ExchangeRate is only re-derived when the currency is neither
// the base currency nor manually overridden.
func (c *Currency) ApplyAPIRate(raw decimal.Decimal, source string, now time.Time) (bool, error) {
	if !raw.IsPositive() {
		return false, apperrors.NewConfigurationError(fmt.Sprintf("provider rate for %s must be positive, got %s", c.CurrencyCode, raw))
	}
	if c.IsBaseCurrency {
		return false, nil
	}
	c.APIRate = raw
	c.LastAPIUpdate = &now
	if c.ManualOverride {
		return false, nil
	}
	return c.RecomputeExchangeRate(source, now)
}

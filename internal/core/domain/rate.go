package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// RateEpsilon is the relative tolerance under which two rates count as unchanged.
var RateEpsilon = decimal.New(1, -6)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// EffectiveRate derives the conversion rate actually applied for c from a raw provider rate.
//
//	effective = raw × (1 + markup/100) × valueFactor × adjustmentFactor
//
// The base currency is always 1. A manually overridden currency returns its manual rate
// and ignores raw and every factor.
func EffectiveRate(c Currency, raw decimal.Decimal) (decimal.Decimal, error) {
	if c.IsBaseCurrency {
		return one, nil
	}
	if c.ManualOverride {
		if c.ManualRate == nil || !c.ManualRate.IsPositive() {
			return decimal.Zero, apperrors.NewConfigurationError(
				fmt.Sprintf("currency %s is manually overridden without a positive manual rate", c.CurrencyCode))
		}
		return *c.ManualRate, nil
	}
	if !raw.IsPositive() {
		return decimal.Zero, apperrors.NewConfigurationError(
			fmt.Sprintf("currency %s has no fetched rate to derive an effective rate from", c.CurrencyCode))
	}
	markup := one.Add(c.CustomPercentageChange.Div(hundred))
	return raw.Mul(markup).Mul(factorOrOne(c.CustomValueFactor)).Mul(factorOrOne(c.AdjustmentFactor)), nil
}

// factorOrOne treats an unset (zero) multiplicative factor as neutral.
func factorOrOne(f decimal.Decimal) decimal.Decimal {
	if f.IsZero() {
		return one
	}
	return f
}

// RatesEqual compares two rates with the canonical relative epsilon.
func RatesEqual(a, b decimal.Decimal) bool {
	scale := decimal.Max(a.Abs(), b.Abs())
	if scale.IsZero() {
		return true
	}
	return a.Sub(b).Abs().LessThanOrEqual(scale.Mul(RateEpsilon))
}

// ChangePercent returns the percent delta from oldRate to newRate, rounded to 4 places.
// A move away from zero has no meaningful percentage and reports zero.
func ChangePercent(oldRate, newRate decimal.Decimal) decimal.Decimal {
	if oldRate.IsZero() {
		return decimal.Zero
	}
	return newRate.Sub(oldRate).Div(oldRate).Mul(hundred).Round(4)
}

// RateTable is one provider response: units of each currency per unit of Base.
type RateTable struct {
	Provider  string                     `json:"provider"`
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	Raw       []byte                     `json:"-"`
	FetchedAt time.Time                  `json:"fetchedAt"`
}

package domain

import "github.com/shopspring/decimal"

// MoneyDecimalPlaces is the precision of every amount exposed outside the engine.
const MoneyDecimalPlaces = 2

// RoundMoney rounds an amount half away from zero to MoneyDecimalPlaces.
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyDecimalPlaces)
}

// ApplyPercentage returns amount × (1 + pct/100).
func ApplyPercentage(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(one.Add(pct.Div(hundred)))
}

// ConvertFromBase converts a base-currency amount with an effective rate. The result is not rounded.
func ConvertFromBase(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate)
}

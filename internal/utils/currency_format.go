package utils

import (
	"github.com/shopspring/decimal"
)

// FormatWithPrecision formats an amount with exactly precision decimal places.
// Example: 12.3456 at precision 2 returns "12.35", at precision 0 returns "12".
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.StringFixed(int32(precision))
}

// FormatMoney prefixes a fixed-precision amount with a currency symbol, e.g. "₹99120.00".
func FormatMoney(amount decimal.Decimal, symbol string, precision int) string {
	return symbol + FormatWithPrecision(amount, precision)
}

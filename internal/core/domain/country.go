package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Country maps a storefront country selector onto a currency and a default tax rate.
type Country struct {
	CountryCode    string          `json:"countryCode"` // ISO 3166-1 alpha-2
	Name           string          `json:"name"`
	CurrencyCode   string          `json:"currencyCode"`
	DefaultTaxRate decimal.Decimal `json:"defaultTaxRate"` // percent
	IsActive       bool            `json:"isActive"`
	AuditFields
}

// DefaultCountryForCurrency picks the country a currency-only price row is filed under.
// The alphabetically first active country using the currency wins; otherwise the first two
// letters of the ISO 4217 code are used, which name the issuing country for most currencies.
func DefaultCountryForCurrency(currencyCode string, countries []Country) string {
	var candidates []string
	for _, c := range countries {
		if c.IsActive && strings.EqualFold(c.CurrencyCode, currencyCode) {
			candidates = append(candidates, c.CountryCode)
		}
	}
	if len(candidates) > 0 {
		sort.Strings(candidates)
		return candidates[0]
	}
	if len(currencyCode) >= 2 {
		return strings.ToUpper(currencyCode[:2])
	}
	return strings.ToUpper(currencyCode)
}

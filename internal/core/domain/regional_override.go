package domain

import "github.com/shopspring/decimal"

// RegionalOverride is a per-product, per-country exception layered above ProductPrice.
type RegionalOverride struct {
	OverrideID           string           `json:"overrideID"`
	ProductID            int64            `json:"productID"`
	CountryCode          string           `json:"countryCode"`
	CurrencyCode         string           `json:"currencyCode"`
	OverrideType         PricingType      `json:"overrideType"`
	BasePriceOverride    *decimal.Decimal `json:"basePriceOverride,omitempty"`
	SalePriceOverride    *decimal.Decimal `json:"salePriceOverride,omitempty"`
	AdjustmentPercentage decimal.Decimal  `json:"adjustmentPercentage"`
	TaxRateOverride      *decimal.Decimal `json:"taxRateOverride,omitempty"`
	UseCountryDefaultTax bool             `json:"useCountryDefaultTax"`
	PriceLocked          bool             `json:"priceLocked"`
	Priority             int              `json:"priority"`
	AuditFields
}

// Locked reports whether the override's prices are pinned by an admin.
func (o *RegionalOverride) Locked() bool {
	return o != nil && o.PriceLocked
}

// NewRegionalOverride returns an override with neutral settings for (product, country).
func NewRegionalOverride(productID int64, country Country) RegionalOverride {
	return RegionalOverride{
		ProductID:            productID,
		CountryCode:          country.CountryCode,
		CurrencyCode:         country.CurrencyCode,
		OverrideType:         PricingTypeAuto,
		AdjustmentPercentage: decimal.Zero,
		UseCountryDefaultTax: true,
	}
}

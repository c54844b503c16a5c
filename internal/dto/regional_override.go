package dto

import (
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpsertRegionalOverrideRequest is a partial update of a regional override;
// on creation, omitted fields take their defaults.
type UpsertRegionalOverrideRequest struct {
	CurrencyCode           *string          `json:"currencyCode" binding:"omitempty,currency_iso3"`
	OverrideType           *string          `json:"overrideType" binding:"omitempty,oneof=AUTO MANUAL"`
	BasePriceOverride      *decimal.Decimal `json:"basePriceOverride"`
	ClearBasePriceOverride bool             `json:"clearBasePriceOverride"`
	SalePriceOverride      *decimal.Decimal `json:"salePriceOverride"`
	ClearSalePriceOverride bool             `json:"clearSalePriceOverride"`
	AdjustmentPercentage   *decimal.Decimal `json:"adjustmentPercentage"`
	TaxRateOverride        *decimal.Decimal `json:"taxRateOverride"`
	ClearTaxRateOverride   bool             `json:"clearTaxRateOverride"`
	UseCountryDefaultTax   *bool            `json:"useCountryDefaultTax"`
	PriceLocked            *bool            `json:"priceLocked"`
	Priority               *int             `json:"priority" binding:"omitempty,min=0"`
}

// ToPatch converts the request into a domain patch.
func (r UpsertRegionalOverrideRequest) ToPatch() domain.RegionalOverridePatch {
	p := domain.RegionalOverridePatch{
		CurrencyCode:           r.CurrencyCode,
		BasePriceOverride:      r.BasePriceOverride,
		ClearBasePriceOverride: r.ClearBasePriceOverride,
		SalePriceOverride:      r.SalePriceOverride,
		ClearSalePriceOverride: r.ClearSalePriceOverride,
		AdjustmentPercentage:   r.AdjustmentPercentage,
		TaxRateOverride:        r.TaxRateOverride,
		ClearTaxRateOverride:   r.ClearTaxRateOverride,
		UseCountryDefaultTax:   r.UseCountryDefaultTax,
		PriceLocked:            r.PriceLocked,
		Priority:               r.Priority,
	}
	if r.OverrideType != nil {
		t := domain.PricingType(*r.OverrideType)
		p.OverrideType = &t
	}
	return p
}

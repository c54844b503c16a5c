package domain

import (
	"fmt"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// CurrencyRatePatch is a partial update of a currency's conversion settings.
// A nil field leaves the attribute untouched.
type CurrencyRatePatch struct {
	AdjustmentFactor   *decimal.Decimal
	MarkupPercent      *decimal.Decimal
	ValueFactor        *decimal.Decimal
	ManualOverride     *bool
	ManualRate         *decimal.Decimal
	RegionalTaxPercent *decimal.Decimal
	IsActive           *bool
	Reason             string
}

// IsEmpty reports whether the patch changes nothing.
func (p CurrencyRatePatch) IsEmpty() bool {
	return p.AdjustmentFactor == nil && p.MarkupPercent == nil && p.ValueFactor == nil &&
		p.ManualOverride == nil && p.ManualRate == nil && p.RegionalTaxPercent == nil && p.IsActive == nil
}

func (p CurrencyRatePatch) affectsRate() bool {
	return p.AdjustmentFactor != nil || p.MarkupPercent != nil || p.ValueFactor != nil ||
		p.ManualOverride != nil || p.ManualRate != nil
}

// Validate checks the patch on its own, without looking at the target currency.
func (p CurrencyRatePatch) Validate() error {
	if p.IsEmpty() {
		return apperrors.NewValidationError("currency rate patch has no fields to update")
	}
	if p.AdjustmentFactor != nil && !p.AdjustmentFactor.IsPositive() {
		return apperrors.NewValidationError("adjustmentFactor must be positive")
	}
	if p.ValueFactor != nil && !p.ValueFactor.IsPositive() {
		return apperrors.NewValidationError("valueFactor must be positive")
	}
	if p.MarkupPercent != nil && p.MarkupPercent.LessThanOrEqual(hundred.Neg()) {
		return apperrors.NewValidationError("markupPercent must be greater than -100")
	}
	if p.ManualRate != nil && !p.ManualRate.IsPositive() {
		return apperrors.NewValidationError("manualRate must be positive")
	}
	if p.ManualOverride != nil && !*p.ManualOverride && p.ManualRate != nil {
		return apperrors.NewValidationError("manualRate cannot be set while disabling manualOverride")
	}
	if p.RegionalTaxPercent != nil && !ValidTaxRate(*p.RegionalTaxPercent) {
		return apperrors.NewValidationError("regionalTaxPercent must be between 0 and 100")
	}
	return nil
}

// Apply returns a patched copy of c. It does not recompute the exchange rate.
func (p CurrencyRatePatch) Apply(c Currency) (Currency, error) {
	if err := p.Validate(); err != nil {
		return c, err
	}
	if c.IsBaseCurrency && p.affectsRate() {
		return c, apperrors.NewValidationError(fmt.Sprintf("base currency %s has a fixed rate of 1", c.CurrencyCode))
	}
	out := c
	if c.ManualRate != nil {
		mr := *c.ManualRate
		out.ManualRate = &mr
	}
	if p.AdjustmentFactor != nil {
		out.AdjustmentFactor = *p.AdjustmentFactor
	}
	if p.MarkupPercent != nil {
		out.CustomPercentageChange = *p.MarkupPercent
	}
	if p.ValueFactor != nil {
		out.CustomValueFactor = *p.ValueFactor
	}
	if p.RegionalTaxPercent != nil {
		out.RegionalTaxPercent = *p.RegionalTaxPercent
	}
	if p.IsActive != nil {
		out.IsActive = *p.IsActive
	}
	if p.ManualRate != nil {
		mr := *p.ManualRate
		out.ManualRate = &mr
		out.ManualOverride = true
	}
	if p.ManualOverride != nil {
		out.ManualOverride = *p.ManualOverride
		if !out.ManualOverride {
			out.ManualRate = nil
		}
	}
	if out.ManualOverride && out.ManualRate == nil {
		return c, apperrors.NewValidationError("manualOverride requires a manualRate")
	}
	return out, nil
}

// ProductTaxPatch is a partial update of a product's tax settings.
type ProductTaxPatch struct {
	IsTaxable    *bool
	TaxRate      *decimal.Decimal
	ClearTaxRate bool
}

func (p ProductTaxPatch) Validate() error {
	if p.IsTaxable == nil && p.TaxRate == nil && !p.ClearTaxRate {
		return apperrors.NewValidationError("product tax patch has no fields to update")
	}
	if p.TaxRate != nil && p.ClearTaxRate {
		return apperrors.NewValidationError("taxRate and clearTaxRate are mutually exclusive")
	}
	if p.TaxRate != nil && !ValidTaxRate(*p.TaxRate) {
		return apperrors.NewValidationError("taxRate must be between 0 and 100")
	}
	return nil
}

// Apply returns a patched copy of the product.
func (p ProductTaxPatch) Apply(prod Product) (Product, error) {
	if err := p.Validate(); err != nil {
		return prod, err
	}
	out := prod
	if p.IsTaxable != nil {
		out.IsTaxable = *p.IsTaxable
	}
	switch {
	case p.ClearTaxRate:
		out.TaxRate = nil
	case p.TaxRate != nil:
		r := *p.TaxRate
		out.TaxRate = &r
	}
	return out, nil
}

// RegionalOverridePatch is a partial update of a regional override.
// The Clear* flags null out the matching optional column.
type RegionalOverridePatch struct {
	CurrencyCode           *string
	OverrideType           *PricingType
	BasePriceOverride      *decimal.Decimal
	ClearBasePriceOverride bool
	SalePriceOverride      *decimal.Decimal
	ClearSalePriceOverride bool
	AdjustmentPercentage   *decimal.Decimal
	TaxRateOverride        *decimal.Decimal
	ClearTaxRateOverride   bool
	UseCountryDefaultTax   *bool
	PriceLocked            *bool
	Priority               *int
}

// TouchesPrice reports whether the patch edits any price-bearing field.
func (p RegionalOverridePatch) TouchesPrice() bool {
	return p.BasePriceOverride != nil || p.ClearBasePriceOverride ||
		p.SalePriceOverride != nil || p.ClearSalePriceOverride ||
		p.AdjustmentPercentage != nil || p.CurrencyCode != nil || p.OverrideType != nil
}

// Unlocks reports whether the patch explicitly releases the price lock.
func (p RegionalOverridePatch) Unlocks() bool {
	return p.PriceLocked != nil && !*p.PriceLocked
}

func (p RegionalOverridePatch) Validate() error {
	if p.BasePriceOverride != nil && !p.BasePriceOverride.IsPositive() {
		return apperrors.NewValidationError("basePriceOverride must be positive")
	}
	if p.SalePriceOverride != nil && !p.SalePriceOverride.IsPositive() {
		return apperrors.NewValidationError("salePriceOverride must be positive")
	}
	if p.BasePriceOverride != nil && p.ClearBasePriceOverride {
		return apperrors.NewValidationError("basePriceOverride and clearBasePriceOverride are mutually exclusive")
	}
	if p.SalePriceOverride != nil && p.ClearSalePriceOverride {
		return apperrors.NewValidationError("salePriceOverride and clearSalePriceOverride are mutually exclusive")
	}
	if p.TaxRateOverride != nil && p.ClearTaxRateOverride {
		return apperrors.NewValidationError("taxRateOverride and clearTaxRateOverride are mutually exclusive")
	}
	if p.AdjustmentPercentage != nil && p.AdjustmentPercentage.LessThanOrEqual(hundred.Neg()) {
		return apperrors.NewValidationError("adjustmentPercentage must be greater than -100")
	}
	if p.TaxRateOverride != nil && !ValidTaxRate(*p.TaxRateOverride) {
		return apperrors.NewValidationError("taxRateOverride must be between 0 and 100")
	}
	if p.OverrideType != nil && !p.OverrideType.IsValid() {
		return apperrors.NewValidationError("overrideType must be AUTO or MANUAL")
	}
	return nil
}

// Apply returns a patched copy of o. A locked override rejects price edits
// unless the same patch releases the lock.
func (p RegionalOverridePatch) Apply(o RegionalOverride) (RegionalOverride, error) {
	if err := p.Validate(); err != nil {
		return o, err
	}
	if IsLocked(&o) && p.TouchesPrice() && !p.Unlocks() {
		return o, fmt.Errorf("regional override for product %d in %s: %w", o.ProductID, o.CountryCode, apperrors.ErrLocked)
	}
	out := o
	if p.CurrencyCode != nil {
		out.CurrencyCode = *p.CurrencyCode
	}
	switch {
	case p.ClearBasePriceOverride:
		out.BasePriceOverride = nil
	case p.BasePriceOverride != nil:
		v := *p.BasePriceOverride
		out.BasePriceOverride = &v
	}
	switch {
	case p.ClearSalePriceOverride:
		out.SalePriceOverride = nil
	case p.SalePriceOverride != nil:
		v := *p.SalePriceOverride
		out.SalePriceOverride = &v
	}
	switch {
	case p.ClearTaxRateOverride:
		out.TaxRateOverride = nil
	case p.TaxRateOverride != nil:
		v := *p.TaxRateOverride
		out.TaxRateOverride = &v
	}
	if p.AdjustmentPercentage != nil {
		out.AdjustmentPercentage = *p.AdjustmentPercentage
	}
	if p.UseCountryDefaultTax != nil {
		out.UseCountryDefaultTax = *p.UseCountryDefaultTax
	}
	if p.PriceLocked != nil {
		out.PriceLocked = *p.PriceLocked
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	switch {
	case p.OverrideType != nil:
		out.OverrideType = *p.OverrideType
	case p.BasePriceOverride != nil:
		out.OverrideType = PricingTypeManual
	case p.ClearBasePriceOverride:
		out.OverrideType = PricingTypeAuto
	}
	return out, nil
}

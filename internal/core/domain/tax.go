package domain

import "github.com/shopspring/decimal"

// TaxSource names the rule that produced a resolved tax rate.
type TaxSource string

const (
	TaxSourceNotTaxable       TaxSource = "not_taxable"
	TaxSourceRegionalOverride TaxSource = "regional_override"
	TaxSourceProduct          TaxSource = "product"
	TaxSourceCountryDefault   TaxSource = "country_default"
	TaxSourceNone             TaxSource = "none"
)

// TaxInput is everything a tax rule may look at. Country and Override are optional.
type TaxInput struct {
	Product  Product
	Country  *Country
	Override *RegionalOverride
}

// TaxResolution is a resolved percentage rate and the rule that chose it.
type TaxResolution struct {
	Rate   decimal.Decimal `json:"rate"`
	Source TaxSource       `json:"source"`
}

// TaxRule inspects the input and either decides the rate (ok=true) or defers to the next rule.
type TaxRule interface {
	Name() string
	Resolve(in TaxInput) (TaxResolution, bool)
}

// TaxabilityGateRule forces a zero rate for non-taxable products.
type TaxabilityGateRule struct{}

func (TaxabilityGateRule) Name() string { return "taxability_gate" }

func (TaxabilityGateRule) Resolve(in TaxInput) (TaxResolution, bool) {
	if !in.Product.IsTaxable {
		return TaxResolution{Rate: decimal.Zero, Source: TaxSourceNotTaxable}, true
	}
	return TaxResolution{}, false
}

// RegionalOverrideTaxRule uses the override's explicit tax rate when one is set.
type RegionalOverrideTaxRule struct{}

func (RegionalOverrideTaxRule) Name() string { return "regional_override" }

func (RegionalOverrideTaxRule) Resolve(in TaxInput) (TaxResolution, bool) {
	if in.Override == nil || in.Override.TaxRateOverride == nil {
		return TaxResolution{}, false
	}
	return TaxResolution{Rate: *in.Override.TaxRateOverride, Source: TaxSourceRegionalOverride}, true
}

// ProductTaxRule uses the product's own rate when it is set and non-zero.
type ProductTaxRule struct{}

func (ProductTaxRule) Name() string { return "product" }

func (ProductTaxRule) Resolve(in TaxInput) (TaxResolution, bool) {
	if in.Product.TaxRate == nil || in.Product.TaxRate.IsZero() {
		return TaxResolution{}, false
	}
	return TaxResolution{Rate: *in.Product.TaxRate, Source: TaxSourceProduct}, true
}

// CountryDefaultTaxRule falls back to the country's default rate, unless an override opted out of it.
type CountryDefaultTaxRule struct{}

func (CountryDefaultTaxRule) Name() string { return "country_default" }

func (CountryDefaultTaxRule) Resolve(in TaxInput) (TaxResolution, bool) {
	if in.Country == nil {
		return TaxResolution{}, false
	}
	if in.Override != nil && !in.Override.UseCountryDefaultTax {
		return TaxResolution{}, false
	}
	return TaxResolution{Rate: in.Country.DefaultTaxRate, Source: TaxSourceCountryDefault}, true
}

// ZeroTaxRule terminates the cascade.
type ZeroTaxRule struct{}

func (ZeroTaxRule) Name() string { return "zero" }

func (ZeroTaxRule) Resolve(TaxInput) (TaxResolution, bool) {
	return TaxResolution{Rate: decimal.Zero, Source: TaxSourceNone}, true
}

// TaxResolver walks its rules in order and returns the first decision.
type TaxResolver struct {
	rules []TaxRule
}

// NewTaxResolver builds a resolver over the given ordered rules.
func NewTaxResolver(rules ...TaxRule) TaxResolver {
	return TaxResolver{rules: rules}
}

// DefaultTaxResolver is the production cascade:
// not taxable → override rate → product rate → country default → 0.
func DefaultTaxResolver() TaxResolver {
	return NewTaxResolver(
		TaxabilityGateRule{},
		RegionalOverrideTaxRule{},
		ProductTaxRule{},
		CountryDefaultTaxRule{},
		ZeroTaxRule{},
	)
}

// Resolve returns the first rule's decision, or a zero rate when no rule decides.
func (r TaxResolver) Resolve(in TaxInput) TaxResolution {
	for _, rule := range r.rules {
		if res, ok := rule.Resolve(in); ok {
			return res
		}
	}
	return TaxResolution{Rate: decimal.Zero, Source: TaxSourceNone}
}

// TaxAmount computes the unrounded tax on subtotal at a percentage rate.
func TaxAmount(subtotal, ratePercent decimal.Decimal, includeTax bool) decimal.Decimal {
	if !includeTax {
		return decimal.Zero
	}
	return subtotal.Mul(ratePercent).Div(hundred)
}

// ValidTaxRate reports whether a percentage lies within [0, 100].
func ValidTaxRate(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(hundred)
}

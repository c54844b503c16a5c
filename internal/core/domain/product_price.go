package domain

import "github.com/shopspring/decimal"

// PricingType distinguishes system-computed prices from admin-pinned ones.
type PricingType string

const (
	PricingTypeAuto   PricingType = "AUTO"
	PricingTypeManual PricingType = "MANUAL"
)

// IsValid reports whether t is a known pricing type.
func (t PricingType) IsValid() bool {
	return t == PricingTypeAuto || t == PricingTypeManual
}

// ProductPrice is the stored, currency-converted, tax-exclusive price of a product.
type ProductPrice struct {
	PriceID      string          `json:"priceID"`
	ProductID    int64           `json:"productID"`
	CountryCode  string          `json:"countryCode"`
	CurrencyCode string          `json:"currencyCode"`
	Price        decimal.Decimal `json:"price"`
	PricingType  PricingType     `json:"pricingType"`
	IsActive     bool            `json:"isActive"`
	AuditFields
}

// Locked reports whether automatic writers must leave the row alone.
func (p *ProductPrice) Locked() bool {
	return p != nil && p.PricingType == PricingTypeManual
}

// Lockable is anything an admin can pin against automatic writes.
type Lockable interface {
	Locked() bool
}

// IsLocked is the single guard every automatic writer consults before touching a row.
func IsLocked(row Lockable) bool {
	if row == nil {
		return false
	}
	return row.Locked()
}

// PriceWriteOutcome is what an automatic writer did (or would do) with one price row.
type PriceWriteOutcome string

const (
	PriceCreated       PriceWriteOutcome = "created"
	PriceUpdated       PriceWriteOutcome = "updated"
	PriceUnchanged     PriceWriteOutcome = "unchanged"
	PriceSkippedLocked PriceWriteOutcome = "skipped_locked"
)

// Changed reports whether the outcome modified stored state.
func (o PriceWriteOutcome) Changed() bool {
	return o == PriceCreated || o == PriceUpdated
}

// PlanAutoPrice decides how an automatic writer treats the existing row for a new price.
func PlanAutoPrice(existing *ProductPrice, price decimal.Decimal) PriceWriteOutcome {
	if existing == nil {
		return PriceCreated
	}
	if IsLocked(existing) {
		return PriceSkippedLocked
	}
	if existing.IsActive && existing.PricingType == PricingTypeAuto && existing.Price.Equal(price) {
		return PriceUnchanged
	}
	return PriceUpdated
}

package domain

import "github.com/shopspring/decimal"

// Product is the pricing-relevant view of a catalog product. Catalog CRUD lives elsewhere.
type Product struct {
	ProductID int64            `json:"productID"`
	SKU       string           `json:"sku"`
	Name      string           `json:"name"`
	BasePrice decimal.Decimal  `json:"basePrice"` // canonical value in the base currency
	SalePrice *decimal.Decimal `json:"salePrice,omitempty"`
	IsTaxable bool             `json:"isTaxable"`
	TaxRate   *decimal.Decimal `json:"taxRate,omitempty"` // percent, product-level override
	IsActive  bool             `json:"isActive"`
	AuditFields
}

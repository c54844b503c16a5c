package domain

// RateUpdateResult carries both sides of an admin rate edit.
type RateUpdateResult struct {
	Previous Currency `json:"previous"`
	Updated  Currency `json:"updated"`
	Changed  bool     `json:"changed"`
}

// ProductTaxUpdateResult carries both sides of a product tax edit.
type ProductTaxUpdateResult struct {
	Previous Product `json:"previous"`
	Updated  Product `json:"updated"`
}

// CountryTaxUpdateResult carries both sides of a country default tax edit.
type CountryTaxUpdateResult struct {
	Previous Country `json:"previous"`
	Updated  Country `json:"updated"`
}

// OverrideUpsertResult carries the stored override and, for edits, what it replaced.
type OverrideUpsertResult struct {
	Previous *RegionalOverride `json:"previous,omitempty"`
	Override RegionalOverride  `json:"override"`
	Created  bool              `json:"created"`
}

// ManualPriceResult carries both sides of a manual pin or release.
type ManualPriceResult struct {
	Previous *ProductPrice `json:"previous,omitempty"`
	Updated  ProductPrice  `json:"updated"`
}

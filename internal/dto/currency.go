package dto

import (
	"time"

	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCurrencyRequest defines the data needed to create a new currency.
type CreateCurrencyRequest struct {
	CurrencyCode string           `json:"currencyCode" binding:"required,currency_iso3"`
	Symbol       string           `json:"symbol" binding:"required"`
	Name         string           `json:"name" binding:"required"`
	Precision    *int             `json:"precision" binding:"omitempty,min=0,max=8"`
	APIRate      *decimal.Decimal `json:"apiRate"` // optional seed rate until the first fetch
	IsBase       bool             `json:"isBase"`
}

// UpdateCurrencyRateRequest is a partial update; omitted fields are left unchanged.
type UpdateCurrencyRateRequest struct {
	AdjustmentFactor   *decimal.Decimal `json:"adjustmentFactor"`
	MarkupPercent      *decimal.Decimal `json:"markupPercent"`
	ValueFactor        *decimal.Decimal `json:"valueFactor"`
	ManualOverride     *bool            `json:"manualOverride"`
	ManualRate         *decimal.Decimal `json:"manualRate"`
	RegionalTaxPercent *decimal.Decimal `json:"regionalTaxPercent"`
	IsActive           *bool            `json:"isActive"`
	Reason             string           `json:"reason" binding:"max=500"`
}

// ToPatch converts the request into a domain patch.
func (r UpdateCurrencyRateRequest) ToPatch() domain.CurrencyRatePatch {
	return domain.CurrencyRatePatch{
		AdjustmentFactor:   r.AdjustmentFactor,
		MarkupPercent:      r.MarkupPercent,
		ValueFactor:        r.ValueFactor,
		ManualOverride:     r.ManualOverride,
		ManualRate:         r.ManualRate,
		RegionalTaxPercent: r.RegionalTaxPercent,
		IsActive:           r.IsActive,
		Reason:             r.Reason,
	}
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyCode           string           `json:"currencyCode"`
	Symbol                 string           `json:"symbol"`
	Name                   string           `json:"name"`
	Precision              int              `json:"precision"`
	APIRate                decimal.Decimal  `json:"apiRate"`
	ExchangeRate           decimal.Decimal  `json:"exchangeRate"`
	AdjustmentFactor       decimal.Decimal  `json:"adjustmentFactor"`
	CustomPercentageChange decimal.Decimal  `json:"customPercentageChange"`
	CustomValueFactor      decimal.Decimal  `json:"customValueFactor"`
	RegionalTaxPercent     decimal.Decimal  `json:"regionalTaxPercent"`
	ManualOverride         bool             `json:"manualOverride"`
	ManualRate             *decimal.Decimal `json:"manualRate,omitempty"`
	RateSource             string           `json:"rateSource"`
	IsBaseCurrency         bool             `json:"isBaseCurrency"`
	IsActive               bool             `json:"isActive"`
	LastUpdated            time.Time        `json:"lastUpdated"`
	LastAPIUpdate          *time.Time       `json:"lastAPIUpdate,omitempty"`
	CreatedAt              time.Time        `json:"createdAt"`
	CreatedBy              string           `json:"createdBy"`
	LastUpdatedAt          time.Time        `json:"lastUpdatedAt"`
	LastUpdatedBy          string           `json:"lastUpdatedBy"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO
func ToCurrencyResponse(curr *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode:           curr.CurrencyCode,
		Symbol:                 curr.Symbol,
		Name:                   curr.Name,
		Precision:              curr.Precision,
		APIRate:                curr.APIRate,
		ExchangeRate:           curr.ExchangeRate,
		AdjustmentFactor:       curr.AdjustmentFactor,
		CustomPercentageChange: curr.CustomPercentageChange,
		CustomValueFactor:      curr.CustomValueFactor,
		RegionalTaxPercent:     curr.RegionalTaxPercent,
		ManualOverride:         curr.ManualOverride,
		ManualRate:             curr.ManualRate,
		RateSource:             curr.RateSource,
		IsBaseCurrency:         curr.IsBaseCurrency,
		IsActive:               curr.IsActive,
		LastUpdated:            curr.LastUpdated,
		LastAPIUpdate:          curr.LastAPIUpdate,
		CreatedAt:              curr.CreatedAt,
		CreatedBy:              curr.CreatedBy,
		LastUpdatedAt:          curr.LastUpdatedAt,
		LastUpdatedBy:          curr.LastUpdatedBy,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to a slice of CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, curr := range currencies {
		res[i] = ToCurrencyResponse(&curr)
	}
	return res
}

// EffectiveRateResponse is the answer to "how many units of this currency per base unit".
type EffectiveRateResponse struct {
	CurrencyCode string          `json:"currencyCode"`
	Rate         decimal.Decimal `json:"rate"`
}

// CurrencyRateUpdateResponse returns both sides of a rate edit.
type CurrencyRateUpdateResponse struct {
	Previous CurrencyResponse `json:"previous"`
	Updated  CurrencyResponse `json:"updated"`
	Changed  bool             `json:"changed"`
}

// ToCurrencyRateUpdateResponse converts a domain.RateUpdateResult to its DTO.
func ToCurrencyRateUpdateResponse(res *domain.RateUpdateResult) CurrencyRateUpdateResponse {
	return CurrencyRateUpdateResponse{
		Previous: ToCurrencyResponse(&res.Previous),
		Updated:  ToCurrencyResponse(&res.Updated),
		Changed:  res.Changed,
	}
}

// ListCurrenciesParams holds query parameters for listing currencies.
type ListCurrenciesParams struct {
	ActiveOnly bool `form:"activeOnly"`
}

// ListLimitParams holds a bare limit query parameter.
type ListLimitParams struct {
	Limit int `form:"limit,default=50" binding:"min=1,max=500"`
}

// RateHistoryParams holds query parameters for the rate history listing.
type RateHistoryParams struct {
	CurrencyCode string `form:"currencyCode" binding:"omitempty,currency_iso3"`
	Limit        int    `form:"limit,default=50" binding:"min=1,max=500"`
}

package mapping

import (
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	"github.com/SscSPs/pricing_admin_backend/internal/models"
)

// ToModelCurrency converts a domain Currency to a model Currency
func ToModelCurrency(d domain.Currency) models.Currency {
	return models.Currency{
		CurrencyCode:           d.CurrencyCode,
		Symbol:                 d.Symbol,
		Name:                   d.Name,
		Precision:              d.Precision,
		APIRate:                d.APIRate,
		ExchangeRate:           d.ExchangeRate,
		AdjustmentFactor:       d.AdjustmentFactor,
		CustomPercentageChange: d.CustomPercentageChange,
		CustomValueFactor:      d.CustomValueFactor,
		RegionalTaxPercent:     d.RegionalTaxPercent,
		ManualOverride:         d.ManualOverride,
		ManualRate:             toNullDecimal(d.ManualRate),
		RateSource:             d.RateSource,
		IsBaseCurrency:         d.IsBaseCurrency,
		IsActive:               d.IsActive,
		LastUpdated:            d.LastUpdated,
		LastAPIUpdate:          d.LastAPIUpdate,
		AuditFields:            ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCurrency converts a model Currency to a domain Currency
func ToDomainCurrency(m models.Currency) domain.Currency {
	return domain.Currency{
		CurrencyCode:           m.CurrencyCode,
		Symbol:                 m.Symbol,
		Name:                   m.Name,
		Precision:              m.Precision,
		APIRate:                m.APIRate,
		ExchangeRate:           m.ExchangeRate,
		AdjustmentFactor:       m.AdjustmentFactor,
		CustomPercentageChange: m.CustomPercentageChange,
		CustomValueFactor:      m.CustomValueFactor,
		RegionalTaxPercent:     m.RegionalTaxPercent,
		ManualOverride:         m.ManualOverride,
		ManualRate:             fromNullDecimal(m.ManualRate),
		RateSource:             m.RateSource,
		IsBaseCurrency:         m.IsBaseCurrency,
		IsActive:               m.IsActive,
		LastUpdated:            m.LastUpdated,
		LastAPIUpdate:          m.LastAPIUpdate,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCurrencySlice converts a slice of model Currencies to a slice of domain Currencies
func ToDomainCurrencySlice(ms []models.Currency) []domain.Currency {
	ds := make([]domain.Currency, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCurrency(m)
	}
	return ds
}

package mapping

import (
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	"github.com/SscSPs/pricing_admin_backend/internal/models"
)

func ToModelCountry(d domain.Country) models.Country {
	return models.Country{
		CountryCode:    d.CountryCode,
		Name:           d.Name,
		CurrencyCode:   d.CurrencyCode,
		DefaultTaxRate: d.DefaultTaxRate,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainCountry(m models.Country) domain.Country {
	return domain.Country{
		CountryCode:    m.CountryCode,
		Name:           m.Name,
		CurrencyCode:   m.CurrencyCode,
		DefaultTaxRate: m.DefaultTaxRate,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelProduct(d domain.Product) models.Product {
	return models.Product{
		ProductID:   d.ProductID,
		SKU:         d.SKU,
		Name:        d.Name,
		BasePrice:   d.BasePrice,
		SalePrice:   toNullDecimal(d.SalePrice),
		IsTaxable:   d.IsTaxable,
		TaxRate:     toNullDecimal(d.TaxRate),
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID:   m.ProductID,
		SKU:         m.SKU,
		Name:        m.Name,
		BasePrice:   m.BasePrice,
		SalePrice:   fromNullDecimal(m.SalePrice),
		IsTaxable:   m.IsTaxable,
		TaxRate:     fromNullDecimal(m.TaxRate),
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelProductPrice(d domain.ProductPrice) models.ProductPrice {
	return models.ProductPrice{
		PriceID:      d.PriceID,
		ProductID:    d.ProductID,
		CountryCode:  d.CountryCode,
		CurrencyCode: d.CurrencyCode,
		Price:        d.Price,
		PricingType:  string(d.PricingType),
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainProductPrice(m models.ProductPrice) domain.ProductPrice {
	return domain.ProductPrice{
		PriceID:      m.PriceID,
		ProductID:    m.ProductID,
		CountryCode:  m.CountryCode,
		CurrencyCode: m.CurrencyCode,
		Price:        m.Price,
		PricingType:  domain.PricingType(m.PricingType),
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelRegionalOverride(d domain.RegionalOverride) models.RegionalOverride {
	return models.RegionalOverride{
		OverrideID:           d.OverrideID,
		ProductID:            d.ProductID,
		CountryCode:          d.CountryCode,
		CurrencyCode:         d.CurrencyCode,
		OverrideType:         string(d.OverrideType),
		BasePriceOverride:    toNullDecimal(d.BasePriceOverride),
		SalePriceOverride:    toNullDecimal(d.SalePriceOverride),
		AdjustmentPercentage: d.AdjustmentPercentage,
		TaxRateOverride:      toNullDecimal(d.TaxRateOverride),
		UseCountryDefaultTax: d.UseCountryDefaultTax,
		PriceLocked:          d.PriceLocked,
		Priority:             d.Priority,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainRegionalOverride(m models.RegionalOverride) domain.RegionalOverride {
	return domain.RegionalOverride{
		OverrideID:           m.OverrideID,
		ProductID:            m.ProductID,
		CountryCode:          m.CountryCode,
		CurrencyCode:         m.CurrencyCode,
		OverrideType:         domain.PricingType(m.OverrideType),
		BasePriceOverride:    fromNullDecimal(m.BasePriceOverride),
		SalePriceOverride:    fromNullDecimal(m.SalePriceOverride),
		AdjustmentPercentage: m.AdjustmentPercentage,
		TaxRateOverride:      fromNullDecimal(m.TaxRateOverride),
		UseCountryDefaultTax: m.UseCountryDefaultTax,
		PriceLocked:          m.PriceLocked,
		Priority:             m.Priority,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

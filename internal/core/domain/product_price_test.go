package domain_test

import (
	"testing"

	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestIsLocked(t *testing.T) {
	var nilPrice *domain.ProductPrice
	var nilOverride *domain.RegionalOverride

	assert.False(t, domain.IsLocked(nil))
	assert.False(t, domain.IsLocked(nilPrice))
	assert.False(t, domain.IsLocked(nilOverride))
	assert.False(t, domain.IsLocked(&domain.ProductPrice{PricingType: domain.PricingTypeAuto}))
	assert.True(t, domain.IsLocked(&domain.ProductPrice{PricingType: domain.PricingTypeManual}))
	assert.False(t, domain.IsLocked(&domain.RegionalOverride{}))
	assert.True(t, domain.IsLocked(&domain.RegionalOverride{PriceLocked: true}))
}

func TestPlanAutoPrice(t *testing.T) {
	auto := &domain.ProductPrice{Price: dec("84.00"), PricingType: domain.PricingTypeAuto, IsActive: true}
	manual := &domain.ProductPrice{Price: dec("99"), PricingType: domain.PricingTypeManual, IsActive: true}

	assert.Equal(t, domain.PriceCreated, domain.PlanAutoPrice(nil, dec("84")))
	assert.Equal(t, domain.PriceUnchanged, domain.PlanAutoPrice(auto, dec("84")))
	assert.Equal(t, domain.PriceUpdated, domain.PlanAutoPrice(auto, dec("85")))
	assert.Equal(t, domain.PriceSkippedLocked, domain.PlanAutoPrice(manual, dec("84")))

	inactive := *auto
	inactive.IsActive = false
	assert.Equal(t, domain.PriceUpdated, domain.PlanAutoPrice(&inactive, dec("84")))

	assert.True(t, domain.PriceCreated.Changed())
	assert.False(t, domain.PriceSkippedLocked.Changed())
}

func TestDefaultCountryForCurrency(t *testing.T) {
	countries := []domain.Country{
		{CountryCode: "FR", CurrencyCode: "EUR", IsActive: true},
		{CountryCode: "DE", CurrencyCode: "EUR", IsActive: true},
		{CountryCode: "AT", CurrencyCode: "EUR", IsActive: false},
		{CountryCode: "IN", CurrencyCode: "INR", IsActive: true},
	}

	assert.Equal(t, "DE", domain.DefaultCountryForCurrency("EUR", countries))
	assert.Equal(t, "IN", domain.DefaultCountryForCurrency("INR", countries))
	assert.Equal(t, "JP", domain.DefaultCountryForCurrency("JPY", countries))
}

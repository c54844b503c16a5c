package mapping

import (
	"testing"

	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrencyManualRateNullability(t *testing.T) {
	c := domain.NewCurrency("INR", "Rupee", "₹")
	m := ToModelCurrency(c)
	assert.False(t, m.ManualRate.Valid)
	assert.Nil(t, ToDomainCurrency(m).ManualRate)

	rate := decimal.RequireFromString("90")
	c.ManualRate = &rate
	c.ManualOverride = true
	back := ToDomainCurrency(ToModelCurrency(c))
	require.NotNil(t, back.ManualRate)
	assert.True(t, back.ManualRate.Equal(rate))
	assert.True(t, back.ManualOverride)
}

func TestRegionalOverrideKeepsClearedColumnsNull(t *testing.T) {
	o := domain.NewRegionalOverride(7, domain.Country{CountryCode: "IN", CurrencyCode: "INR"})
	m := ToModelRegionalOverride(o)

	assert.False(t, m.BasePriceOverride.Valid)
	assert.False(t, m.SalePriceOverride.Valid)
	assert.False(t, m.TaxRateOverride.Valid)
	assert.Equal(t, "AUTO", m.OverrideType)
	assert.True(t, m.UseCountryDefaultTax)
}

func TestAuditNotesEmptyIsNull(t *testing.T) {
	m := ToModelPricingAuditLog(domain.PricingAuditLog{LogID: "l1"})
	assert.Nil(t, m.Notes)

	m = ToModelPricingAuditLog(domain.PricingAuditLog{LogID: "l1", Notes: "bulk"})
	require.NotNil(t, m.Notes)
	assert.Equal(t, "bulk", ToDomainPricingAuditLog(m).Notes)
}

package domain_test

import (
	"testing"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrencyRatePatch_Apply(t *testing.T) {
	base := domain.NewCurrency("INR", "Rupee", "₹")

	t.Run("empty patch is rejected", func(t *testing.T) {
		_, err := domain.CurrencyRatePatch{}.Apply(base)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("manual rate implies override", func(t *testing.T) {
		out, err := domain.CurrencyRatePatch{ManualRate: decPtr("90")}.Apply(base)
		require.NoError(t, err)
		assert.True(t, out.ManualOverride)
		assert.True(t, dec("90").Equal(*out.ManualRate))
		assert.False(t, base.ManualOverride, "input must not be mutated")
	})

	t.Run("disabling override clears manual rate", func(t *testing.T) {
		pinned := base
		pinned.ManualOverride = true
		pinned.ManualRate = decPtr("90")

		out, err := domain.CurrencyRatePatch{ManualOverride: boolPtr(false)}.Apply(pinned)
		require.NoError(t, err)
		assert.False(t, out.ManualOverride)
		assert.Nil(t, out.ManualRate)
		assert.NotNil(t, pinned.ManualRate)
	})

	t.Run("override without any rate is rejected", func(t *testing.T) {
		_, err := domain.CurrencyRatePatch{ManualOverride: boolPtr(true)}.Apply(base)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("contradictory override and rate are rejected", func(t *testing.T) {
		_, err := domain.CurrencyRatePatch{ManualOverride: boolPtr(false), ManualRate: decPtr("90")}.Apply(base)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("factors must be positive", func(t *testing.T) {
		_, err := domain.CurrencyRatePatch{ValueFactor: decPtr("0")}.Apply(base)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		_, err = domain.CurrencyRatePatch{MarkupPercent: decPtr("-100")}.Apply(base)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("base currency rate settings are fixed", func(t *testing.T) {
		usd := domain.NewCurrency("USD", "Dollar", "$")
		usd.IsBaseCurrency = true
		_, err := domain.CurrencyRatePatch{MarkupPercent: decPtr("5")}.Apply(usd)
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		out, err := domain.CurrencyRatePatch{RegionalTaxPercent: decPtr("7")}.Apply(usd)
		require.NoError(t, err)
		assert.True(t, dec("7").Equal(out.RegionalTaxPercent))
	})
}

func TestProductTaxPatch_Apply(t *testing.T) {
	p := domain.Product{ProductID: 1, IsTaxable: true, TaxRate: decPtr("12")}

	out, err := domain.ProductTaxPatch{ClearTaxRate: true}.Apply(p)
	require.NoError(t, err)
	assert.Nil(t, out.TaxRate)

	out, err = domain.ProductTaxPatch{IsTaxable: boolPtr(false)}.Apply(p)
	require.NoError(t, err)
	assert.False(t, out.IsTaxable)
	assert.True(t, dec("12").Equal(*out.TaxRate))

	_, err = domain.ProductTaxPatch{TaxRate: decPtr("101")}.Apply(p)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = domain.ProductTaxPatch{}.Apply(p)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRegionalOverridePatch_Apply(t *testing.T) {
	o := domain.NewRegionalOverride(7, domain.Country{CountryCode: "IN", CurrencyCode: "INR"})

	t.Run("base price override switches to manual", func(t *testing.T) {
		out, err := domain.RegionalOverridePatch{BasePriceOverride: decPtr("500")}.Apply(o)
		require.NoError(t, err)
		assert.Equal(t, domain.PricingTypeManual, out.OverrideType)
		assert.True(t, dec("500").Equal(*out.BasePriceOverride))
	})

	t.Run("locked override rejects price edits", func(t *testing.T) {
		locked := o
		locked.PriceLocked = true
		_, err := domain.RegionalOverridePatch{BasePriceOverride: decPtr("450")}.Apply(locked)
		assert.ErrorIs(t, err, apperrors.ErrLocked)
	})

	t.Run("locked override accepts edits that unlock it", func(t *testing.T) {
		locked := o
		locked.PriceLocked = true
		out, err := domain.RegionalOverridePatch{BasePriceOverride: decPtr("450"), PriceLocked: boolPtr(false)}.Apply(locked)
		require.NoError(t, err)
		assert.False(t, out.PriceLocked)
		assert.True(t, dec("450").Equal(*out.BasePriceOverride))
	})

	t.Run("locked override accepts tax-only edits", func(t *testing.T) {
		locked := o
		locked.PriceLocked = true
		out, err := domain.RegionalOverridePatch{TaxRateOverride: decPtr("5")}.Apply(locked)
		require.NoError(t, err)
		assert.True(t, dec("5").Equal(*out.TaxRateOverride))
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		_, err := domain.RegionalOverridePatch{TaxRateOverride: decPtr("150")}.Apply(o)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		_, err = domain.RegionalOverridePatch{BasePriceOverride: decPtr("0")}.Apply(o)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

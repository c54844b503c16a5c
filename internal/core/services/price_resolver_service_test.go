package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	portssvc "github.com/SscSPs/pricing_admin_backend/internal/core/ports/services"
	"github.com/SscSPs/pricing_admin_backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolverFixture() (*fakeStore, portssvc.PriceResolverSvc) {
	store := newFakeStore()
	store.putCurrency(baseCurrency("USD"))
	inr := apiCurrency("INR", "80")
	inr.CustomPercentageChange = dec("5")
	inr.ExchangeRate = dec("84")
	inr.Symbol = "₹"
	store.putCurrency(inr)
	store.putCountry(country("IN", "INR", "18"))
	store.putCountry(country("US", "USD", "0"))
	store.putProduct(product(1, "1000"))
	return store, services.NewPriceResolverService(store, store, store, store, store)
}

func TestResolvePrice_ComputedRoundTrip(t *testing.T) {
	_, svc := newResolverFixture()

	quote, err := svc.ResolvePrice(context.Background(), 1, "in", true)

	require.NoError(t, err)
	assert.Equal(t, "IN", quote.CountryCode)
	assert.Equal(t, "INR", quote.CurrencyCode)
	assert.Equal(t, "₹", quote.CurrencySymbol)
	assert.Equal(t, 2, quote.CurrencyPrecision)
	assert.Equal(t, "84000", quote.Subtotal.String())
	assert.Equal(t, "15120", quote.TaxAmount.String())
	assert.Equal(t, "99120", quote.Total.String())
	assert.Equal(t, domain.TaxSourceCountryDefault, quote.TaxSource)
	assert.Equal(t, domain.PriceSourceComputed, quote.PriceSource)
	assert.False(t, quote.Locked)
}

func TestResolvePrice_ExcludingTax(t *testing.T) {
	_, svc := newResolverFixture()

	quote, err := svc.ResolvePrice(context.Background(), 1, "IN", false)

	require.NoError(t, err)
	assert.True(t, quote.TaxAmount.IsZero())
	assert.True(t, quote.Total.Equal(quote.Subtotal))
	assert.True(t, quote.TaxRate.Equal(dec("18")))
}

func TestResolvePrice_StoredPriceWins(t *testing.T) {
	store, svc := newResolverFixture()
	store.putPrice(domain.ProductPrice{PriceID: "p1", ProductID: 1, CountryCode: "IN", CurrencyCode: "INR",
		Price: dec("79999"), PricingType: domain.PricingTypeManual, IsActive: true})

	quote, err := svc.ResolvePrice(context.Background(), 1, "IN", true)

	require.NoError(t, err)
	assert.Equal(t, domain.PriceSourceProductPrice, quote.PriceSource)
	assert.True(t, quote.Subtotal.Equal(dec("79999")))
	assert.True(t, quote.Locked)
}

func TestResolvePrice_OverrideBasePriceWins(t *testing.T) {
	store, svc := newResolverFixture()
	store.putPrice(domain.ProductPrice{PriceID: "p1", ProductID: 1, CountryCode: "IN", CurrencyCode: "INR",
		Price: dec("84000"), PricingType: domain.PricingTypeAuto, IsActive: true})
	o := domain.NewRegionalOverride(1, country("IN", "INR", "18"))
	o.BasePriceOverride = decPtr("500")
	o.AdjustmentPercentage = dec("10") // ignored with an explicit base price
	o.TaxRateOverride = decPtr("5")
	store.putOverride(o)

	quote, err := svc.ResolvePrice(context.Background(), 1, "IN", true)

	require.NoError(t, err)
	assert.Equal(t, domain.PriceSourceRegionalOverride, quote.PriceSource)
	assert.Equal(t, "500", quote.Subtotal.String())
	assert.Equal(t, "25", quote.TaxAmount.String())
	assert.Equal(t, domain.TaxSourceRegionalOverride, quote.TaxSource)
}

func TestResolvePrice_AdjustmentAndSalePrice(t *testing.T) {
	store, svc := newResolverFixture()
	p := product(2, "10")
	p.SalePrice = decPtr("8")
	store.putProduct(p)
	o := domain.NewRegionalOverride(2, country("IN", "INR", "18"))
	o.AdjustmentPercentage = dec("-10")
	o.PriceLocked = true
	store.putOverride(o)

	quote, err := svc.ResolvePrice(context.Background(), 2, "IN", false)

	require.NoError(t, err)
	assert.Equal(t, "756", quote.Subtotal.String())
	require.NotNil(t, quote.SalePrice)
	assert.Equal(t, "604.8", quote.SalePrice.String())
	assert.True(t, quote.Locked)
}

func TestResolvePrice_NonTaxableProduct(t *testing.T) {
	store, svc := newResolverFixture()
	p := product(3, "10")
	p.IsTaxable = false
	p.TaxRate = decPtr("12")
	store.putProduct(p)

	quote, err := svc.ResolvePrice(context.Background(), 3, "IN", true)

	require.NoError(t, err)
	assert.Equal(t, domain.TaxSourceNotTaxable, quote.TaxSource)
	assert.True(t, quote.TaxAmount.IsZero())
}

func TestResolvePrice_MissingRateIsConfigurationError(t *testing.T) {
	store, svc := newResolverFixture()
	store.putCurrency(domain.NewCurrency("JPY", "Yen", "¥"))
	store.putCountry(country("JP", "JPY", "10"))

	_, err := svc.ResolvePrice(context.Background(), 1, "JP", true)

	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestResolvePrice_UnknownProduct(t *testing.T) {
	_, svc := newResolverFixture()

	_, err := svc.ResolvePrice(context.Background(), 99, "IN", true)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

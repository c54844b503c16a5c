package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	portssvc "github.com/SscSPs/pricing_admin_backend/internal/core/ports/services"
	"github.com/SscSPs/pricing_admin_backend/internal/core/services"
	"github.com/stretchr/testify/suite"
)

type RegionalOverrideServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *fakeStore
	service portssvc.RegionalOverrideSvc
}

func (suite *RegionalOverrideServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = newFakeStore()
	suite.store.putCurrency(baseCurrency("USD"))
	suite.store.putCurrency(apiCurrency("INR", "84"))
	suite.store.putCountry(country("IN", "INR", "18"))
	suite.store.putProduct(product(1, "100"))
	audit := services.NewAuditService(suite.store, suite.store)
	suite.service = services.NewRegionalOverrideService(suite.store, suite.store, suite.store, suite.store, suite.store, audit)
}

func (suite *RegionalOverrideServiceTestSuite) TestCreate_Defaults() {
	res, err := suite.service.UpsertRegionalOverride(suite.ctx, 1, "in", domain.RegionalOverridePatch{AdjustmentPercentage: decPtr("5")}, "admin-1")

	suite.Require().NoError(err)
	suite.True(res.Created)
	suite.Nil(res.Previous)
	suite.NotEmpty(res.Override.OverrideID)
	suite.Equal("IN", res.Override.CountryCode)
	suite.Equal("INR", res.Override.CurrencyCode)
	suite.Equal(domain.PricingTypeAuto, res.Override.OverrideType)
	suite.True(res.Override.UseCountryDefaultTax)
	suite.Equal(1, suite.store.countAudit(domain.AuditRegionalOverrideUpsert))
}

func (suite *RegionalOverrideServiceTestSuite) TestCreate_BasePriceMakesManual() {
	res, err := suite.service.UpsertRegionalOverride(suite.ctx, 1, "IN", domain.RegionalOverridePatch{BasePriceOverride: decPtr("500")}, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(domain.PricingTypeManual, res.Override.OverrideType)
}

func (suite *RegionalOverrideServiceTestSuite) TestLockedOverrideRejectsPriceEdits() {
	_, err := suite.service.UpsertRegionalOverride(suite.ctx, 1, "IN", domain.RegionalOverridePatch{
		BasePriceOverride: decPtr("500"), PriceLocked: boolPtr(true),
	}, "admin-1")
	suite.Require().NoError(err)

	_, err = suite.service.UpsertRegionalOverride(suite.ctx, 1, "IN", domain.RegionalOverridePatch{BasePriceOverride: decPtr("450")}, "admin-2")
	suite.ErrorIs(err, apperrors.ErrLocked)

	stored, err := suite.store.FindRegionalOverride(suite.ctx, 1, "IN")
	suite.Require().NoError(err)
	suite.True(stored.BasePriceOverride.Equal(dec("500")))

	// Tax edits do not touch the price and stay allowed.
	_, err = suite.service.UpsertRegionalOverride(suite.ctx, 1, "IN", domain.RegionalOverridePatch{TaxRateOverride: decPtr("5")}, "admin-2")
	suite.NoError(err)

	// Unlocking in the same patch permits the edit.
	res, err := suite.service.UpsertRegionalOverride(suite.ctx, 1, "IN", domain.RegionalOverridePatch{
		BasePriceOverride: decPtr("450"), PriceLocked: boolPtr(false),
	}, "admin-2")
	suite.Require().NoError(err)
	suite.False(res.Created)
	suite.Require().NotNil(res.Previous)
	suite.True(res.Previous.BasePriceOverride.Equal(dec("500")))
	suite.True(res.Override.BasePriceOverride.Equal(dec("450")))
}

func (suite *RegionalOverrideServiceTestSuite) TestUnknownCurrencyRejected() {
	code := "XXX"
	_, err := suite.service.UpsertRegionalOverride(suite.ctx, 1, "IN", domain.RegionalOverridePatch{CurrencyCode: &code}, "admin-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RegionalOverrideServiceTestSuite) TestUnknownCountry() {
	_, err := suite.service.UpsertRegionalOverride(suite.ctx, 1, "ZZ", domain.RegionalOverridePatch{AdjustmentPercentage: decPtr("1")}, "admin-1")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RegionalOverrideServiceTestSuite) TestDelete() {
	_, err := suite.service.UpsertRegionalOverride(suite.ctx, 1, "IN", domain.RegionalOverridePatch{PriceLocked: boolPtr(true)}, "admin-1")
	suite.Require().NoError(err)

	err = suite.service.DeleteRegionalOverride(suite.ctx, 1, "IN", "admin-1")
	suite.ErrorIs(err, apperrors.ErrLocked)

	_, err = suite.service.UpsertRegionalOverride(suite.ctx, 1, "IN", domain.RegionalOverridePatch{PriceLocked: boolPtr(false)}, "admin-1")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.service.DeleteRegionalOverride(suite.ctx, 1, "IN", "admin-1"))

	list, err := suite.service.ListRegionalOverrides(suite.ctx, 1)
	suite.Require().NoError(err)
	suite.Empty(list)
	suite.Equal(1, suite.store.countAudit(domain.AuditRegionalOverrideDelete))

	err = suite.service.DeleteRegionalOverride(suite.ctx, 1, "IN", "admin-1")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestRegionalOverrideService(t *testing.T) {
	suite.Run(t, new(RegionalOverrideServiceTestSuite))
}

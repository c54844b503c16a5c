package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	portssvc "github.com/SscSPs/pricing_admin_backend/internal/core/ports/services"
	"github.com/SscSPs/pricing_admin_backend/internal/core/services"
	"github.com/SscSPs/pricing_admin_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type CurrencyServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *fakeStore
	service portssvc.CurrencySvcFacade
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = newFakeStore()
	suite.store.putCurrency(baseCurrency("USD"))
	suite.store.putCurrency(apiCurrency("INR", "80"))
	audit := services.NewAuditService(suite.store, suite.store)
	suite.service = services.NewCurrencyService(suite.store, suite.store, audit)
}

// --- Test Cases ---

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_SeededRateWritesHistory() {
	rate := dec("0.92")
	req := dto.CreateCurrencyRequest{CurrencyCode: "eur", Symbol: "€", Name: "Euro", APIRate: &rate}

	created, err := suite.service.CreateCurrency(suite.ctx, req, "admin-1")

	suite.Require().NoError(err)
	suite.Equal("EUR", created.CurrencyCode)
	suite.True(created.ExchangeRate.Equal(rate))
	suite.Equal(domain.RateSourceSeed, created.RateSource)
	suite.True(created.AdjustmentFactor.Equal(decimal.NewFromInt(1)))
	suite.Equal("admin-1", created.CreatedBy)

	history := suite.store.historyFor("EUR")
	suite.Require().Len(history, 1)
	suite.True(history[0].OldRate.IsZero())
	suite.True(history[0].NewRate.Equal(rate))
	suite.Equal(1, suite.store.countAudit(domain.AuditCurrencyCreate))
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_Duplicate() {
	req := dto.CreateCurrencyRequest{CurrencyCode: "INR", Symbol: "₹", Name: "Rupee"}

	created, err := suite.service.CreateCurrency(suite.ctx, req, "admin-1")

	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_SecondBaseRejected() {
	req := dto.CreateCurrencyRequest{CurrencyCode: "GBP", Symbol: "£", Name: "Pound", IsBase: true}

	_, err := suite.service.CreateCurrency(suite.ctx, req, "admin-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CurrencyServiceTestSuite) TestGetEffectiveRate() {
	rate, err := suite.service.GetEffectiveRate(suite.ctx, "usd")
	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.NewFromInt(1)))

	rate, err = suite.service.GetEffectiveRate(suite.ctx, "INR")
	suite.Require().NoError(err)
	suite.True(rate.Equal(dec("80")))

	suite.store.putCurrency(domain.NewCurrency("JPY", "Yen", "¥"))
	_, err = suite.service.GetEffectiveRate(suite.ctx, "JPY")
	suite.ErrorIs(err, apperrors.ErrConfiguration)

	_, err = suite.service.GetEffectiveRate(suite.ctx, "XXX")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CurrencyServiceTestSuite) TestUpdateCurrencyRate_MarkupRecomputes() {
	patch := domain.CurrencyRatePatch{MarkupPercent: decPtr("5"), Reason: "margin"}

	result, err := suite.service.UpdateCurrencyRate(suite.ctx, "INR", patch, "admin-1")

	suite.Require().NoError(err)
	suite.True(result.Changed)
	suite.True(result.Previous.ExchangeRate.Equal(dec("80")))
	suite.True(result.Updated.ExchangeRate.Equal(dec("84")))
	suite.Equal(domain.RateSourceManual, result.Updated.RateSource)
	suite.True(suite.store.currency("INR").ExchangeRate.Equal(dec("84")))

	history := suite.store.historyFor("INR")
	suite.Require().Len(history, 1)
	suite.True(history[0].ChangePercent.Equal(dec("5")))
	suite.Equal("margin", history[0].Reason)
	suite.Equal(1, suite.store.countAudit(domain.AuditCurrencyRateUpdate))
}

func (suite *CurrencyServiceTestSuite) TestUpdateCurrencyRate_NonRateFieldWritesNoHistory() {
	patch := domain.CurrencyRatePatch{RegionalTaxPercent: decPtr("3")}

	result, err := suite.service.UpdateCurrencyRate(suite.ctx, "INR", patch, "admin-1")

	suite.Require().NoError(err)
	suite.False(result.Changed)
	suite.Empty(suite.store.historyFor("INR"))
	suite.Equal(1, suite.store.countAudit(domain.AuditCurrencyRateUpdate))
}

func (suite *CurrencyServiceTestSuite) TestUpdateCurrencyRate_BaseCurrencyRejected() {
	patch := domain.CurrencyRatePatch{MarkupPercent: decPtr("5")}

	_, err := suite.service.UpdateCurrencyRate(suite.ctx, "USD", patch, "admin-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.True(suite.store.currency("USD").ExchangeRate.Equal(decimal.NewFromInt(1)))
}

func (suite *CurrencyServiceTestSuite) TestManualOverrideSurvivesFetch() {
	_, err := suite.service.UpdateCurrencyRate(suite.ctx, "INR", domain.CurrencyRatePatch{ManualRate: decPtr("90")}, "admin-1")
	suite.Require().NoError(err)

	res, err := suite.service.ApplyFetchedRates(suite.ctx, map[string]decimal.Decimal{"INR": dec("82")}, "primary", "system:scheduler")
	suite.Require().NoError(err)

	inr := suite.store.currency("INR")
	suite.True(inr.ExchangeRate.Equal(dec("90")))
	suite.True(inr.APIRate.Equal(dec("82")))
	suite.NotNil(inr.LastAPIUpdate)
	suite.Equal(0, res.Updated)
	suite.Equal(1, res.Unchanged)

	// Lifting the override resumes from the freshly fetched raw rate.
	result, err := suite.service.UpdateCurrencyRate(suite.ctx, "INR", domain.CurrencyRatePatch{ManualOverride: boolPtr(false)}, "admin-1")
	suite.Require().NoError(err)
	suite.True(result.Updated.ExchangeRate.Equal(dec("82")))
	suite.Nil(result.Updated.ManualRate)
}

func (suite *CurrencyServiceTestSuite) TestApplyFetchedRates_Counts() {
	suite.store.putCurrency(apiCurrency("EUR", "0.9"))
	suite.store.putCurrency(apiCurrency("GBP", "0.8"))

	rates := map[string]decimal.Decimal{
		"INR": dec("80.00001"), // within epsilon
		"EUR": dec("0.95"),
		"USD": dec("1"),
	}
	res, err := suite.service.ApplyFetchedRates(suite.ctx, rates, "primary", "admin-1")

	suite.Require().NoError(err)
	suite.Equal(1, res.Updated)
	suite.Equal(1, res.Unchanged)
	suite.Equal([]string{"EUR"}, res.ChangedCodes)
	suite.Equal([]string{"GBP"}, res.Missing)
	suite.Empty(res.Failed)

	eur := suite.store.currency("EUR")
	suite.Equal("api:primary", eur.RateSource)
	suite.Len(suite.store.historyFor("EUR"), 1)
	suite.Empty(suite.store.historyFor("INR"))
	suite.True(suite.store.currency("USD").ExchangeRate.Equal(decimal.NewFromInt(1)))
}

func (suite *CurrencyServiceTestSuite) TestApplyFetchedRates_InvalidRateIsolated() {
	suite.store.putCurrency(apiCurrency("EUR", "0.9"))

	rates := map[string]decimal.Decimal{"INR": dec("-1"), "EUR": dec("0.95")}
	res, err := suite.service.ApplyFetchedRates(suite.ctx, rates, "primary", "admin-1")

	suite.Require().NoError(err)
	suite.Equal([]string{"INR"}, res.Failed)
	suite.Equal(1, res.Updated)
	suite.True(suite.store.currency("INR").ExchangeRate.Equal(dec("80")))
}

func (suite *CurrencyServiceTestSuite) TestSetBaseCurrency_RebasesRawRates() {
	suite.store.putCurrency(apiCurrency("EUR", "0.8"))

	eur, err := suite.service.SetBaseCurrency(suite.ctx, "EUR", "admin-1")

	suite.Require().NoError(err)
	suite.True(eur.IsBaseCurrency)
	suite.True(eur.ExchangeRate.Equal(decimal.NewFromInt(1)))

	usd := suite.store.currency("USD")
	suite.False(usd.IsBaseCurrency)
	suite.True(usd.ExchangeRate.Equal(dec("1.25")))
	suite.Equal(domain.RateSourceRebase, usd.RateSource)

	inr := suite.store.currency("INR")
	suite.True(inr.ExchangeRate.Equal(dec("100")))

	base, err := suite.service.GetBaseCurrency(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal("EUR", base.CurrencyCode)
	suite.Equal(1, suite.store.countAudit(domain.AuditBaseCurrencyChange))
}

func (suite *CurrencyServiceTestSuite) TestSetBaseCurrency_RequiresFetchedRate() {
	suite.store.putCurrency(domain.NewCurrency("JPY", "Yen", "¥"))

	_, err := suite.service.SetBaseCurrency(suite.ctx, "JPY", "admin-1")

	suite.ErrorIs(err, apperrors.ErrConfiguration)
	suite.True(suite.store.currency("USD").IsBaseCurrency)
}

func (suite *CurrencyServiceTestSuite) TestSetBaseCurrency_AlreadyBaseIsNoop() {
	usd, err := suite.service.SetBaseCurrency(suite.ctx, "USD", "admin-1")

	suite.Require().NoError(err)
	suite.True(usd.IsBaseCurrency)
	suite.Equal(0, suite.store.countAudit(domain.AuditBaseCurrencyChange))
}

// --- Run Test Suite ---
func TestCurrencyService(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}

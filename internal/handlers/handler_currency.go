package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	portssvc "github.com/SscSPs/pricing_admin_backend/internal/core/ports/services"
	"github.com/SscSPs/pricing_admin_backend/internal/dto"
	"github.com/SscSPs/pricing_admin_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencyHandler handles HTTP requests related to currencies and their rates.
type currencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

func newCurrencyHandler(cs portssvc.CurrencySvcFacade) *currencyHandler {
	return &currencyHandler{
		currencyService: cs,
	}
}

// registerCurrencyRoutes registers routes related to currencies.
func registerCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	h := newCurrencyHandler(currencyService)

	currencies := rg.Group("/currencies")
	{
		currencies.POST("", h.createCurrency)
		currencies.GET("", h.listCurrencies)
		currencies.GET("/base", h.getBaseCurrency)
		currencies.GET("/:code", h.getCurrencyByCode)
		currencies.GET("/:code/rate", h.getEffectiveRate)
		currencies.PATCH("/:code/rate", h.updateCurrencyRate)
		currencies.POST("/:code/base", h.setBaseCurrency)
	}
}

// currencyCodeParam reads and shape-checks the :code path segment.
func currencyCodeParam(c *gin.Context) (string, bool) {
	code := strings.ToUpper(c.Param("code"))
	if !currencyCodePattern.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency code must be 3 letters"})
		return "", false
	}
	return code, true
}

// createCurrency godoc
// @Summary Create a new currency
// @Description Adds a currency with neutral adjustment factors. An optional apiRate seeds the effective rate until the first fetch.
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   currency body dto.CreateCurrencyRequest true "Currency details"
// @Success 201 {object} dto.CurrencyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Currency code already exists"
// @Failure 500 {object} map[string]string "Failed to create currency"
// @Security BearerAuth
// @Router /currencies [post]
func (h *currencyHandler) createCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "CreateCurrency", err)
		return
	}

	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger.Info("Received request to create currency", slog.String("currency_code", req.CurrencyCode))

	createdCurrency, err := h.currencyService.CreateCurrency(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, err, "Failed to create currency")
		return
	}

	logger.Info("Currency created successfully", slog.String("currency_code", createdCurrency.CurrencyCode))
	c.JSON(http.StatusCreated, dto.ToCurrencyResponse(createdCurrency))
}

// getCurrencyByCode godoc
// @Summary Get a currency by code
// @Tags currencies
// @Produce  json
// @Param   code path string true "Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Success 200 {object} dto.CurrencyResponse
// @Failure 404 {object} map[string]string "Currency not found"
// @Security BearerAuth
// @Router /currencies/{code} [get]
func (h *currencyHandler) getCurrencyByCode(c *gin.Context) {
	code, ok := currencyCodeParam(c)
	if !ok {
		return
	}

	currency, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), code)
	if err != nil {
		respondError(c, err, "Failed to retrieve currency")
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

// getBaseCurrency godoc
// @Summary Get the base currency
// @Tags currencies
// @Produce  json
// @Success 200 {object} dto.CurrencyResponse
// @Failure 422 {object} map[string]string "No base currency configured"
// @Security BearerAuth
// @Router /currencies/base [get]
func (h *currencyHandler) getBaseCurrency(c *gin.Context) {
	currency, err := h.currencyService.GetBaseCurrency(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve base currency")
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

// listCurrencies godoc
// @Summary List currencies
// @Tags currencies
// @Produce  json
// @Param   activeOnly query bool false "Only active currencies"
// @Success 200 {array} dto.CurrencyResponse
// @Security BearerAuth
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListCurrenciesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "ListCurrencies query", err)
		return
	}

	currencies, err := h.currencyService.ListCurrencies(c.Request.Context(), params.ActiveOnly)
	if err != nil {
		respondError(c, err, "Failed to list currencies")
		return
	}

	logger.Info("Currencies listed successfully", slog.Int("count", len(currencies)))
	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(currencies))
}

// getEffectiveRate godoc
// @Summary Get the effective conversion rate
// @Description Units of this currency per one unit of the base currency, after adjustments and manual overrides.
// @Tags currencies
// @Produce  json
// @Param   code path string true "Currency Code"
// @Success 200 {object} dto.EffectiveRateResponse
// @Failure 404 {object} map[string]string "Currency not found"
// @Failure 422 {object} map[string]string "Currency has no usable rate"
// @Security BearerAuth
// @Router /currencies/{code}/rate [get]
func (h *currencyHandler) getEffectiveRate(c *gin.Context) {
	code, ok := currencyCodeParam(c)
	if !ok {
		return
	}

	rate, err := h.currencyService.GetEffectiveRate(c.Request.Context(), code)
	if err != nil {
		respondError(c, err, "Failed to compute effective rate")
		return
	}
	c.JSON(http.StatusOK, dto.EffectiveRateResponse{CurrencyCode: code, Rate: rate})
}

// updateCurrencyRate godoc
// @Summary Update conversion settings of a currency
// @Description Partial update of adjustment factor, markup, value factor, manual override and activation. The effective rate is re-derived and a history row written when it changes.
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   code path string true "Currency Code"
// @Param   patch body dto.UpdateCurrencyRateRequest true "Fields to change"
// @Success 200 {object} dto.CurrencyRateUpdateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Currency not found"
// @Security BearerAuth
// @Router /currencies/{code}/rate [patch]
func (h *currencyHandler) updateCurrencyRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code, ok := currencyCodeParam(c)
	if !ok {
		return
	}
	var req dto.UpdateCurrencyRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "UpdateCurrencyRate", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	res, err := h.currencyService.UpdateCurrencyRate(c.Request.Context(), code, req.ToPatch(), userID)
	if err != nil {
		respondError(c, err, "Failed to update currency rate")
		return
	}

	logger.Info("Currency rate updated",
		slog.String("currency_code", code),
		slog.Bool("changed", res.Changed),
		slog.String("exchange_rate", res.Updated.ExchangeRate.String()))
	c.JSON(http.StatusOK, dto.ToCurrencyRateUpdateResponse(res))
}

// setBaseCurrency godoc
// @Summary Make a currency the base currency
// @Description Switches the single base currency and rebases the stored api rates onto it.
// @Tags currencies
// @Produce  json
// @Param   code path string true "Currency Code"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 400 {object} map[string]string "Currency inactive or without a rate"
// @Failure 404 {object} map[string]string "Currency not found"
// @Security BearerAuth
// @Router /currencies/{code}/base [post]
func (h *currencyHandler) setBaseCurrency(c *gin.Context) {
	code, ok := currencyCodeParam(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	currency, err := h.currencyService.SetBaseCurrency(c.Request.Context(), code, userID)
	if err != nil {
		respondError(c, err, "Failed to switch base currency")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Base currency set", slog.String("currency_code", code))
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

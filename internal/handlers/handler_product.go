package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	portssvc "github.com/SscSPs/pricing_admin_backend/internal/core/ports/services"
	"github.com/SscSPs/pricing_admin_backend/internal/dto"
	"github.com/SscSPs/pricing_admin_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// productHandler serves the per-product pricing resources: tax, overrides, stored prices and quotes.
type productHandler struct {
	taxService      portssvc.TaxSvc
	overrideService portssvc.RegionalOverrideSvc
	priceService    portssvc.ProductPriceSvc
	resolverService portssvc.PriceResolverSvc
}

func registerProductRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &productHandler{
		taxService:      services.Tax,
		overrideService: services.RegionalOverride,
		priceService:    services.ProductPrice,
		resolverService: services.PriceResolver,
	}

	product := rg.Group("/products/:productID")
	{
		product.PATCH("/tax", h.setProductTax)
		product.GET("/tax", h.resolveTax)

		product.GET("/overrides", h.listOverrides)
		product.PUT("/overrides/:country", h.upsertOverride)
		product.DELETE("/overrides/:country", h.deleteOverride)

		product.GET("/prices", h.listPrices)
		product.PUT("/prices/manual", h.setManualPrice)
		product.POST("/prices/release", h.releaseManualPrice)

		product.GET("/quote", h.quote)
	}
}

func overrideCountryParam(c *gin.Context) (string, bool) {
	code := strings.ToUpper(c.Param("country"))
	if !countryCodePattern.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Country code must be 2 letters"})
		return "", false
	}
	return code, true
}

// setProductTax godoc
// @Summary Update a product's tax settings
// @Tags products
// @Accept  json
// @Produce  json
// @Param   productID path int true "Product ID"
// @Param   tax body dto.SetProductTaxRequest true "Tax settings"
// @Success 200 {object} domain.ProductTaxUpdateResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Product not found"
// @Security BearerAuth
// @Router /products/{productID}/tax [patch]
func (h *productHandler) setProductTax(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}
	var req dto.SetProductTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "SetProductTax", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	patch := domain.ProductTaxPatch{IsTaxable: req.IsTaxable, TaxRate: req.TaxRate, ClearTaxRate: req.ClearTaxRate}
	res, err := h.taxService.SetProductTax(c.Request.Context(), productID, patch, userID)
	if err != nil {
		respondError(c, err, "Failed to update product tax")
		return
	}
	c.JSON(http.StatusOK, res)
}

// resolveTax godoc
// @Summary Explain the tax rate applied to a product in a country
// @Tags products
// @Produce  json
// @Param   productID path int true "Product ID"
// @Param   country query string true "Country Code"
// @Success 200 {object} domain.TaxResolution
// @Failure 404 {object} map[string]string "Product or country not found"
// @Security BearerAuth
// @Router /products/{productID}/tax [get]
func (h *productHandler) resolveTax(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}
	var params dto.PriceQuoteParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "ResolveTax query", err)
		return
	}

	res, err := h.taxService.ResolveTaxRate(c.Request.Context(), productID, strings.ToUpper(params.Country))
	if err != nil {
		respondError(c, err, "Failed to resolve tax rate")
		return
	}
	c.JSON(http.StatusOK, res)
}

// listOverrides godoc
// @Summary List a product's regional overrides
// @Tags overrides
// @Produce  json
// @Param   productID path int true "Product ID"
// @Success 200 {array} domain.RegionalOverride
// @Security BearerAuth
// @Router /products/{productID}/overrides [get]
func (h *productHandler) listOverrides(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	overrides, err := h.overrideService.ListRegionalOverrides(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err, "Failed to list overrides")
		return
	}
	c.JSON(http.StatusOK, overrides)
}

// upsertOverride godoc
// @Summary Create or update a regional override
// @Description Omitted fields keep their stored values, or take defaults on creation. Price fields of a locked override can only change in the same request that unlocks it.
// @Tags overrides
// @Accept  json
// @Produce  json
// @Param   productID path int true "Product ID"
// @Param   country path string true "Country Code"
// @Param   override body dto.UpsertRegionalOverrideRequest true "Override fields"
// @Success 200 {object} domain.OverrideUpsertResult
// @Success 201 {object} domain.OverrideUpsertResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Product or country not found"
// @Failure 423 {object} map[string]string "Override is locked"
// @Security BearerAuth
// @Router /products/{productID}/overrides/{country} [put]
func (h *productHandler) upsertOverride(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}
	countryCode, ok := overrideCountryParam(c)
	if !ok {
		return
	}
	var req dto.UpsertRegionalOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "UpsertRegionalOverride", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	res, err := h.overrideService.UpsertRegionalOverride(c.Request.Context(), productID, countryCode, req.ToPatch(), userID)
	if err != nil {
		respondError(c, err, "Failed to save override")
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	c.JSON(status, res)
}

// deleteOverride godoc
// @Summary Delete a regional override
// @Tags overrides
// @Param   productID path int true "Product ID"
// @Param   country path string true "Country Code"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Override not found"
// @Failure 423 {object} map[string]string "Override is locked"
// @Security BearerAuth
// @Router /products/{productID}/overrides/{country} [delete]
func (h *productHandler) deleteOverride(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}
	countryCode, ok := overrideCountryParam(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.overrideService.DeleteRegionalOverride(c.Request.Context(), productID, countryCode, userID); err != nil {
		respondError(c, err, "Failed to delete override")
		return
	}
	c.Status(http.StatusNoContent)
}

// listPrices godoc
// @Summary List stored prices of a product
// @Tags prices
// @Produce  json
// @Param   productID path int true "Product ID"
// @Success 200 {array} domain.ProductPrice
// @Security BearerAuth
// @Router /products/{productID}/prices [get]
func (h *productHandler) listPrices(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	prices, err := h.priceService.ListProductPrices(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err, "Failed to list prices")
		return
	}
	c.JSON(http.StatusOK, prices)
}

// setManualPrice godoc
// @Summary Pin a product's price in a currency
// @Description Stores a MANUAL price that recalculation and imports leave untouched.
// @Tags prices
// @Accept  json
// @Produce  json
// @Param   productID path int true "Product ID"
// @Param   price body dto.SetManualPriceRequest true "Price"
// @Success 200 {object} domain.ManualPriceResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Product or currency not found"
// @Security BearerAuth
// @Router /products/{productID}/prices/manual [put]
func (h *productHandler) setManualPrice(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}
	var req dto.SetManualPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "SetManualPrice", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	res, err := h.priceService.SetManualPrice(c.Request.Context(), productID,
		strings.ToUpper(req.CurrencyCode), strings.ToUpper(req.CountryCode), *req.Price, userID)
	if err != nil {
		respondError(c, err, "Failed to set manual price")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Manual price set",
		slog.Int64("product_id", productID),
		slog.String("currency_code", res.Updated.CurrencyCode),
		slog.String("price", res.Updated.Price.String()))
	c.JSON(http.StatusOK, res)
}

// releaseManualPrice godoc
// @Summary Release a pinned price back to automatic pricing
// @Tags prices
// @Accept  json
// @Produce  json
// @Param   productID path int true "Product ID"
// @Param   release body dto.ReleaseManualPriceRequest true "Currency to release"
// @Success 200 {object} domain.ManualPriceResult
// @Failure 404 {object} map[string]string "No price stored"
// @Security BearerAuth
// @Router /products/{productID}/prices/release [post]
func (h *productHandler) releaseManualPrice(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}
	var req dto.ReleaseManualPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "ReleaseManualPrice", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	res, err := h.priceService.ReleaseManualPrice(c.Request.Context(), productID, strings.ToUpper(req.CurrencyCode), userID)
	if err != nil {
		respondError(c, err, "Failed to release manual price")
		return
	}
	c.JSON(http.StatusOK, res)
}

// quote godoc
// @Summary Resolve a product's price in a country
// @Tags prices
// @Produce  json
// @Param   productID path int true "Product ID"
// @Param   country query string true "Country Code"
// @Param   includeTax query bool false "Add tax to the total" default(true)
// @Success 200 {object} dto.PriceQuoteResponse
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 422 {object} map[string]string "Currency has no usable rate"
// @Security BearerAuth
// @Router /products/{productID}/quote [get]
func (h *productHandler) quote(c *gin.Context) {
	writeQuote(c, h.resolverService)
}

// writeQuote is shared by the admin and public quote endpoints.
func writeQuote(c *gin.Context, resolver portssvc.PriceResolverSvc) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}
	var params dto.PriceQuoteParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "PriceQuote query", err)
		return
	}

	q, err := resolver.ResolvePrice(c.Request.Context(), productID, strings.ToUpper(params.Country), params.IncludeTaxOrDefault())
	if err != nil {
		respondError(c, err, "Failed to resolve price")
		return
	}
	c.JSON(http.StatusOK, dto.ToPriceQuoteResponse(q))
}

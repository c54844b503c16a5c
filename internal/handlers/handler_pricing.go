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

// pricingHandler serves the bulk pricing operations.
type pricingHandler struct {
	priceService  portssvc.ProductPriceSvc
	recalcService portssvc.RecalculationSvc
}

func registerPricingRoutes(rg *gin.RouterGroup, priceService portssvc.ProductPriceSvc, recalcService portssvc.RecalculationSvc) {
	h := &pricingHandler{priceService: priceService, recalcService: recalcService}

	rg.POST("/prices/import", h.importPrices)
	rg.POST("/recalculations", h.recalculate)
}

// importPrices godoc
// @Summary Bulk import automatic prices
// @Description Each row is applied in its own transaction. Rows pinned as MANUAL are skipped; invalid rows are reported by index.
// @Tags prices
// @Accept  json
// @Produce  json
// @Param   import body dto.ImportPricesRequest true "Rows to import"
// @Success 200 {object} domain.ImportSummary
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /prices/import [post]
func (h *pricingHandler) importPrices(c *gin.Context) {
	var req dto.ImportPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "ImportPrices", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	summary, err := h.priceService.ImportPrices(c.Request.Context(), req.ToDomainRows(), userID)
	if err != nil {
		respondError(c, err, "Failed to import prices")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Price import finished",
		slog.Int("rows", len(req.Rows)),
		slog.Int("errors", len(summary.Errors)))
	c.JSON(http.StatusOK, summary)
}

// recalculate godoc
// @Summary Recalculate automatic prices
// @Description Recomputes AUTO prices from base prices and effective rates. At most one of productID, currencyCode, countryCode narrows the run; none recalculates everything.
// @Tags prices
// @Accept  json
// @Produce  json
// @Param   scope body dto.RecalculateRequest false "Scope"
// @Success 200 {object} domain.RecalculationSummary
// @Failure 400 {object} map[string]string "Invalid scope"
// @Failure 409 {object} map[string]string "A full recalculation is already running"
// @Security BearerAuth
// @Router /recalculations [post]
func (h *pricingHandler) recalculate(c *gin.Context) {
	var req dto.RecalculateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Recalculate", err)
			return
		}
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	scopes := 0
	if req.ProductID != nil {
		scopes++
	}
	if req.CurrencyCode != "" {
		scopes++
	}
	if req.CountryCode != "" {
		scopes++
	}
	if scopes > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only one of productID, currencyCode, countryCode may be given"})
		return
	}

	ctx := c.Request.Context()
	var (
		summary *domain.RecalculationSummary
		err     error
	)
	switch {
	case req.ProductID != nil:
		summary, err = h.recalcService.RecalculateForProduct(ctx, *req.ProductID, userID)
	case req.CurrencyCode != "":
		summary, err = h.recalcService.RecalculateForCurrency(ctx, strings.ToUpper(req.CurrencyCode), userID)
	case req.CountryCode != "":
		summary, err = h.recalcService.RecalculateForCountry(ctx, strings.ToUpper(req.CountryCode), userID)
	default:
		summary, err = h.recalcService.RecalculateAll(ctx, userID)
	}
	if err != nil {
		respondError(c, err, "Failed to recalculate prices")
		return
	}

	middleware.GetLoggerFromCtx(ctx).Info("Recalculation finished",
		slog.String("scope", string(summary.Scope.Kind)),
		slog.Int("recalculated", summary.Recalculated),
		slog.Int("changed", summary.Changed),
		slog.Int("failed", summary.Failed))
	c.JSON(http.StatusOK, summary)
}

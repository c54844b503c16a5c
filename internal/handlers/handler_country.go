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

type countryHandler struct {
	countryService portssvc.CountrySvc
	taxService     portssvc.TaxSvc
}

func registerCountryRoutes(rg *gin.RouterGroup, countryService portssvc.CountrySvc, taxService portssvc.TaxSvc) {
	h := &countryHandler{countryService: countryService, taxService: taxService}

	countries := rg.Group("/countries")
	{
		countries.POST("", h.createCountry)
		countries.GET("", h.listCountries)
		countries.GET("/:code", h.getCountryByCode)
		countries.PUT("/:code/tax", h.setCountryTax)
	}
}

func countryCodeParam(c *gin.Context) (string, bool) {
	code := strings.ToUpper(c.Param("code"))
	if !countryCodePattern.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Country code must be 2 letters"})
		return "", false
	}
	return code, true
}

// createCountry godoc
// @Summary Register a storefront country
// @Tags countries
// @Accept  json
// @Produce  json
// @Param   country body dto.CreateCountryRequest true "Country details"
// @Success 201 {object} domain.Country
// @Failure 400 {object} map[string]string "Invalid input or unknown currency"
// @Failure 409 {object} map[string]string "Country already exists"
// @Security BearerAuth
// @Router /countries [post]
func (h *countryHandler) createCountry(c *gin.Context) {
	var req dto.CreateCountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "CreateCountry", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	country, err := h.countryService.CreateCountry(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create country")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Country created", slog.String("country_code", country.CountryCode))
	c.JSON(http.StatusCreated, country)
}

// listCountries godoc
// @Summary List countries
// @Tags countries
// @Produce  json
// @Param   activeOnly query bool false "Only active countries"
// @Success 200 {array} domain.Country
// @Security BearerAuth
// @Router /countries [get]
func (h *countryHandler) listCountries(c *gin.Context) {
	var params dto.ListCurrenciesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "ListCountries query", err)
		return
	}

	countries, err := h.countryService.ListCountries(c.Request.Context(), params.ActiveOnly)
	if err != nil {
		respondError(c, err, "Failed to list countries")
		return
	}
	c.JSON(http.StatusOK, countries)
}

// getCountryByCode godoc
// @Summary Get a country by code
// @Tags countries
// @Produce  json
// @Param   code path string true "Country Code (2 letters)"
// @Success 200 {object} domain.Country
// @Failure 404 {object} map[string]string "Country not found"
// @Security BearerAuth
// @Router /countries/{code} [get]
func (h *countryHandler) getCountryByCode(c *gin.Context) {
	code, ok := countryCodeParam(c)
	if !ok {
		return
	}

	country, err := h.countryService.GetCountryByCode(c.Request.Context(), code)
	if err != nil {
		respondError(c, err, "Failed to retrieve country")
		return
	}
	c.JSON(http.StatusOK, country)
}

// setCountryTax godoc
// @Summary Set a country's default tax rate
// @Tags countries
// @Accept  json
// @Produce  json
// @Param   code path string true "Country Code"
// @Param   tax body dto.SetCountryTaxRequest true "Default tax percentage (0-100)"
// @Success 200 {object} domain.CountryTaxUpdateResult
// @Failure 400 {object} map[string]string "Rate out of range"
// @Failure 404 {object} map[string]string "Country not found"
// @Security BearerAuth
// @Router /countries/{code}/tax [put]
func (h *countryHandler) setCountryTax(c *gin.Context) {
	code, ok := countryCodeParam(c)
	if !ok {
		return
	}
	var req dto.SetCountryTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "SetCountryTax", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	res, err := h.taxService.SetCountryDefaultTax(c.Request.Context(), code, *req.DefaultTaxRate, userID)
	if err != nil {
		respondError(c, err, "Failed to set country tax")
		return
	}
	c.JSON(http.StatusOK, res)
}

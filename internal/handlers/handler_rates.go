package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/pricing_admin_backend/internal/core/ports/services"
	"github.com/SscSPs/pricing_admin_backend/internal/dto"
	"github.com/SscSPs/pricing_admin_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ratesHandler struct {
	rateFetchService portssvc.RateFetchSvc
	auditService     portssvc.AuditSvc
}

func registerRateRoutes(rg *gin.RouterGroup, rateFetchService portssvc.RateFetchSvc, auditService portssvc.AuditSvc) {
	h := &ratesHandler{rateFetchService: rateFetchService, auditService: auditService}

	rates := rg.Group("/rates")
	{
		rates.POST("/fetch", h.fetchRates)
		rates.GET("/fetch-logs", h.listFetchLogs)
		rates.GET("/history", h.listRateHistory)
	}
}

// fetchRates godoc
// @Summary Fetch exchange rates now
// @Description Pulls a rate table from the provider chain and applies it. A provider failure is reported in the returned log with status "failure".
// @Tags rates
// @Produce  json
// @Success 200 {object} domain.CurrencyRateFetchLog
// @Failure 422 {object} map[string]string "No base currency configured"
// @Security BearerAuth
// @Router /rates/fetch [post]
func (h *ratesHandler) fetchRates(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fetchLog, err := h.rateFetchService.FetchAndApply(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to fetch rates")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Rate fetch finished",
		slog.String("fetch_id", fetchLog.FetchID),
		slog.String("status", string(fetchLog.Status)),
		slog.Int("updated", fetchLog.UpdatedCount))
	c.JSON(http.StatusOK, fetchLog)
}

// listFetchLogs godoc
// @Summary List recent rate fetch attempts
// @Tags rates
// @Produce  json
// @Param   limit query int false "Maximum entries" default(50)
// @Success 200 {array} domain.CurrencyRateFetchLog
// @Security BearerAuth
// @Router /rates/fetch-logs [get]
func (h *ratesHandler) listFetchLogs(c *gin.Context) {
	var params dto.ListLimitParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "ListFetchLogs query", err)
		return
	}

	logs, err := h.rateFetchService.ListFetchLogs(c.Request.Context(), params.Limit)
	if err != nil {
		respondError(c, err, "Failed to list fetch logs")
		return
	}
	c.JSON(http.StatusOK, logs)
}

// listRateHistory godoc
// @Summary List effective rate changes
// @Tags rates
// @Produce  json
// @Param   currencyCode query string false "Restrict to one currency"
// @Param   limit query int false "Maximum entries" default(50)
// @Success 200 {array} domain.CurrencyRateHistory
// @Security BearerAuth
// @Router /rates/history [get]
func (h *ratesHandler) listRateHistory(c *gin.Context) {
	var params dto.RateHistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "RateHistory query", err)
		return
	}

	history, err := h.auditService.GetRateHistory(c.Request.Context(), params.CurrencyCode, params.Limit)
	if err != nil {
		respondError(c, err, "Failed to list rate history")
		return
	}
	c.JSON(http.StatusOK, history)
}

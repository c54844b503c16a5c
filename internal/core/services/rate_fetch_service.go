package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	"github.com/SscSPs/pricing_admin_backend/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/pricing_admin_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pricing_admin_backend/internal/core/ports/services"
	"github.com/SscSPs/pricing_admin_backend/internal/platform/metrics"
	"github.com/google/uuid"
)

type rateFetchService struct {
	BaseService
	provider     providers.RatesProvider
	currencySvc  portssvc.CurrencySvcFacade
	fetchLogRepo portsrepo.FetchLogRepository
	auditSvc     portssvc.AuditSvc
	recalcSvc    portssvc.RecalculationSvc
	autoRecalc   bool
}

// RateFetchOption configures the rate fetch service.
type RateFetchOption func(*rateFetchService)

// WithAutoRecalculation recalculates prices of every currency whose effective rate moved.
func WithAutoRecalculation(recalc portssvc.RecalculationSvc) RateFetchOption {
	return func(s *rateFetchService) {
		s.recalcSvc = recalc
		s.autoRecalc = recalc != nil
	}
}

// NewRateFetchService creates the service that pulls rates from the provider chain.
func NewRateFetchService(provider providers.RatesProvider, currencySvc portssvc.CurrencySvcFacade, fetchLogRepo portsrepo.FetchLogRepository, auditSvc portssvc.AuditSvc, opts ...RateFetchOption) portssvc.RateFetchSvc {
	s := &rateFetchService{
		provider:     provider,
		currencySvc:  currencySvc,
		fetchLogRepo: fetchLogRepo,
		auditSvc:     auditSvc,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.RateFetchSvc = (*rateFetchService)(nil)

// FetchAndApply never leaves currencies half-updated by a bad payload: the provider chain
// validates the whole table before any currency is written, and a failed fetch touches nothing.
func (s *rateFetchService) FetchAndApply(ctx context.Context, userID string) (*domain.CurrencyRateFetchLog, error) {
	base, err := s.currencySvc.GetBaseCurrency(ctx)
	if err != nil {
		return nil, err
	}

	fetchLog := domain.CurrencyRateFetchLog{
		FetchID:      uuid.NewString(),
		Provider:     s.provider.Name(),
		BaseCurrency: base.CurrencyCode,
		Status:       domain.FetchPending,
		TriggeredBy:  userID,
		StartedAt:    now(),
	}
	if err := s.fetchLogRepo.SaveFetchLog(ctx, fetchLog); err != nil {
		return nil, fmt.Errorf("failed to record rate fetch: %w", err)
	}

	table, err := s.provider.FetchRates(ctx, base.CurrencyCode)
	if err == nil && !strings.EqualFold(table.Base, base.CurrencyCode) {
		err = fmt.Errorf("provider %s returned rates for base %s, expected %s", table.Provider, table.Base, base.CurrencyCode)
	}
	if err != nil {
		s.LogError(ctx, err, "Rate fetch failed", slog.String("base_currency", base.CurrencyCode))
		return s.finishFailed(ctx, fetchLog, err.Error(), userID), nil
	}

	result, err := s.currencySvc.ApplyFetchedRates(ctx, table.Rates, table.Provider, userID)
	if err != nil {
		s.LogError(ctx, err, "Applying fetched rates failed", slog.String("provider", table.Provider))
		return s.finishFailed(ctx, fetchLog, err.Error(), userID), nil
	}

	var payload json.RawMessage
	if json.Valid(table.Raw) {
		payload = table.Raw
	}
	fetchLog.Succeed(table.Provider, *result, payload, now())
	s.saveFinished(ctx, fetchLog)
	metrics.RecordRateFetch(string(domain.FetchSuccess))
	s.auditSvc.Log(ctx, domain.NewAuditEntry(domain.AuditRateFetch, domain.EntityRateFetch, fetchLog.FetchID,
		nil, result, userID, "provider "+table.Provider))

	if s.autoRecalc {
		for _, code := range result.ChangedCodes {
			if _, err := s.recalcSvc.RecalculateForCurrency(ctx, code, userID); err != nil {
				s.LogError(ctx, err, "Recalculation after rate fetch failed", slog.String("currency_code", code))
			}
		}
	}
	return &fetchLog, nil
}

func (s *rateFetchService) finishFailed(ctx context.Context, fetchLog domain.CurrencyRateFetchLog, message, userID string) *domain.CurrencyRateFetchLog {
	fetchLog.Fail(message, now())
	s.saveFinished(ctx, fetchLog)
	metrics.RecordRateFetch(string(domain.FetchFailure))
	s.auditSvc.Log(ctx, domain.NewAuditEntry(domain.AuditRateFetch, domain.EntityRateFetch, fetchLog.FetchID,
		nil, map[string]string{"status": string(fetchLog.Status), "message": message}, userID, ""))
	return &fetchLog
}

func (s *rateFetchService) saveFinished(ctx context.Context, fetchLog domain.CurrencyRateFetchLog) {
	if err := s.fetchLogRepo.UpdateFetchLog(context.WithoutCancel(ctx), fetchLog); err != nil {
		metrics.RecordAuditWriteFailure("fetch_log")
		s.LogError(ctx, err, "Failed to close rate fetch log", slog.String("fetch_id", fetchLog.FetchID))
	}
}

func (s *rateFetchService) ListFetchLogs(ctx context.Context, limit int) ([]domain.CurrencyRateFetchLog, error) {
	limit = domain.AuditLogFilter{Limit: limit}.NormalizedLimit()
	logs, err := s.fetchLogRepo.ListFetchLogs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate fetch logs: %w", err)
	}
	if logs == nil {
		return []domain.CurrencyRateFetchLog{}, nil
	}
	return logs, nil
}

package repositories

import (
	"context"

	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
)

// AuditLogRepository is the append-only store of pricing audit entries.
type AuditLogRepository interface {
	SaveAuditLog(ctx context.Context, entry domain.PricingAuditLog) error

	// ListAuditLogs returns entries newest first, honouring every filter field.
	ListAuditLogs(ctx context.Context, filter domain.AuditLogFilter) ([]domain.PricingAuditLog, error)
}

// RateHistoryRepository is the append-only store of effective-rate changes.
type RateHistoryRepository interface {
	SaveRateHistory(ctx context.Context, history domain.CurrencyRateHistory) error

	// ListRateHistory returns changes newest first. An empty code lists every currency.
	ListRateHistory(ctx context.Context, currencyCode string, limit int) ([]domain.CurrencyRateHistory, error)
}

// FetchLogRepository stores one row per rate fetch attempt.
type FetchLogRepository interface {
	SaveFetchLog(ctx context.Context, log domain.CurrencyRateFetchLog) error
	UpdateFetchLog(ctx context.Context, log domain.CurrencyRateFetchLog) error
	ListFetchLogs(ctx context.Context, limit int) ([]domain.CurrencyRateFetchLog, error)
}

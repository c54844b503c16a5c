package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingAuditLog is a row of the append-only pricing_audit_logs table.
// OldValue and NewValue hold JSON documents and are NULL when absent.
type PricingAuditLog struct {
	LogID       string    `db:"log_id"`
	ActionType  string    `db:"action_type"`
	EntityType  string    `db:"entity_type"`
	EntityID    string    `db:"entity_id"`
	OldValue    []byte    `db:"old_value"`
	NewValue    []byte    `db:"new_value"`
	PerformedBy string    `db:"performed_by"`
	Notes       *string   `db:"notes"`
	CreatedAt   time.Time `db:"created_at"`
}

// CurrencyRateHistory is a row of the append-only currency_rate_history table.
type CurrencyRateHistory struct {
	HistoryID     string          `db:"history_id"`
	CurrencyCode  string          `db:"currency_code"`
	OldRate       decimal.Decimal `db:"old_rate"`
	NewRate       decimal.Decimal `db:"new_rate"`
	ChangePercent decimal.Decimal `db:"change_percent"`
	ChangeSource  string          `db:"change_source"`
	ChangedBy     string          `db:"changed_by"`
	Reason        *string         `db:"reason"`
	CreatedAt     time.Time       `db:"created_at"`
}

// CurrencyRateFetchLog is a row of the currency_rate_fetch_logs table.
type CurrencyRateFetchLog struct {
	FetchID        string     `db:"fetch_id"`
	Provider       string     `db:"provider"`
	BaseCurrency   string     `db:"base_currency"`
	UpdatedCount   int        `db:"updated_count"`
	UnchangedCount int        `db:"unchanged_count"`
	Status         string     `db:"status"`
	Message        *string    `db:"message"`
	RawPayload     []byte     `db:"raw_payload"`
	TriggeredBy    string     `db:"triggered_by"`
	StartedAt      time.Time  `db:"started_at"`
	FinishedAt     *time.Time `db:"finished_at"`
}

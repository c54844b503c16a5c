package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pricing_admin_backend/internal/core/ports/repositories"
	"github.com/SscSPs/pricing_admin_backend/internal/models"
	"github.com/SscSPs/pricing_admin_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const auditLogColumns = `log_id, action_type, entity_type, entity_id, old_value, new_value, performed_by, notes, created_at`

// PgxAuditLogRepository stores pricing_audit_logs. Rows are never updated or deleted.
type PgxAuditLogRepository struct {
	BaseRepository
}

func newPgxAuditLogRepository(pool *pgxpool.Pool) *PgxAuditLogRepository {
	return &PgxAuditLogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditLogRepository = (*PgxAuditLogRepository)(nil)

func (r *PgxAuditLogRepository) SaveAuditLog(ctx context.Context, entry domain.PricingAuditLog) error {
	m := mapping.ToModelPricingAuditLog(entry)
	query := `INSERT INTO pricing_audit_logs (` + auditLogColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	_, err := r.Pool.Exec(ctx, query,
		m.LogID, m.ActionType, m.EntityType, m.EntityID, m.OldValue, m.NewValue, m.PerformedBy, m.Notes, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save audit log %s: %w", m.LogID, err)
	}
	return nil
}

// buildAuditLogQuery renders the filtered, keyset-paginated audit query. The cursor
// is the (created_at, log_id) of the last row of the previous page.
func buildAuditLogQuery(filter domain.AuditLogFilter) (string, []any) {
	var conditions []string
	var args []any
	where := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, strings.ReplaceAll(clause, "?", "$"+strconv.Itoa(len(args))))
	}

	if filter.ActionType != "" {
		where("action_type = ?", filter.ActionType)
	}
	if filter.EntityType != "" {
		where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		where("entity_id = ?", filter.EntityID)
	}
	if filter.PerformedBy != "" {
		where("performed_by = ?", filter.PerformedBy)
	}
	if filter.Since != nil {
		where("created_at >= ?", *filter.Since)
	}
	if filter.Until != nil {
		where("created_at <= ?", *filter.Until)
	}
	if filter.CursorTime != nil {
		args = append(args, *filter.CursorTime, filter.CursorID)
		conditions = append(conditions, fmt.Sprintf("(created_at, log_id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	query := `SELECT ` + auditLogColumns + ` FROM pricing_audit_logs`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, filter.Limit)
	query += " ORDER BY created_at DESC, log_id DESC LIMIT $" + strconv.Itoa(len(args)) + ";"
	return query, args
}

// ListAuditLogs returns entries newest first.
func (r *PgxAuditLogRepository) ListAuditLogs(ctx context.Context, filter domain.AuditLogFilter) ([]domain.PricingAuditLog, error) {
	query, args := buildAuditLogQuery(filter)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	modelLogs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.PricingAuditLog, error) {
		var m models.PricingAuditLog
		err := row.Scan(
			&m.LogID,
			&m.ActionType,
			&m.EntityType,
			&m.EntityID,
			&m.OldValue,
			&m.NewValue,
			&m.PerformedBy,
			&m.Notes,
			&m.CreatedAt,
		)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan audit logs: %w", err)
	}

	logs := make([]domain.PricingAuditLog, len(modelLogs))
	for i, m := range modelLogs {
		logs[i] = mapping.ToDomainPricingAuditLog(m)
	}
	return logs, nil
}

const rateHistoryColumns = `history_id, currency_code, old_rate, new_rate, change_percent, change_source, changed_by, reason, created_at`

type PgxRateHistoryRepository struct {
	BaseRepository
}

func newPgxRateHistoryRepository(pool *pgxpool.Pool) *PgxRateHistoryRepository {
	return &PgxRateHistoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RateHistoryRepository = (*PgxRateHistoryRepository)(nil)

func (r *PgxRateHistoryRepository) SaveRateHistory(ctx context.Context, history domain.CurrencyRateHistory) error {
	m := mapping.ToModelRateHistory(history)
	query := `INSERT INTO currency_rate_history (` + rateHistoryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	_, err := r.Pool.Exec(ctx, query,
		m.HistoryID, m.CurrencyCode, m.OldRate, m.NewRate, m.ChangePercent, m.ChangeSource, m.ChangedBy, m.Reason, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save rate history for %s: %w", m.CurrencyCode, err)
	}
	return nil
}

func (r *PgxRateHistoryRepository) ListRateHistory(ctx context.Context, currencyCode string, limit int) ([]domain.CurrencyRateHistory, error) {
	query := `SELECT ` + rateHistoryColumns + ` FROM currency_rate_history
		WHERE ($1 = '' OR currency_code = $1)
		ORDER BY created_at DESC, history_id DESC LIMIT $2;`
	rows, err := r.Pool.Query(ctx, query, currencyCode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate history: %w", err)
	}
	defer rows.Close()

	modelHistory, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CurrencyRateHistory, error) {
		var m models.CurrencyRateHistory
		err := row.Scan(
			&m.HistoryID,
			&m.CurrencyCode,
			&m.OldRate,
			&m.NewRate,
			&m.ChangePercent,
			&m.ChangeSource,
			&m.ChangedBy,
			&m.Reason,
			&m.CreatedAt,
		)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan rate history: %w", err)
	}

	history := make([]domain.CurrencyRateHistory, len(modelHistory))
	for i, m := range modelHistory {
		history[i] = mapping.ToDomainRateHistory(m)
	}
	return history, nil
}

const fetchLogColumns = `fetch_id, provider, base_currency, updated_count, unchanged_count, status, message,
	raw_payload, triggered_by, started_at, finished_at`

type PgxFetchLogRepository struct {
	BaseRepository
}

func newPgxFetchLogRepository(pool *pgxpool.Pool) *PgxFetchLogRepository {
	return &PgxFetchLogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FetchLogRepository = (*PgxFetchLogRepository)(nil)

func (r *PgxFetchLogRepository) SaveFetchLog(ctx context.Context, log domain.CurrencyRateFetchLog) error {
	m := mapping.ToModelFetchLog(log)
	query := `INSERT INTO currency_rate_fetch_logs (` + fetchLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	_, err := r.Pool.Exec(ctx, query,
		m.FetchID, m.Provider, m.BaseCurrency, m.UpdatedCount, m.UnchangedCount, m.Status, m.Message,
		m.RawPayload, m.TriggeredBy, m.StartedAt, m.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save fetch log %s: %w", m.FetchID, err)
	}
	return nil
}

// UpdateFetchLog closes a pending fetch log with its outcome.
func (r *PgxFetchLogRepository) UpdateFetchLog(ctx context.Context, log domain.CurrencyRateFetchLog) error {
	m := mapping.ToModelFetchLog(log)
	query := `
		UPDATE currency_rate_fetch_logs SET
			provider = $2, updated_count = $3, unchanged_count = $4, status = $5,
			message = $6, raw_payload = $7, finished_at = $8
		WHERE fetch_id = $1;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.FetchID, m.Provider, m.UpdatedCount, m.UnchangedCount, m.Status, m.Message, m.RawPayload, m.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update fetch log %s: %w", m.FetchID, err)
	}
	return nil
}

func (r *PgxFetchLogRepository) ListFetchLogs(ctx context.Context, limit int) ([]domain.CurrencyRateFetchLog, error) {
	query := `SELECT ` + fetchLogColumns + ` FROM currency_rate_fetch_logs ORDER BY started_at DESC, fetch_id DESC LIMIT $1;`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetch logs: %w", err)
	}
	defer rows.Close()

	modelLogs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CurrencyRateFetchLog, error) {
		var m models.CurrencyRateFetchLog
		err := row.Scan(
			&m.FetchID,
			&m.Provider,
			&m.BaseCurrency,
			&m.UpdatedCount,
			&m.UnchangedCount,
			&m.Status,
			&m.Message,
			&m.RawPayload,
			&m.TriggeredBy,
			&m.StartedAt,
			&m.FinishedAt,
		)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan fetch logs: %w", err)
	}

	logs := make([]domain.CurrencyRateFetchLog, len(modelLogs))
	for i, m := range modelLogs {
		logs[i] = mapping.ToDomainFetchLog(m)
	}
	return logs, nil
}

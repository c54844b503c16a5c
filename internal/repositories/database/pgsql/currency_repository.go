package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pricing_admin_backend/internal/core/ports/repositories"
	"github.com/SscSPs/pricing_admin_backend/internal/models"
	"github.com/SscSPs/pricing_admin_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const currencyColumns = `currency_code, symbol, name, precision, api_rate, exchange_rate,
	adjustment_factor, custom_percentage_change, custom_value_factor, regional_tax_percent,
	manual_override, manual_rate, rate_source, is_base_currency, is_active, last_updated, last_api_update,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxCurrencyRepository struct {
	BaseRepository
}

// newPgxCurrencyRepository creates a new repository for currency data.
func newPgxCurrencyRepository(pool *pgxpool.Pool) *PgxCurrencyRepository {
	return &PgxCurrencyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CurrencyRepositoryFacade = (*PgxCurrencyRepository)(nil)

func scanCurrency(row pgx.Row) (models.Currency, error) {
	var m models.Currency
	err := row.Scan(
		&m.CurrencyCode,
		&m.Symbol,
		&m.Name,
		&m.Precision,
		&m.APIRate,
		&m.ExchangeRate,
		&m.AdjustmentFactor,
		&m.CustomPercentageChange,
		&m.CustomValueFactor,
		&m.RegionalTaxPercent,
		&m.ManualOverride,
		&m.ManualRate,
		&m.RateSource,
		&m.IsBaseCurrency,
		&m.IsActive,
		&m.LastUpdated,
		&m.LastAPIUpdate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func collectCurrencies(rows pgx.Rows) ([]domain.Currency, error) {
	modelCurrencies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Currency, error) {
		return scanCurrency(row)
	})
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainCurrencySlice(modelCurrencies), nil
}

// SaveCurrency inserts a new currency. A second row with the same code, or a second base, is a duplicate.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	m := mapping.ToModelCurrency(currency)
	query := `INSERT INTO currencies (` + currencyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);`

	_, err := r.Pool.Exec(ctx, query,
		m.CurrencyCode, m.Symbol, m.Name, m.Precision, m.APIRate, m.ExchangeRate,
		m.AdjustmentFactor, m.CustomPercentageChange, m.CustomValueFactor, m.RegionalTaxPercent,
		m.ManualOverride, m.ManualRate, m.RateSource, m.IsBaseCurrency, m.IsActive, m.LastUpdated, m.LastAPIUpdate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("currency %s: %w", m.CurrencyCode, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save currency %s: %w", m.CurrencyCode, err)
	}
	return nil
}

// FindCurrencyByCode retrieves a currency by its 3-letter code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE currency_code = $1;`
	return findCurrency(r.Pool.QueryRow(ctx, query, currencyCode), currencyCode)
}

// FindBaseCurrency retrieves the single row flagged as base.
func (r *PgxCurrencyRepository) FindBaseCurrency(ctx context.Context) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE is_base_currency;`
	return findCurrency(r.Pool.QueryRow(ctx, query), "base")
}

func (r *PgxCurrencyRepository) FindCurrencyByCodeForUpdate(ctx context.Context, tx pgx.Tx, currencyCode string) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE currency_code = $1 FOR UPDATE;`
	return findCurrency(tx.QueryRow(ctx, query, currencyCode), currencyCode)
}

func findCurrency(row pgx.Row, key string) (*domain.Currency, error) {
	m, err := scanCurrency(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		if isLockTimeout(err) {
			return nil, fmt.Errorf("%w: row is locked by a concurrent edit", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to find currency %s: %w", key, err)
	}
	c := mapping.ToDomainCurrency(m)
	return &c, nil
}

// ListCurrencies retrieves currencies ordered by code.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context, activeOnly bool) ([]domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE ($1 = false OR is_active) ORDER BY currency_code;`
	rows, err := r.Pool.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	currencies, err := collectCurrencies(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan currencies: %w", err)
	}
	return currencies, nil
}

// ListCurrenciesForUpdate locks every currency row in code order, so concurrent base switches serialize.
func (r *PgxCurrencyRepository) ListCurrenciesForUpdate(ctx context.Context, tx pgx.Tx) ([]domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies ORDER BY currency_code FOR UPDATE;`
	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to lock currencies: %w", err)
	}
	defer rows.Close()

	currencies, err := collectCurrencies(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan locked currencies: %w", err)
	}
	return currencies, nil
}

func (r *PgxCurrencyRepository) UpdateCurrencyInTx(ctx context.Context, tx pgx.Tx, currency domain.Currency) error {
	m := mapping.ToModelCurrency(currency)
	query := `
		UPDATE currencies SET
			symbol = $2, name = $3, precision = $4, api_rate = $5, exchange_rate = $6,
			adjustment_factor = $7, custom_percentage_change = $8, custom_value_factor = $9,
			regional_tax_percent = $10, manual_override = $11, manual_rate = $12, rate_source = $13,
			is_base_currency = $14, is_active = $15, last_updated = $16, last_api_update = $17,
			last_updated_at = $18, last_updated_by = $19
		WHERE currency_code = $1;
	`
	tag, err := tx.Exec(ctx, query,
		m.CurrencyCode, m.Symbol, m.Name, m.Precision, m.APIRate, m.ExchangeRate,
		m.AdjustmentFactor, m.CustomPercentageChange, m.CustomValueFactor,
		m.RegionalTaxPercent, m.ManualOverride, m.ManualRate, m.RateSource,
		m.IsBaseCurrency, m.IsActive, m.LastUpdated, m.LastAPIUpdate,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("currency %s: %w", m.CurrencyCode, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update currency %s: %w", m.CurrencyCode, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

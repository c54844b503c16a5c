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

const overrideColumns = `override_id, product_id, country_code, currency_code, override_type,
	base_price_override, sale_price_override, adjustment_percentage, tax_rate_override,
	use_country_default_tax, price_locked, priority,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxRegionalOverrideRepository struct {
	BaseRepository
}

func newPgxRegionalOverrideRepository(pool *pgxpool.Pool) *PgxRegionalOverrideRepository {
	return &PgxRegionalOverrideRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RegionalOverrideRepositoryFacade = (*PgxRegionalOverrideRepository)(nil)

func scanOverride(row pgx.Row) (models.RegionalOverride, error) {
	var m models.RegionalOverride
	err := row.Scan(
		&m.OverrideID,
		&m.ProductID,
		&m.CountryCode,
		&m.CurrencyCode,
		&m.OverrideType,
		&m.BasePriceOverride,
		&m.SalePriceOverride,
		&m.AdjustmentPercentage,
		&m.TaxRateOverride,
		&m.UseCountryDefaultTax,
		&m.PriceLocked,
		&m.Priority,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func findOverride(row pgx.Row, productID int64, countryCode string) (*domain.RegionalOverride, error) {
	m, err := scanOverride(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		if isLockTimeout(err) {
			return nil, fmt.Errorf("%w: row is locked by a concurrent edit", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to find override of product %d in %s: %w", productID, countryCode, err)
	}
	o := mapping.ToDomainRegionalOverride(m)
	return &o, nil
}

func (r *PgxRegionalOverrideRepository) FindRegionalOverride(ctx context.Context, productID int64, countryCode string) (*domain.RegionalOverride, error) {
	query := `SELECT ` + overrideColumns + ` FROM product_regional_overrides WHERE product_id = $1 AND country_code = $2;`
	return findOverride(r.Pool.QueryRow(ctx, query, productID, countryCode), productID, countryCode)
}

func (r *PgxRegionalOverrideRepository) FindRegionalOverrideForUpdate(ctx context.Context, tx pgx.Tx, productID int64, countryCode string) (*domain.RegionalOverride, error) {
	query := `SELECT ` + overrideColumns + ` FROM product_regional_overrides
		WHERE product_id = $1 AND country_code = $2 FOR UPDATE;`
	return findOverride(tx.QueryRow(ctx, query, productID, countryCode), productID, countryCode)
}

func (r *PgxRegionalOverrideRepository) ListRegionalOverrides(ctx context.Context, productID int64) ([]domain.RegionalOverride, error) {
	query := `SELECT ` + overrideColumns + ` FROM product_regional_overrides
		WHERE product_id = $1 ORDER BY priority DESC, country_code;`
	rows, err := r.Pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query overrides of product %d: %w", productID, err)
	}
	defer rows.Close()

	modelOverrides, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.RegionalOverride, error) {
		return scanOverride(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan overrides of product %d: %w", productID, err)
	}

	overrides := make([]domain.RegionalOverride, len(modelOverrides))
	for i, m := range modelOverrides {
		overrides[i] = mapping.ToDomainRegionalOverride(m)
	}
	return overrides, nil
}

// SaveRegionalOverrideInTx upserts on the (product, country) key.
func (r *PgxRegionalOverrideRepository) SaveRegionalOverrideInTx(ctx context.Context, tx pgx.Tx, override domain.RegionalOverride) error {
	m := mapping.ToModelRegionalOverride(override)
	query := `
		INSERT INTO product_regional_overrides (` + overrideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (product_id, country_code) DO UPDATE SET
			currency_code = EXCLUDED.currency_code,
			override_type = EXCLUDED.override_type,
			base_price_override = EXCLUDED.base_price_override,
			sale_price_override = EXCLUDED.sale_price_override,
			adjustment_percentage = EXCLUDED.adjustment_percentage,
			tax_rate_override = EXCLUDED.tax_rate_override,
			use_country_default_tax = EXCLUDED.use_country_default_tax,
			price_locked = EXCLUDED.price_locked,
			priority = EXCLUDED.priority,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := tx.Exec(ctx, query,
		m.OverrideID, m.ProductID, m.CountryCode, m.CurrencyCode, m.OverrideType,
		m.BasePriceOverride, m.SalePriceOverride, m.AdjustmentPercentage, m.TaxRateOverride,
		m.UseCountryDefaultTax, m.PriceLocked, m.Priority,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save override of product %d in %s: %w", m.ProductID, m.CountryCode, err)
	}
	return nil
}

func (r *PgxRegionalOverrideRepository) DeleteRegionalOverrideInTx(ctx context.Context, tx pgx.Tx, productID int64, countryCode string) error {
	tag, err := tx.Exec(ctx, `DELETE FROM product_regional_overrides WHERE product_id = $1 AND country_code = $2;`, productID, countryCode)
	if err != nil {
		return fmt.Errorf("failed to delete override of product %d in %s: %w", productID, countryCode, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

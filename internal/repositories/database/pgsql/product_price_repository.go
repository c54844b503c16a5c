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

const productPriceColumns = `price_id, product_id, country_code, currency_code, price, pricing_type, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxProductPriceRepository struct {
	BaseRepository
}

func newPgxProductPriceRepository(pool *pgxpool.Pool) *PgxProductPriceRepository {
	return &PgxProductPriceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProductPriceRepositoryFacade = (*PgxProductPriceRepository)(nil)

func scanProductPrice(row pgx.Row) (models.ProductPrice, error) {
	var m models.ProductPrice
	err := row.Scan(
		&m.PriceID,
		&m.ProductID,
		&m.CountryCode,
		&m.CurrencyCode,
		&m.Price,
		&m.PricingType,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func findProductPrice(row pgx.Row, productID int64, currencyCode string) (*domain.ProductPrice, error) {
	m, err := scanProductPrice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		if isLockTimeout(err) {
			return nil, fmt.Errorf("%w: row is locked by a concurrent edit", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to find price of product %d in %s: %w", productID, currencyCode, err)
	}
	p := mapping.ToDomainProductPrice(m)
	return &p, nil
}

func (r *PgxProductPriceRepository) FindActiveProductPrice(ctx context.Context, productID int64, currencyCode string) (*domain.ProductPrice, error) {
	query := `SELECT ` + productPriceColumns + ` FROM product_prices
		WHERE product_id = $1 AND currency_code = $2 AND is_active;`
	return findProductPrice(r.Pool.QueryRow(ctx, query, productID, currencyCode), productID, currencyCode)
}

func (r *PgxProductPriceRepository) FindProductPriceForUpdate(ctx context.Context, tx pgx.Tx, productID int64, currencyCode string) (*domain.ProductPrice, error) {
	query := `SELECT ` + productPriceColumns + ` FROM product_prices
		WHERE product_id = $1 AND currency_code = $2 AND is_active FOR UPDATE;`
	return findProductPrice(tx.QueryRow(ctx, query, productID, currencyCode), productID, currencyCode)
}

// ListProductPrices returns every row of a product, active rows first.
func (r *PgxProductPriceRepository) ListProductPrices(ctx context.Context, productID int64) ([]domain.ProductPrice, error) {
	query := `SELECT ` + productPriceColumns + ` FROM product_prices
		WHERE product_id = $1 ORDER BY is_active DESC, currency_code;`
	rows, err := r.Pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices of product %d: %w", productID, err)
	}
	defer rows.Close()

	modelPrices, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ProductPrice, error) {
		return scanProductPrice(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan prices of product %d: %w", productID, err)
	}

	prices := make([]domain.ProductPrice, len(modelPrices))
	for i, m := range modelPrices {
		prices[i] = mapping.ToDomainProductPrice(m)
	}
	return prices, nil
}

// SaveProductPriceInTx upserts by price_id. The partial unique index on active
// (product, currency) rows rejects a second active row.
func (r *PgxProductPriceRepository) SaveProductPriceInTx(ctx context.Context, tx pgx.Tx, price domain.ProductPrice) error {
	m := mapping.ToModelProductPrice(price)
	query := `
		INSERT INTO product_prices (` + productPriceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (price_id) DO UPDATE SET
			country_code = EXCLUDED.country_code,
			price = EXCLUDED.price,
			pricing_type = EXCLUDED.pricing_type,
			is_active = EXCLUDED.is_active,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := tx.Exec(ctx, query,
		m.PriceID, m.ProductID, m.CountryCode, m.CurrencyCode, m.Price, m.PricingType, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("active price of product %d in %s: %w", m.ProductID, m.CurrencyCode, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save price %s: %w", m.PriceID, err)
	}
	return nil
}

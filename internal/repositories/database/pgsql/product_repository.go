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

// Only the pricing columns of products are read here; the catalog owns the rest.
const productColumns = `product_id, sku, name, base_price, sale_price, is_taxable, tax_rate, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxProductRepository struct {
	BaseRepository
}

func newPgxProductRepository(pool *pgxpool.Pool) *PgxProductRepository {
	return &PgxProductRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

func scanProduct(row pgx.Row) (models.Product, error) {
	var m models.Product
	err := row.Scan(
		&m.ProductID,
		&m.SKU,
		&m.Name,
		&m.BasePrice,
		&m.SalePrice,
		&m.IsTaxable,
		&m.TaxRate,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func findProduct(row pgx.Row, productID int64) (*domain.Product, error) {
	m, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		if isLockTimeout(err) {
			return nil, fmt.Errorf("%w: row is locked by a concurrent edit", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to find product %d: %w", productID, err)
	}
	p := mapping.ToDomainProduct(m)
	return &p, nil
}

func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1;`
	return findProduct(r.Pool.QueryRow(ctx, query, productID), productID)
}

func (r *PgxProductRepository) FindProductByIDForUpdate(ctx context.Context, tx pgx.Tx, productID int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1 FOR UPDATE;`
	return findProduct(tx.QueryRow(ctx, query, productID), productID)
}

func (r *PgxProductRepository) ListActiveProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active ORDER BY product_id;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	modelProducts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Product, error) {
		return scanProduct(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}

	products := make([]domain.Product, len(modelProducts))
	for i, m := range modelProducts {
		products[i] = mapping.ToDomainProduct(m)
	}
	return products, nil
}

// UpdateProductTaxInTx writes the tax columns and the audit stamp, leaving prices untouched.
func (r *PgxProductRepository) UpdateProductTaxInTx(ctx context.Context, tx pgx.Tx, product domain.Product) error {
	m := mapping.ToModelProduct(product)
	query := `
		UPDATE products SET is_taxable = $2, tax_rate = $3, last_updated_at = $4, last_updated_by = $5
		WHERE product_id = $1;
	`
	tag, err := tx.Exec(ctx, query, m.ProductID, m.IsTaxable, m.TaxRate, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update tax of product %d: %w", m.ProductID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

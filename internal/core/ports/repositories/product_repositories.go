package repositories

import (
	"context"

	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ProductReader defines read operations on the pricing view of products.
type ProductReader interface {
	// FindProductByID retrieves a product by its ID.
	FindProductByID(ctx context.Context, productID int64) (*domain.Product, error)

	// ListActiveProducts retrieves every active product ordered by ID.
	ListActiveProducts(ctx context.Context) ([]domain.Product, error)
}

// ProductTaxWriter defines the tax-setting writes on products.
type ProductTaxWriter interface {
	FindProductByIDForUpdate(ctx context.Context, tx pgx.Tx, productID int64) (*domain.Product, error)

	// UpdateProductTaxInTx writes is_taxable and tax_rate only.
	UpdateProductTaxInTx(ctx context.Context, tx pgx.Tx, product domain.Product) error
}

// ProductRepositoryFacade combines all product-related repository interfaces
type ProductRepositoryFacade interface {
	ProductReader
	ProductTaxWriter
}

// ProductPriceReader defines read operations for stored product prices
type ProductPriceReader interface {
	// FindActiveProductPrice retrieves the authoritative price row for (product, currency).
	FindActiveProductPrice(ctx context.Context, productID int64, currencyCode string) (*domain.ProductPrice, error)

	// ListProductPrices retrieves every price row of a product.
	ListProductPrices(ctx context.Context, productID int64) ([]domain.ProductPrice, error)
}

// ProductPriceTransactionSupport defines the locked read-modify-write of a price row.
type ProductPriceTransactionSupport interface {
	// FindProductPriceForUpdate locks the active (product, currency) row. Returns ErrNotFound when none exists.
	FindProductPriceForUpdate(ctx context.Context, tx pgx.Tx, productID int64, currencyCode string) (*domain.ProductPrice, error)

	// SaveProductPriceInTx inserts or updates a price row keyed by its ID.
	SaveProductPriceInTx(ctx context.Context, tx pgx.Tx, price domain.ProductPrice) error
}

// ProductPriceRepositoryFacade combines all product price repository interfaces
type ProductPriceRepositoryFacade interface {
	ProductPriceReader
	ProductPriceTransactionSupport
}

package repositories

import (
	"context"

	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// RegionalOverrideReader defines read operations for regional overrides
type RegionalOverrideReader interface {
	// FindRegionalOverride returns ErrNotFound when the product has no override in the country.
	FindRegionalOverride(ctx context.Context, productID int64, countryCode string) (*domain.RegionalOverride, error)
	ListRegionalOverrides(ctx context.Context, productID int64) ([]domain.RegionalOverride, error)
}

// RegionalOverrideWriter defines write operations for regional overrides
type RegionalOverrideWriter interface {
	FindRegionalOverrideForUpdate(ctx context.Context, tx pgx.Tx, productID int64, countryCode string) (*domain.RegionalOverride, error)
	SaveRegionalOverrideInTx(ctx context.Context, tx pgx.Tx, override domain.RegionalOverride) error
	DeleteRegionalOverrideInTx(ctx context.Context, tx pgx.Tx, productID int64, countryCode string) error
}

// RegionalOverrideRepositoryFacade combines all regional override repository interfaces
type RegionalOverrideRepositoryFacade interface {
	RegionalOverrideReader
	RegionalOverrideWriter
}

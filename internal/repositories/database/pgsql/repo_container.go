package pgsql

import (
	portsrepo "github.com/SscSPs/pricing_admin_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:            &BaseRepository{Pool: dbPool},
		CurrencyRepo:         newPgxCurrencyRepository(dbPool),
		CountryRepo:          newPgxCountryRepository(dbPool),
		ProductRepo:          newPgxProductRepository(dbPool),
		ProductPriceRepo:     newPgxProductPriceRepository(dbPool),
		RegionalOverrideRepo: newPgxRegionalOverrideRepository(dbPool),
		AuditLogRepo:         newPgxAuditLogRepository(dbPool),
		RateHistoryRepo:      newPgxRateHistoryRepository(dbPool),
		FetchLogRepo:         newPgxFetchLogRepository(dbPool),
	}
}

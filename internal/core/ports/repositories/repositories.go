package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager            TransactionManager
	CurrencyRepo         CurrencyRepositoryFacade
	CountryRepo          CountryRepositoryFacade
	ProductRepo          ProductRepositoryFacade
	ProductPriceRepo     ProductPriceRepositoryFacade
	RegionalOverrideRepo RegionalOverrideRepositoryFacade
	AuditLogRepo         AuditLogRepository
	RateHistoryRepo      RateHistoryRepository
	FetchLogRepo         FetchLogRepository
}

package services

import (
	"github.com/SscSPs/pricing_admin_backend/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/pricing_admin_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pricing_admin_backend/internal/core/ports/services"
	"github.com/SscSPs/pricing_admin_backend/internal/platform/config"
	"github.com/SscSPs/pricing_admin_backend/internal/platform/joblock"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, ratesProvider providers.RatesProvider, locker joblock.Locker) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Every writer records through the audit service, so it comes first.
	container.Audit = NewAuditService(repos.AuditLogRepo, repos.RateHistoryRepo)

	container.Currency = NewCurrencyService(repos.TxManager, repos.CurrencyRepo, container.Audit)
	container.Country = NewCountryService(repos.CountryRepo, repos.CurrencyRepo, container.Audit)
	container.Tax = NewTaxService(repos.TxManager, repos.ProductRepo, repos.CountryRepo, repos.RegionalOverrideRepo, container.Audit)
	container.RegionalOverride = NewRegionalOverrideService(
		repos.TxManager,
		repos.RegionalOverrideRepo,
		repos.ProductRepo,
		repos.CountryRepo,
		repos.CurrencyRepo,
		container.Audit,
	)
	container.ProductPrice = NewProductPriceService(
		repos.TxManager,
		repos.ProductPriceRepo,
		repos.ProductRepo,
		repos.CurrencyRepo,
		repos.CountryRepo,
		container.Audit,
	)
	container.PriceResolver = NewPriceResolverService(
		repos.ProductRepo,
		repos.ProductPriceRepo,
		repos.CountryRepo,
		repos.CurrencyRepo,
		repos.RegionalOverrideRepo,
	)
	container.Recalculation = NewRecalculationService(
		RecalculationConfig{Workers: cfg.RecalcWorkers, LockTTL: cfg.RecalcLockTTL},
		repos.TxManager,
		repos.ProductRepo,
		repos.ProductPriceRepo,
		repos.CurrencyRepo,
		repos.CountryRepo,
		container.Audit,
		locker,
	)

	var fetchOpts []RateFetchOption
	if cfg.RatesAutoRecalc {
		fetchOpts = append(fetchOpts, WithAutoRecalculation(container.Recalculation))
	}
	container.RateFetch = NewRateFetchService(ratesProvider, container.Currency, repos.FetchLogRepo, container.Audit, fetchOpts...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CurrencySvcFacade = (*currencyService)(nil)
	_ portssvc.RecalculationSvc  = (*recalculationService)(nil)
)

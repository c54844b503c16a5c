package services_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pricing_admin_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// fakeTx stages writes until Commit. Transactions are serialized by the store,
// which stands in for the row locks a FOR UPDATE read takes.
type fakeTx struct {
	pgx.Tx
	ops  []func()
	done bool
}

func (tx *fakeTx) stage(op func()) { tx.ops = append(tx.ops, op) }

// fakeStore is an in-memory implementation of every repository port.
type fakeStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	currencies map[string]domain.Currency
	countries  map[string]domain.Country
	products   map[int64]domain.Product
	prices     map[string]domain.ProductPrice
	overrides  map[string]domain.RegionalOverride
	audit      []domain.PricingAuditLog
	history    []domain.CurrencyRateHistory
	fetchLogs  map[string]domain.CurrencyRateFetchLog

	// priceSaveErr, when set, is consulted before every price write.
	priceSaveErr func(domain.ProductPrice) error
	commits      int
	rollbacks    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		currencies: map[string]domain.Currency{},
		countries:  map[string]domain.Country{},
		products:   map[int64]domain.Product{},
		prices:     map[string]domain.ProductPrice{},
		overrides:  map[string]domain.RegionalOverride{},
		fetchLogs:  map[string]domain.CurrencyRateFetchLog{},
	}
}

func (s *fakeStore) repos() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:            s,
		CurrencyRepo:         s,
		CountryRepo:          s,
		ProductRepo:          s,
		ProductPriceRepo:     s,
		RegionalOverrideRepo: s,
		AuditLogRepo:         s,
		RateHistoryRepo:      s,
		FetchLogRepo:         s,
	}
}

var (
	_ portsrepo.TransactionManager               = (*fakeStore)(nil)
	_ portsrepo.CurrencyRepositoryFacade         = (*fakeStore)(nil)
	_ portsrepo.CountryRepositoryFacade          = (*fakeStore)(nil)
	_ portsrepo.ProductRepositoryFacade          = (*fakeStore)(nil)
	_ portsrepo.ProductPriceRepositoryFacade     = (*fakeStore)(nil)
	_ portsrepo.RegionalOverrideRepositoryFacade = (*fakeStore)(nil)
	_ portsrepo.AuditLogRepository               = (*fakeStore)(nil)
	_ portsrepo.RateHistoryRepository            = (*fakeStore)(nil)
	_ portsrepo.FetchLogRepository               = (*fakeStore)(nil)
)

// --- seeding helpers ---

func (s *fakeStore) putCurrency(c domain.Currency) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currencies[c.CurrencyCode] = c
}

func (s *fakeStore) putCountry(c domain.Country) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countries[c.CountryCode] = c
}

func (s *fakeStore) putProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ProductID] = p
}

func (s *fakeStore) putPrice(p domain.ProductPrice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[p.PriceID] = p
}

func (s *fakeStore) putOverride(o domain.RegionalOverride) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[overrideKey(o.ProductID, o.CountryCode)] = o
}

func (s *fakeStore) currency(code string) domain.Currency {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currencies[code]
}

func (s *fakeStore) activePrice(productID int64, currencyCode string) *domain.ProductPrice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findActivePrice(productID, currencyCode)
}

func (s *fakeStore) auditActions() []domain.AuditActionType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuditActionType, len(s.audit))
	for i, a := range s.audit {
		out[i] = a.ActionType
	}
	return out
}

func (s *fakeStore) countAudit(action domain.AuditActionType) int {
	n := 0
	for _, a := range s.auditActions() {
		if a == action {
			n++
		}
	}
	return n
}

func (s *fakeStore) historyFor(code string) []domain.CurrencyRateHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.CurrencyRateHistory
	for _, h := range s.history {
		if h.CurrencyCode == code {
			out = append(out, h)
		}
	}
	return out
}

func overrideKey(productID int64, countryCode string) string {
	return fmt.Sprintf("%d:%s", productID, countryCode)
}

func notFound(what string) error {
	return apperrors.NewNotFoundError(what + " not found")
}

// --- TransactionManager ---

func (s *fakeStore) Begin(ctx context.Context) (pgx.Tx, error) {
	s.txMu.Lock()
	return &fakeTx{}, nil
}

func (s *fakeStore) Commit(ctx context.Context, tx pgx.Tx) error {
	ftx := tx.(*fakeTx)
	if ftx.done {
		return pgx.ErrTxClosed
	}
	ftx.done = true
	s.mu.Lock()
	for _, op := range ftx.ops {
		op()
	}
	s.commits++
	s.mu.Unlock()
	s.txMu.Unlock()
	return nil
}

func (s *fakeStore) Rollback(ctx context.Context, tx pgx.Tx) error {
	ftx := tx.(*fakeTx)
	if ftx.done {
		return nil
	}
	ftx.done = true
	s.mu.Lock()
	s.rollbacks++
	s.mu.Unlock()
	s.txMu.Unlock()
	return nil
}

// --- currencies ---

func (s *fakeStore) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.currencies[code]
	if !ok {
		return nil, notFound("currency " + code)
	}
	return &c, nil
}

func (s *fakeStore) FindBaseCurrency(ctx context.Context) (*domain.Currency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.currencies {
		if c.IsBaseCurrency {
			return &c, nil
		}
	}
	return nil, notFound("base currency")
}

func (s *fakeStore) ListCurrencies(ctx context.Context, activeOnly bool) ([]domain.Currency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Currency
	for _, c := range s.currencies {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrencyCode < out[j].CurrencyCode })
	return out, nil
}

func (s *fakeStore) SaveCurrency(ctx context.Context, c domain.Currency) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.currencies[c.CurrencyCode]; ok {
		return apperrors.ErrDuplicate
	}
	s.currencies[c.CurrencyCode] = c
	return nil
}

func (s *fakeStore) FindCurrencyByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*domain.Currency, error) {
	return s.FindCurrencyByCode(ctx, code)
}

func (s *fakeStore) ListCurrenciesForUpdate(ctx context.Context, tx pgx.Tx) ([]domain.Currency, error) {
	return s.ListCurrencies(ctx, false)
}

func (s *fakeStore) UpdateCurrencyInTx(ctx context.Context, tx pgx.Tx, c domain.Currency) error {
	tx.(*fakeTx).stage(func() { s.currencies[c.CurrencyCode] = c })
	return nil
}

// --- countries ---

func (s *fakeStore) FindCountryByCode(ctx context.Context, code string) (*domain.Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.countries[code]
	if !ok {
		return nil, notFound("country " + code)
	}
	return &c, nil
}

func (s *fakeStore) ListCountries(ctx context.Context, activeOnly bool) ([]domain.Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Country
	for _, c := range s.countries {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CountryCode < out[j].CountryCode })
	return out, nil
}

func (s *fakeStore) SaveCountry(ctx context.Context, c domain.Country) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countries[c.CountryCode] = c
	return nil
}

func (s *fakeStore) FindCountryByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*domain.Country, error) {
	return s.FindCountryByCode(ctx, code)
}

func (s *fakeStore) UpdateCountryInTx(ctx context.Context, tx pgx.Tx, c domain.Country) error {
	tx.(*fakeTx).stage(func() { s.countries[c.CountryCode] = c })
	return nil
}

// --- products ---

func (s *fakeStore) FindProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, notFound(fmt.Sprintf("product %d", id))
	}
	return &p, nil
}

func (s *fakeStore) ListActiveProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Product
	for _, p := range s.products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (s *fakeStore) FindProductByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Product, error) {
	return s.FindProductByID(ctx, id)
}

func (s *fakeStore) UpdateProductTaxInTx(ctx context.Context, tx pgx.Tx, p domain.Product) error {
	tx.(*fakeTx).stage(func() {
		cur := s.products[p.ProductID]
		cur.IsTaxable = p.IsTaxable
		cur.TaxRate = p.TaxRate
		cur.AuditFields = p.AuditFields
		s.products[p.ProductID] = cur
	})
	return nil
}

// --- product prices ---

func (s *fakeStore) findActivePrice(productID int64, currencyCode string) *domain.ProductPrice {
	for _, p := range s.prices {
		if p.ProductID == productID && p.CurrencyCode == currencyCode && p.IsActive {
			return &p
		}
	}
	return nil
}

func (s *fakeStore) FindActiveProductPrice(ctx context.Context, productID int64, currencyCode string) (*domain.ProductPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.findActivePrice(productID, currencyCode); p != nil {
		return p, nil
	}
	return nil, notFound("price")
}

func (s *fakeStore) ListProductPrices(ctx context.Context, productID int64) ([]domain.ProductPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ProductPrice
	for _, p := range s.prices {
		if p.ProductID == productID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrencyCode < out[j].CurrencyCode })
	return out, nil
}

func (s *fakeStore) FindProductPriceForUpdate(ctx context.Context, tx pgx.Tx, productID int64, currencyCode string) (*domain.ProductPrice, error) {
	return s.FindActiveProductPrice(ctx, productID, currencyCode)
}

func (s *fakeStore) SaveProductPriceInTx(ctx context.Context, tx pgx.Tx, p domain.ProductPrice) error {
	if s.priceSaveErr != nil {
		if err := s.priceSaveErr(p); err != nil {
			return err
		}
	}
	tx.(*fakeTx).stage(func() { s.prices[p.PriceID] = p })
	return nil
}

// --- regional overrides ---

func (s *fakeStore) FindRegionalOverride(ctx context.Context, productID int64, countryCode string) (*domain.RegionalOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.overrides[overrideKey(productID, countryCode)]
	if !ok {
		return nil, notFound("regional override")
	}
	return &o, nil
}

func (s *fakeStore) ListRegionalOverrides(ctx context.Context, productID int64) ([]domain.RegionalOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.RegionalOverride
	for _, o := range s.overrides {
		if o.ProductID == productID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CountryCode < out[j].CountryCode })
	return out, nil
}

func (s *fakeStore) FindRegionalOverrideForUpdate(ctx context.Context, tx pgx.Tx, productID int64, countryCode string) (*domain.RegionalOverride, error) {
	return s.FindRegionalOverride(ctx, productID, countryCode)
}

func (s *fakeStore) SaveRegionalOverrideInTx(ctx context.Context, tx pgx.Tx, o domain.RegionalOverride) error {
	tx.(*fakeTx).stage(func() { s.overrides[overrideKey(o.ProductID, o.CountryCode)] = o })
	return nil
}

func (s *fakeStore) DeleteRegionalOverrideInTx(ctx context.Context, tx pgx.Tx, productID int64, countryCode string) error {
	tx.(*fakeTx).stage(func() { delete(s.overrides, overrideKey(productID, countryCode)) })
	return nil
}

// --- audit trail ---

func (s *fakeStore) SaveAuditLog(ctx context.Context, entry domain.PricingAuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, entry)
	return nil
}

func (s *fakeStore) ListAuditLogs(ctx context.Context, f domain.AuditLogFilter) ([]domain.PricingAuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.PricingAuditLog
	for _, a := range s.audit {
		if f.ActionType != "" && string(a.ActionType) != f.ActionType {
			continue
		}
		if f.EntityType != "" && a.EntityType != f.EntityType {
			continue
		}
		if f.EntityID != "" && a.EntityID != f.EntityID {
			continue
		}
		if f.CursorTime != nil {
			older := a.CreatedAt.Before(*f.CursorTime) ||
				(a.CreatedAt.Equal(*f.CursorTime) && a.LogID < f.CursorID)
			if !older {
				continue
			}
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].LogID > out[j].LogID
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *fakeStore) SaveRateHistory(ctx context.Context, h domain.CurrencyRateHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, h)
	return nil
}

func (s *fakeStore) ListRateHistory(ctx context.Context, code string, limit int) ([]domain.CurrencyRateHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.CurrencyRateHistory
	for i := len(s.history) - 1; i >= 0; i-- {
		if code == "" || s.history[i].CurrencyCode == code {
			out = append(out, s.history[i])
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) SaveFetchLog(ctx context.Context, l domain.CurrencyRateFetchLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchLogs[l.FetchID] = l
	return nil
}

func (s *fakeStore) UpdateFetchLog(ctx context.Context, l domain.CurrencyRateFetchLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fetchLogs[l.FetchID]; !ok {
		return errors.New("unknown fetch log")
	}
	s.fetchLogs[l.FetchID] = l
	return nil
}

func (s *fakeStore) ListFetchLogs(ctx context.Context, limit int) ([]domain.CurrencyRateFetchLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.CurrencyRateFetchLog
	for _, l := range s.fetchLogs {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- fixtures ---

var fixedTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func boolPtr(b bool) *bool { return &b }

func baseCurrency(code string) domain.Currency {
	c := domain.NewCurrency(code, code, code)
	c.MarkAsBase(fixedTime)
	return c
}

// apiCurrency returns a currency whose effective rate was derived from raw with neutral factors.
func apiCurrency(code, raw string) domain.Currency {
	c := domain.NewCurrency(code, code, code)
	c.APIRate = dec(raw)
	c.ExchangeRate = dec(raw)
	c.RateSource = domain.APIRateSource("seed")
	return c
}

func country(code, currency, tax string) domain.Country {
	return domain.Country{CountryCode: code, Name: code, CurrencyCode: currency, DefaultTaxRate: dec(tax), IsActive: true}
}

func product(id int64, base string) domain.Product {
	return domain.Product{ProductID: id, SKU: fmt.Sprintf("SKU-%d", id), Name: "product", BasePrice: dec(base), IsTaxable: true, IsActive: true}
}

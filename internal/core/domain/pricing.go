package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PriceSource names where a quote's subtotal came from.
type PriceSource string

const (
	PriceSourceRegionalOverride PriceSource = "regional_override"
	PriceSourceProductPrice     PriceSource = "product_price"
	PriceSourceComputed         PriceSource = "computed"
)

// PriceQuote is a resolved price for a product in a country. Amounts are rounded to 2 places.
type PriceQuote struct {
	ProductID         int64            `json:"productID"`
	CountryCode       string           `json:"countryCode"`
	CurrencyCode      string           `json:"currencyCode"`
	CurrencySymbol    string           `json:"currencySymbol"`
	// CurrencyPrecision is the display precision of the currency, e.g. 0 for JPY.
	CurrencyPrecision int              `json:"currencyPrecision"`
	Subtotal          decimal.Decimal  `json:"subtotal"`
	SalePrice         *decimal.Decimal `json:"salePrice,omitempty"`
	TaxRate           decimal.Decimal  `json:"taxRate"`
	TaxSource         TaxSource        `json:"taxSource"`
	TaxAmount         decimal.Decimal  `json:"taxAmount"`
	Total             decimal.Decimal  `json:"total"`
	Locked            bool             `json:"locked"`
	PriceSource       PriceSource      `json:"priceSource"`
}

// NewPriceQuote rounds subtotal and tax independently and sums the rounded parts,
// so that subtotal + tax == total always holds on the exposed values.
func NewPriceQuote(subtotal, taxRate decimal.Decimal, includeTax bool) PriceQuote {
	tax := TaxAmount(subtotal, taxRate, includeTax)
	roundedSubtotal := RoundMoney(subtotal)
	roundedTax := RoundMoney(tax)
	return PriceQuote{
		Subtotal:  roundedSubtotal,
		TaxRate:   taxRate,
		TaxAmount: roundedTax,
		Total:     roundedSubtotal.Add(roundedTax),
	}
}

// RecalculationScopeKind selects which slice of the product×currency space to recompute.
type RecalculationScopeKind string

const (
	ScopeAll      RecalculationScopeKind = "all"
	ScopeProduct  RecalculationScopeKind = "product"
	ScopeCurrency RecalculationScopeKind = "currency"
	ScopeCountry  RecalculationScopeKind = "country"
)

// RecalculationScope narrows a recalculation run.
type RecalculationScope struct {
	Kind         RecalculationScopeKind `json:"kind"`
	ProductID    int64                  `json:"productID,omitempty"`
	CurrencyCode string                 `json:"currencyCode,omitempty"`
	CountryCode  string                 `json:"countryCode,omitempty"`
}

// CurrencyTotals aggregates recalculation outcomes for one currency.
type CurrencyTotals struct {
	Recalculated  int `json:"recalculated"`
	Changed       int `json:"changed"`
	SkippedLocked int `json:"skippedLocked"`
	Failed        int `json:"failed"`
}

// RecalculationError reports one product×currency pair that could not be processed.
type RecalculationError struct {
	ProductID    int64  `json:"productID"`
	CurrencyCode string `json:"currencyCode"`
	Error        string `json:"error"`
}

// RecalculationSummary is the result of a recalculation run.
// Recalculated counts pairs processed without error, Changed the subset that wrote a new price.
// It is not safe for concurrent use.
type RecalculationSummary struct {
	Scope             RecalculationScope        `json:"scope"`
	Recalculated      int                       `json:"recalculated"`
	Changed           int                       `json:"changed"`
	SkippedLocked     int                       `json:"skippedLocked"`
	Failed            int                       `json:"failed"`
	PerCurrencyTotals map[string]CurrencyTotals `json:"perCurrencyTotals"`
	Errors            []RecalculationError      `json:"errors"`
	StartedAt         time.Time                 `json:"startedAt"`
	FinishedAt        time.Time                 `json:"finishedAt"`
}

// NewRecalculationSummary starts an empty summary for scope.
func NewRecalculationSummary(scope RecalculationScope, startedAt time.Time) *RecalculationSummary {
	return &RecalculationSummary{
		Scope:             scope,
		PerCurrencyTotals: map[string]CurrencyTotals{},
		Errors:            []RecalculationError{},
		StartedAt:         startedAt,
	}
}

// Record adds one pair's outcome.
func (s *RecalculationSummary) Record(currencyCode string, outcome PriceWriteOutcome) {
	t := s.PerCurrencyTotals[currencyCode]
	if outcome == PriceSkippedLocked {
		s.SkippedLocked++
		t.SkippedLocked++
	} else {
		s.Recalculated++
		t.Recalculated++
		if outcome.Changed() {
			s.Changed++
			t.Changed++
		}
	}
	s.PerCurrencyTotals[currencyCode] = t
}

// RecordError adds one failed pair.
func (s *RecalculationSummary) RecordError(productID int64, currencyCode string, err error) {
	s.Failed++
	t := s.PerCurrencyTotals[currencyCode]
	t.Failed++
	s.PerCurrencyTotals[currencyCode] = t
	s.Errors = append(s.Errors, RecalculationError{ProductID: productID, CurrencyCode: currencyCode, Error: err.Error()})
}

// Finish sorts the error list for a stable report and stamps the end time.
func (s *RecalculationSummary) Finish(now time.Time) {
	sort.Slice(s.Errors, func(i, j int) bool {
		if s.Errors[i].ProductID != s.Errors[j].ProductID {
			return s.Errors[i].ProductID < s.Errors[j].ProductID
		}
		return s.Errors[i].CurrencyCode < s.Errors[j].CurrencyCode
	})
	s.FinishedAt = now
}

// PriceImportRow is one externally supplied automatic price.
type PriceImportRow struct {
	ProductID    int64           `json:"productID"`
	CurrencyCode string          `json:"currencyCode"`
	CountryCode  string          `json:"countryCode,omitempty"`
	Price        decimal.Decimal `json:"price"`
}

// ImportError reports one row of a bulk import that failed.
type ImportError struct {
	Row          int    `json:"row"`
	ProductID    int64  `json:"productID"`
	CurrencyCode string `json:"currencyCode"`
	Error        string `json:"error"`
}

// ImportSummary is the result of a bulk price import.
type ImportSummary struct {
	Imported      int           `json:"imported"`
	Unchanged     int           `json:"unchanged"`
	SkippedLocked int           `json:"skippedLocked"`
	Failed        int           `json:"failed"`
	Errors        []ImportError `json:"errors"`
}

// RateApplyResult summarises applying a provider's rate table.
type RateApplyResult struct {
	Updated      int      `json:"updated"`
	Unchanged    int      `json:"unchanged"`
	ChangedCodes []string `json:"changedCodes"`
	Missing      []string `json:"missing"`
	Failed       []string `json:"failed"`
}

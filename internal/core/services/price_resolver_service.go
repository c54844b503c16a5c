package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pricing_admin_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pricing_admin_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

type priceResolverService struct {
	BaseService
	productRepo  portsrepo.ProductReader
	priceRepo    portsrepo.ProductPriceReader
	countryRepo  portsrepo.CountryReader
	currencyRepo portsrepo.CurrencyReader
	overrideRepo portsrepo.RegionalOverrideReader
	resolver     domain.TaxResolver
}

// NewPriceResolverService creates the read-only price quote service.
func NewPriceResolverService(
	productRepo portsrepo.ProductReader,
	priceRepo portsrepo.ProductPriceReader,
	countryRepo portsrepo.CountryReader,
	currencyRepo portsrepo.CurrencyReader,
	overrideRepo portsrepo.RegionalOverrideReader,
) portssvc.PriceResolverSvc {
	return &priceResolverService{
		productRepo:  productRepo,
		priceRepo:    priceRepo,
		countryRepo:  countryRepo,
		currencyRepo: currencyRepo,
		overrideRepo: overrideRepo,
		resolver:     domain.DefaultTaxResolver(),
	}
}

var _ portssvc.PriceResolverSvc = (*priceResolverService)(nil)

// ResolvePrice picks the subtotal from, in order, the override's base price,
// the stored price row and the converted base price. It performs no writes.
func (s *priceResolverService) ResolvePrice(ctx context.Context, productID int64, countryCode string, includeTax bool) (*domain.PriceQuote, error) {
	code := strings.ToUpper(countryCode)
	in, err := loadTaxInput(ctx, s.productRepo, s.countryRepo, s.overrideRepo, productID, code)
	if err != nil {
		return nil, err
	}
	if !in.Product.IsActive {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product %d is not active", productID))
	}
	if !in.Country.IsActive {
		return nil, apperrors.NewValidationError(fmt.Sprintf("country %s is not active", code))
	}

	override := in.Override
	currencyCode := in.Country.CurrencyCode
	if override != nil && override.CurrencyCode != "" {
		currencyCode = override.CurrencyCode
	}
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load currency %s: %w", currencyCode, err)
	}
	rate, err := storedRate(*currency)
	if err != nil {
		return nil, err
	}

	var (
		subtotal decimal.Decimal
		source   domain.PriceSource
		row      *domain.ProductPrice
	)
	switch {
	case override != nil && override.BasePriceOverride != nil:
		subtotal = *override.BasePriceOverride
		source = domain.PriceSourceRegionalOverride
	default:
		row, err = notFoundAsNil(s.priceRepo.FindActiveProductPrice(ctx, productID, currencyCode))
		if err != nil {
			return nil, fmt.Errorf("failed to load stored price: %w", err)
		}
		if row != nil {
			subtotal = row.Price
			source = domain.PriceSourceProductPrice
		} else {
			subtotal = domain.ConvertFromBase(in.Product.BasePrice, rate)
			source = domain.PriceSourceComputed
		}
	}

	adjust := override != nil && override.BasePriceOverride == nil && !override.AdjustmentPercentage.IsZero()
	if adjust {
		subtotal = domain.ApplyPercentage(subtotal, override.AdjustmentPercentage)
	}

	var sale *decimal.Decimal
	switch {
	case override != nil && override.SalePriceOverride != nil:
		v := domain.RoundMoney(*override.SalePriceOverride)
		sale = &v
	case in.Product.SalePrice != nil:
		v := domain.ConvertFromBase(*in.Product.SalePrice, rate)
		if adjust {
			v = domain.ApplyPercentage(v, override.AdjustmentPercentage)
		}
		v = domain.RoundMoney(v)
		sale = &v
	}

	tax := s.resolver.Resolve(in)
	quote := domain.NewPriceQuote(subtotal, tax.Rate, includeTax)
	quote.ProductID = productID
	quote.CountryCode = code
	quote.CurrencyCode = currencyCode
	quote.CurrencySymbol = currency.Symbol
	quote.CurrencyPrecision = currency.Precision
	quote.SalePrice = sale
	quote.TaxSource = tax.Source
	quote.PriceSource = source
	quote.Locked = domain.IsLocked(row) || domain.IsLocked(override)
	return &quote, nil
}

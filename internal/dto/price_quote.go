package dto

import (
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	"github.com/SscSPs/pricing_admin_backend/internal/utils"
)

// PriceQuoteResponse is a resolved price plus display strings for storefronts.
type PriceQuoteResponse struct {
	domain.PriceQuote
	FormattedSubtotal string `json:"formattedSubtotal"`
	FormattedTotal    string `json:"formattedTotal"`
}

// ToPriceQuoteResponse converts a domain.PriceQuote to its DTO, formatting amounts
// with the quoted currency's display precision.
func ToPriceQuoteResponse(q *domain.PriceQuote) PriceQuoteResponse {
	return PriceQuoteResponse{
		PriceQuote:        *q,
		FormattedSubtotal: utils.FormatMoney(q.Subtotal, q.CurrencySymbol, q.CurrencyPrecision),
		FormattedTotal:    utils.FormatMoney(q.Total, q.CurrencySymbol, q.CurrencyPrecision),
	}
}

package trading

import (
	"context"

	"github.com/piquette/finance-go/quote"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// FallbackPriceSource resolves a price from a primary source and falls
// back to a Yahoo Finance quote when the primary has no bar for the
// symbol. It still returns zero when neither side has a price.
type FallbackPriceSource struct {
	primary PriceSource
	logger  zerolog.Logger
}

func NewFallbackPriceSource(primary PriceSource) *FallbackPriceSource {
	return &FallbackPriceSource{
		primary: primary,
		logger:  log.With().Str("component", "price_source").Logger(),
	}
}

func (s *FallbackPriceSource) LastClose(ctx context.Context, symbol string) (decimal.Decimal, error) {
	price, err := s.primary.LastClose(ctx, symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Primary price lookup failed")
	} else if !price.IsZero() {
		return price, nil
	}

	q, err := quote.Get(symbol)
	if err != nil || q == nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("No fallback quote")
		return decimal.Zero, nil
	}
	return decimal.NewFromFloat(q.RegularMarketPrice), nil
}

package trading

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/mboyd/capitoltrader/internal/alpaca"
	"github.com/mboyd/capitoltrader/internal/models"
)

var (
	one   = decimal.NewFromInt(1)
	two   = decimal.NewFromInt(2)
	three = decimal.NewFromInt(3)
)

// sizingPrecision is the number of decimal digits carried through the
// proportional-sizing division. Each buy target is computed with a
// single division so rounding never compounds across intents.
const sizingPrecision = 32

// Synthesizer sizes and submits orders for one batch of trade intents.
// Intents are processed strictly in input order, one at a time, so the
// account state each step reads is consistent with the previous step's
// submissions.
type Synthesizer struct {
	broker Broker
	prices PriceSource

	// DryRun resolves and logs orders without submitting them.
	DryRun bool

	logger zerolog.Logger
}

func NewSynthesizer(broker Broker, prices PriceSource) *Synthesizer {
	return &Synthesizer{
		broker: broker,
		prices: prices,
		logger: log.With().Str("component", "order_synthesis").Logger(),
	}
}

// Run executes one synthesis pass. Only account-level failures are
// returned as errors; per-intent and per-order failures are logged,
// counted and skipped.
func (s *Synthesizer) Run(ctx context.Context, intents []models.TradeIntent) (*models.RunSummary, error) {
	account, err := s.broker.GetAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving account: %w", err)
	}

	// Commit a third of the cash per run so repeated daily passes keep
	// capital in reserve.
	available := account.Cash.DivRound(three, sizingPrecision)

	buyTotal := decimal.Zero
	for _, intent := range intents {
		if intent.Action == models.ActionBuy {
			buyTotal = buyTotal.Add(decimal.NewFromInt(intent.Notional))
		}
	}

	summary := &models.RunSummary{Available: available}
	if buyTotal.IsZero() {
		s.logger.Info().Msg("No orders to place")
		return summary, nil
	}

	for _, intent := range intents {
		switch intent.Action {
		case models.ActionBuy:
			s.resolveBuy(ctx, intent, available, buyTotal, summary)
		case models.ActionSellFull:
			s.resolveSell(ctx, intent, false, summary)
		case models.ActionSellPartial:
			s.resolveSell(ctx, intent, true, summary)
		default:
			s.logger.Warn().Str("ticker", intent.Ticker).Msg("Unrecognised action, skipping intent")
			summary.SkippedUnknown++
		}
	}

	s.logger.Info().
		Int("placed", summary.Placed).
		Int("rejected", summary.Rejected).
		Int("skipped", summary.Skipped()).
		Str("available", available.StringFixed(2)).
		Msg("Order batch finished")
	return summary, nil
}

func (s *Synthesizer) resolveBuy(ctx context.Context, intent models.TradeIntent, available, buyTotal decimal.Decimal, summary *models.RunSummary) {
	// target = notional * available / buyTotal, one division, exact
	// numerator.
	target := decimal.NewFromInt(intent.Notional).Mul(available).DivRound(buyTotal, sizingPrecision)

	price, err := s.prices.LastClose(ctx, intent.Ticker)
	if err != nil {
		s.logger.Warn().Err(err).Str("ticker", intent.Ticker).Msg("Price lookup failed, skipping buy")
		summary.SkippedNoPrice++
		return
	}
	if price.IsZero() {
		s.logger.Warn().Str("ticker", intent.Ticker).Msg("No price available, skipping buy")
		summary.SkippedNoPrice++
		return
	}

	quantity := target.Div(price).Floor()
	if quantity.LessThan(one) {
		// A signaled buy is never dropped to rounding; place at least
		// one share.
		quantity = one
	}
	s.submit(ctx, intent.Ticker, alpaca.Buy, quantity, summary)
}

func (s *Synthesizer) resolveSell(ctx context.Context, intent models.TradeIntent, partial bool, summary *models.RunSummary) {
	held, err := s.heldQuantity(ctx, intent.Ticker)
	if err != nil {
		s.logger.Warn().Err(err).Str("ticker", intent.Ticker).Msg("Position lookup failed, skipping sell")
		summary.SkippedNotHeld++
		return
	}
	if held.IsZero() {
		s.logger.Warn().Str("ticker", intent.Ticker).Msg("Nothing held, skipping sell")
		summary.SkippedNotHeld++
		return
	}

	quantity := held
	if partial {
		quantity = held.Div(two).Floor()
		if quantity.IsZero() {
			s.logger.Warn().Str("ticker", intent.Ticker).Msg("Partial sell rounds to zero, suppressed")
			summary.SkippedZeroQty++
			return
		}
	}
	s.submit(ctx, intent.Ticker, alpaca.Sell, quantity, summary)
}

func (s *Synthesizer) heldQuantity(ctx context.Context, symbol string) (decimal.Decimal, error) {
	positions, err := s.broker.GetPositions(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	for _, position := range positions {
		if position.Symbol == symbol {
			return position.Qty, nil
		}
	}
	return decimal.Zero, nil
}

func (s *Synthesizer) submit(ctx context.Context, symbol string, side alpaca.Side, qty decimal.Decimal, summary *models.RunSummary) {
	if s.DryRun {
		s.logger.Info().
			Str("symbol", symbol).
			Str("side", string(side)).
			Str("qty", qty.String()).
			Msg("Dry run, order not submitted")
		summary.Placed++
		return
	}

	order, err := s.broker.PlaceMarketOrder(ctx, symbol, side, qty)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("symbol", symbol).
			Str("side", string(side)).
			Str("qty", qty.String()).
			Msg("Order rejected")
		summary.Rejected++
		return
	}

	s.logger.Info().
		Str("symbol", symbol).
		Str("side", string(side)).
		Str("qty", qty.String()).
		Str("order_id", order.ID).
		Str("status", order.Status).
		Msg("Order placed")
	summary.Placed++
}

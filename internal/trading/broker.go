// Package trading turns normalized trade intents into proportionally
// sized market orders against the brokerage account.
package trading

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mboyd/capitoltrader/internal/alpaca"
)

// Broker abstracts the brokerage operations order synthesis consumes.
// The alpaca client satisfies it; tests inject fakes.
type Broker interface {
	// GetAccount returns a snapshot of the account's cash and value.
	GetAccount(ctx context.Context) (*alpaca.Account, error)

	// GetPositions returns all current positions held at the brokerage.
	GetPositions(ctx context.Context) ([]alpaca.Position, error)

	// PlaceMarketOrder submits a market order for qty shares.
	PlaceMarketOrder(ctx context.Context, symbol string, side alpaca.Side, qty decimal.Decimal) (*alpaca.Order, error)
}

// PriceSource resolves a ticker to its most recent daily close. A zero
// price means "unavailable", never a tradable price.
type PriceSource interface {
	LastClose(ctx context.Context, symbol string) (decimal.Decimal, error)
}

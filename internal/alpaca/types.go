package alpaca

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side of an order.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Account is a snapshot of the trading account. Alpaca encodes the
// money fields as JSON strings.
type Account struct {
	ID             string          `json:"id"`
	AccountNumber  string          `json:"account_number"`
	Status         string          `json:"status"`
	Currency       string          `json:"currency"`
	Cash           decimal.Decimal `json:"cash"`
	PortfolioValue decimal.Decimal `json:"portfolio_value"`
	BuyingPower    decimal.Decimal `json:"buying_power"`
}

// Position is a holding in the account, read-only to this program.
type Position struct {
	Symbol         string          `json:"symbol"`
	Qty            decimal.Decimal `json:"qty"`
	MarketValue    decimal.Decimal `json:"market_value"`
	CurrentPrice   decimal.Decimal `json:"current_price"`
	UnrealizedPL   decimal.Decimal `json:"unrealized_pl"`
	UnrealizedPLPC decimal.Decimal `json:"unrealized_plpc"`
}

// Order is the brokerage's view of a submitted order.
type Order struct {
	ID            string          `json:"id"`
	ClientOrderID string          `json:"client_order_id"`
	Status        string          `json:"status"`
	Symbol        string          `json:"symbol"`
	Qty           decimal.Decimal `json:"qty"`
	FilledQty     decimal.Decimal `json:"filled_qty"`
	Side          Side            `json:"side"`
	Type          string          `json:"type"`
	TimeInForce   string          `json:"time_in_force"`
}

type orderRequest struct {
	Symbol      string `json:"symbol"`
	Qty         string `json:"qty"`
	Side        Side   `json:"side"`
	Type        string `json:"type"`
	TimeInForce string `json:"time_in_force"`
}

// Bar is a single OHLCV bar from the data API.
type Bar struct {
	Timestamp time.Time       `json:"t"`
	Open      decimal.Decimal `json:"o"`
	High      decimal.Decimal `json:"h"`
	Low       decimal.Decimal `json:"l"`
	Close     decimal.Decimal `json:"c"`
	Volume    int64           `json:"v"`
}

type barsResponse struct {
	Symbol        string  `json:"symbol"`
	Bars          []Bar   `json:"bars"`
	NextPageToken *string `json:"next_page_token"`
}

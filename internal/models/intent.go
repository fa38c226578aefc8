// Package models holds the domain types shared between disclosure
// ingestion and order synthesis.
package models

// TradeAction is the normalized kind of a disclosed transaction.
type TradeAction int

const (
	ActionUnknown TradeAction = iota
	ActionBuy
	ActionSellFull
	ActionSellPartial
)

// ParseTradeAction maps the chamber-specific free-text labels onto a
// TradeAction. The house feed uses title-case labels, the senate feed
// snake_case ones. Anything else is ActionUnknown.
func ParseTradeAction(label string) TradeAction {
	switch label {
	case "Purchase", "purchase":
		return ActionBuy
	case "Sale (Full)", "sale_full":
		return ActionSellFull
	case "Sale (Partial)", "sale_partial":
		return ActionSellPartial
	default:
		return ActionUnknown
	}
}

func (a TradeAction) String() string {
	switch a {
	case ActionBuy:
		return "buy"
	case ActionSellFull:
		return "sell_full"
	case ActionSellPartial:
		return "sell_partial"
	default:
		return "unknown"
	}
}

// TradeIntent is the normalized unit produced by disclosure ingestion.
// Ticker is always non-empty and uppercase; Notional is the midpoint of
// the filed dollar range and is approximate by nature.
type TradeIntent struct {
	Action   TradeAction
	Ticker   string
	Notional int64
}

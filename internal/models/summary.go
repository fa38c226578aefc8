package models

import "github.com/shopspring/decimal"

// RunSummary reports what a single order-synthesis pass did. A run with
// no buy intents yields a zero summary, which is a valid outcome and
// not an error.
type RunSummary struct {
	// Available is the capital budget used for buy sizing.
	Available decimal.Decimal

	Placed   int
	Rejected int

	SkippedUnknown int
	SkippedNoPrice int
	SkippedNotHeld int
	SkippedZeroQty int
}

// Skipped is the total number of intents that produced no order.
func (s RunSummary) Skipped() int {
	return s.SkippedUnknown + s.SkippedNoPrice + s.SkippedNotHeld + s.SkippedZeroQty
}

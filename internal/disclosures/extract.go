package disclosures

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// The senate feed embeds the ticker in a markup fragment, e.g.
	// <a href="...">AAPL</a>. The symbol is the uppercase token
	// between > and <.
	tickerRe = regexp.MustCompile(`>([A-Z]+)<`)

	// Disclosed amounts are textual ranges like "$250,001 - $500,000".
	amountRe = regexp.MustCompile(`\$([\d,]+) - \$([\d,]+)`)
)

// ExtractTicker pulls a ticker symbol out of a markup fragment. It
// returns false when the input carries no angle-bracketed uppercase
// token.
func ExtractTicker(input string) (string, bool) {
	m := tickerRe.FindStringSubmatch(input)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractAmount parses a disclosed dollar range and returns the floor
// of its midpoint. It returns false when the input is not a range.
func ExtractAmount(input string) (int64, bool) {
	m := amountRe.FindStringSubmatch(input)
	if m == nil {
		return 0, false
	}
	min, err := strconv.ParseInt(strings.ReplaceAll(m[1], ",", ""), 10, 64)
	if err != nil {
		return 0, false
	}
	max, err := strconv.ParseInt(strings.ReplaceAll(m[2], ",", ""), 10, 64)
	if err != nil {
		return 0, false
	}
	return (min + max) / 2, true
}

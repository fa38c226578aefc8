// Package display renders account and position views for the terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/mboyd/capitoltrader/internal/alpaca"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	gainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	totalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F59E0B"))
)

const rule = "========================================================================="

// RenderAccount formats the account summary.
func RenderAccount(account *alpaca.Account) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Account " + account.AccountNumber))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Status:          %s\n", account.Status)
	fmt.Fprintf(&b, "Currency:        %s\n", account.Currency)
	fmt.Fprintf(&b, "Cash:            %s\n", account.Cash.StringFixed(2))
	fmt.Fprintf(&b, "Portfolio value: %s\n", account.PortfolioValue.StringFixed(2))
	fmt.Fprintf(&b, "Buying power:    %s\n", account.BuyingPower.StringFixed(2))
	return b.String()
}

// RenderPositions formats the positions table with a total balance
// footer covering positions plus cash.
func RenderPositions(positions []alpaca.Position, cash decimal.Decimal) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf(
		"%10s | %12s | %13s | %13s | %12s",
		"Name", "Amount", "Relative gain", "Absolute gain", "Market value")))
	b.WriteString("\n" + rule + "\n")

	total := cash
	for _, position := range positions {
		total = total.Add(position.MarketValue)
		relative := position.UnrealizedPLPC.Mul(decimal.NewFromInt(100))
		row := fmt.Sprintf(
			"%10s | %12s | %12s%% | %12s$ | %11s$",
			position.Symbol,
			position.Qty.String(),
			relative.StringFixed(2),
			position.UnrealizedPL.StringFixed(2),
			position.MarketValue.StringFixed(2))
		if position.UnrealizedPL.IsNegative() {
			row = lossStyle.Render(row)
		} else {
			row = gainStyle.Render(row)
		}
		b.WriteString(row + "\n")
	}

	b.WriteString(rule + "\n")
	b.WriteString(totalStyle.Render(fmt.Sprintf("Your total balance is: %s", total.StringFixed(2))))
	b.WriteString("\n")
	return b.String()
}

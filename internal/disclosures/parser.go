package disclosures

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mboyd/capitoltrader/internal/models"
)

// The two chambers publish the same report structure under different
// field names; both parsers funnel into models.TradeIntent.

type houseReport struct {
	Transactions []houseTransaction `json:"transactions"`
}

type houseTransaction struct {
	Description     string `json:"description"`
	Ticker          string `json:"ticker"`
	Amount          string `json:"amount"`
	TransactionType string `json:"transaction_type"`
}

type senateReport struct {
	Transactions []senateTransaction `json:"transactions"`
}

type senateTransaction struct {
	AssetType string `json:"asset_type"`
	Ticker    string `json:"ticker"`
	Amount    string `json:"amount"`
	Type      string `json:"type"`
}

// placeholderTicker marks disclosures filed without a symbol.
const placeholderTicker = "--"

func parseHouseReport(body []byte, logger zerolog.Logger) ([]models.TradeIntent, error) {
	var report []houseReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("decoding house report: %w", err)
	}

	var intents []models.TradeIntent
	for _, line := range report {
		for _, tx := range line.Transactions {
			if strings.Contains(tx.Description, "Bond") ||
				strings.Contains(tx.Description, "Option") ||
				strings.Contains(tx.Description, "Note") ||
				tx.Ticker == placeholderTicker {
				continue
			}
			if tx.Ticker == "" || tx.TransactionType == "" {
				logger.Warn().
					Str("ticker", tx.Ticker).
					Str("description", tx.Description).
					Msg("Skipping house record with missing field")
				continue
			}
			amount, ok := ExtractAmount(tx.Amount)
			if !ok {
				logger.Warn().
					Str("ticker", tx.Ticker).
					Str("amount", tx.Amount).
					Msg("Skipping house record with unparsable amount")
				continue
			}
			intents = append(intents, models.TradeIntent{
				Action:   models.ParseTradeAction(tx.TransactionType),
				Ticker:   tx.Ticker,
				Notional: amount,
			})
		}
	}
	return intents, nil
}

func parseSenateReport(body []byte, logger zerolog.Logger) ([]models.TradeIntent, error) {
	var report []senateReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("decoding senate report: %w", err)
	}

	var intents []models.TradeIntent
	for _, line := range report {
		for _, tx := range line.Transactions {
			if tx.AssetType != "Stock" || tx.Ticker == placeholderTicker {
				continue
			}
			ticker, ok := ExtractTicker(tx.Ticker)
			if !ok {
				logger.Warn().
					Str("ticker", tx.Ticker).
					Msg("Skipping senate record with unextractable ticker")
				continue
			}
			if tx.Type == "" {
				logger.Warn().
					Str("ticker", ticker).
					Msg("Skipping senate record with missing type")
				continue
			}
			amount, ok := ExtractAmount(tx.Amount)
			if !ok {
				logger.Warn().
					Str("ticker", ticker).
					Str("amount", tx.Amount).
					Msg("Skipping senate record with unparsable amount")
				continue
			}
			intents = append(intents, models.TradeIntent{
				Action:   models.ParseTradeAction(tx.Type),
				Ticker:   ticker,
				Notional: amount,
			})
		}
	}
	return intents, nil
}

package disclosures

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mboyd/capitoltrader/internal/models"
)

// The effective report date is four days before the clock.
var fixedNow = func() time.Time {
	return time.Date(2022, time.November, 25, 12, 0, 0, 0, time.UTC)
}

const houseReportJSON = `[
  {"transactions": [
    {"description": "Apple Inc Common Stock", "ticker": "AAPL", "amount": "$1,001 - $15,000", "transaction_type": "purchase"},
    {"description": "Corporate Bond 2029", "ticker": "XYZ", "amount": "$1,001 - $15,000", "transaction_type": "purchase"},
    {"description": "Call Option", "ticker": "TSLA", "amount": "$1,001 - $15,000", "transaction_type": "purchase"},
    {"description": "Common Stock", "ticker": "--", "amount": "$1,001 - $15,000", "transaction_type": "purchase"},
    {"description": "Common Stock", "ticker": "MSFT", "amount": "undisclosed", "transaction_type": "sale_partial"},
    {"description": "Common Stock", "ticker": "INTC", "amount": "$1,001 - $15,000", "transaction_type": ""},
    {"description": "Common Stock", "ticker": "NVDA", "amount": "$15,001 - $50,000", "transaction_type": "Sale (Full)"}
  ]}
]`

const senateReportJSON = `[
  {"transactions": [
    {"asset_type": "Stock", "ticker": "<a href=\"https://example.com/q?s=NVDA\">NVDA</a>", "amount": "$250,001 - $500,000", "type": "purchase"},
    {"asset_type": "Municipal Security", "ticker": "<a>IBM</a>", "amount": "$1,001 - $15,000", "type": "purchase"},
    {"asset_type": "Stock", "ticker": "--", "amount": "$1,001 - $15,000", "type": "purchase"},
    {"asset_type": "Stock", "ticker": "no markup here", "amount": "$1,001 - $15,000", "type": "sale_full"},
    {"asset_type": "Stock", "ticker": "<a>GE</a>", "amount": "$50,001 - $100,000", "type": "sale_partial"}
  ]}
]`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientOptions{BaseURL: server.URL, Now: fixedNow})
}

func TestFetchIntentsHouse(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := "/data/transaction_report_for_11_21_2022.json"
		if r.URL.Path != want {
			t.Errorf("request path = %s, want %s", r.URL.Path, want)
		}
		w.Write([]byte(houseReportJSON))
	}))

	intents, err := client.FetchIntents(context.Background(), ChamberHouse)
	if err != nil {
		t.Fatalf("FetchIntents: %v", err)
	}

	// Bond, Option, placeholder-ticker and malformed-amount records are
	// all excluded; the malformed MSFT record must not abort the batch.
	want := []models.TradeIntent{
		{Action: models.ActionBuy, Ticker: "AAPL", Notional: 8000},
		{Action: models.ActionSellFull, Ticker: "NVDA", Notional: 32500},
	}
	assertIntents(t, intents, want)
}

func TestFetchIntentsSenate(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(senateReportJSON))
	}))

	intents, err := client.FetchIntents(context.Background(), ChamberSenate)
	if err != nil {
		t.Fatalf("FetchIntents: %v", err)
	}

	want := []models.TradeIntent{
		{Action: models.ActionBuy, Ticker: "NVDA", Notional: 375000},
		{Action: models.ActionSellPartial, Ticker: "GE", Notional: 75000},
	}
	assertIntents(t, intents, want)
}

func TestFetchIntentsPreservesFeedOrder(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
  {"transactions": [
    {"description": "s", "ticker": "CCC", "amount": "$1,001 - $15,000", "transaction_type": "purchase"},
    {"description": "s", "ticker": "AAA", "amount": "$1,001 - $15,000", "transaction_type": "purchase"},
    {"description": "s", "ticker": "BBB", "amount": "$1,001 - $15,000", "transaction_type": "purchase"}
  ]}
]`))
	}))

	intents, err := client.FetchIntents(context.Background(), ChamberHouse)
	if err != nil {
		t.Fatalf("FetchIntents: %v", err)
	}
	order := []string{"CCC", "AAA", "BBB"}
	for i, ticker := range order {
		if intents[i].Ticker != ticker {
			t.Fatalf("intent %d ticker = %s, want %s", i, intents[i].Ticker, ticker)
		}
	}
}

func TestFetchIntentsNoReport(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := client.FetchIntents(context.Background(), ChamberHouse)
	if !errors.Is(err, ErrNoReport) {
		t.Fatalf("expected ErrNoReport, got %v", err)
	}
}

func TestFetchIntentsInvalidChamber(t *testing.T) {
	requested := false
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
	}))

	_, err := client.FetchIntents(context.Background(), Chamber("congress"))
	if !errors.Is(err, ErrInvalidChamber) {
		t.Fatalf("expected ErrInvalidChamber, got %v", err)
	}
	if requested {
		t.Fatal("configuration error must be surfaced before any I/O")
	}
}

func TestParseChamber(t *testing.T) {
	if _, err := ParseChamber("house"); err != nil {
		t.Fatalf("ParseChamber(house): %v", err)
	}
	if _, err := ParseChamber("senate"); err != nil {
		t.Fatalf("ParseChamber(senate): %v", err)
	}
	if _, err := ParseChamber("parliament"); !errors.Is(err, ErrInvalidChamber) {
		t.Fatalf("expected ErrInvalidChamber, got %v", err)
	}
}

func assertIntents(t *testing.T, got, want []models.TradeIntent) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d intents %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("intent %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

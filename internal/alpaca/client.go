// Package alpaca is a thin typed client for the Alpaca trading and
// market-data REST APIs: account, positions, daily bars and market
// orders. It is the only place the process talks to the brokerage.
package alpaca

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// APIError is a non-2xx response from Alpaca.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("alpaca: status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the Alpaca trading and data APIs.
type Client struct {
	trading      *resty.Client
	data         *resty.Client
	limiter      *rate.Limiter
	maxRetryTime time.Duration
	now          func() time.Time
	logger       zerolog.Logger
}

// ClientOptions holds options for creating a new Alpaca client.
type ClientOptions struct {
	KeyID  string
	Secret string
	// BaseURL is the trading API host; defaults to the paper endpoint.
	BaseURL string
	// DataURL is the market-data API host.
	DataURL         string
	Timeout         time.Duration
	RequestsPerSec  int
	MaxRetryTimeout time.Duration
	// Now overrides the clock used for bar windows.
	Now func() time.Time
}

// NewClient creates a new Alpaca client.
func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://paper-api.alpaca.markets"
	}
	if opts.DataURL == "" {
		opts.DataURL = "https://data.alpaca.markets"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 5
	}
	if opts.MaxRetryTimeout == 0 {
		opts.MaxRetryTimeout = 30 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	newREST := func(baseURL string) *resty.Client {
		client := resty.New()
		client.SetBaseURL(baseURL)
		client.SetTimeout(opts.Timeout)
		client.SetHeader("APCA-API-KEY-ID", opts.KeyID)
		client.SetHeader("APCA-API-SECRET-KEY", opts.Secret)
		return client
	}

	return &Client{
		trading:      newREST(opts.BaseURL),
		data:         newREST(opts.DataURL),
		limiter:      rate.NewLimiter(rate.Every(time.Second), opts.RequestsPerSec),
		maxRetryTime: opts.MaxRetryTimeout,
		now:          opts.Now,
		logger:       log.With().Str("component", "alpaca_client").Logger(),
	}
}

// GetAccount returns the account snapshot, including the cash balance
// that bounds order synthesis.
func (c *Client) GetAccount(ctx context.Context) (*Account, error) {
	var account Account
	if err := c.do(ctx, c.trading, http.MethodGet, "/v2/account", nil, nil, &account); err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}
	return &account, nil
}

// GetPositions returns all currently held positions.
func (c *Client) GetPositions(ctx context.Context) ([]Position, error) {
	var positions []Position
	if err := c.do(ctx, c.trading, http.MethodGet, "/v2/positions", nil, nil, &positions); err != nil {
		return nil, fmt.Errorf("getting positions: %w", err)
	}
	return positions, nil
}

// PlaceMarketOrder submits a day market order for qty shares.
func (c *Client) PlaceMarketOrder(ctx context.Context, symbol string, side Side, qty decimal.Decimal) (*Order, error) {
	body := orderRequest{
		Symbol:      symbol,
		Qty:         qty.String(),
		Side:        side,
		Type:        "market",
		TimeInForce: "day",
	}
	var order Order
	if err := c.do(ctx, c.trading, http.MethodPost, "/v2/orders", body, nil, &order); err != nil {
		return nil, fmt.Errorf("placing %s order for %s: %w", side, symbol, err)
	}
	return &order, nil
}

// LastClose returns the most recent daily closing price for symbol. The
// one-bar window ends 15 minutes ago so a still-forming bar is never
// requested. A zero result means no price is available.
func (c *Client) LastClose(ctx context.Context, symbol string) (decimal.Decimal, error) {
	end := c.now().Add(-15 * time.Minute).UTC()
	start := end.Add(-24 * time.Hour)

	query := map[string]string{
		"timeframe": "1Day",
		"start":     start.Format(time.RFC3339),
		"end":       end.Format(time.RFC3339),
		"limit":     "1",
	}

	var bars barsResponse
	path := fmt.Sprintf("/v2/stocks/%s/bars", symbol)
	if err := c.do(ctx, c.data, http.MethodGet, path, nil, query, &bars); err != nil {
		return decimal.Zero, fmt.Errorf("getting bars for %s: %w", symbol, err)
	}
	if len(bars.Bars) == 0 {
		c.logger.Warn().Str("symbol", symbol).Msg("No value found")
		return decimal.Zero, nil
	}
	return bars.Bars[len(bars.Bars)-1].Close, nil
}

// do performs a request with rate limiting and exponential-backoff
// retries. Server-side errors are retried, everything in the 4xx range
// is permanent.
func (c *Client) do(ctx context.Context, rc *resty.Client, method, path string, body any, query map[string]string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	operation := func() error {
		req := rc.R().SetContext(ctx)
		if body != nil {
			req.SetBody(body)
		}
		if query != nil {
			req.SetQueryParams(query)
		}
		resp, err := req.Execute(method, path)
		if err != nil {
			return err
		}
		if resp.IsError() {
			apiErr := &APIError{StatusCode: resp.StatusCode(), Message: errorMessage(resp.Body())}
			if resp.StatusCode() < http.StatusInternalServerError {
				return backoff.Permanent(apiErr)
			}
			return apiErr
		}
		if out != nil {
			if err := json.Unmarshal(resp.Body(), out); err != nil {
				return backoff.Permanent(fmt.Errorf("decoding response: %w", err))
			}
		}
		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.MaxElapsedTime = c.maxRetryTime

	return backoff.Retry(operation, backoff.WithContext(strategy, ctx))
}

func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return string(body)
}

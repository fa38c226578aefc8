// Package disclosures fetches daily congressional stock-transaction
// reports and normalizes them into trade intents.
package disclosures

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mboyd/capitoltrader/internal/models"
)

// Chamber selects which legislative body's disclosures to ingest.
type Chamber string

const (
	ChamberHouse  Chamber = "house"
	ChamberSenate Chamber = "senate"
)

var (
	// ErrInvalidChamber is a configuration error and is never retried.
	ErrInvalidChamber = errors.New("invalid chamber")

	// ErrNoReport means the feed had no report for the requested date.
	ErrNoReport = errors.New("no disclosure report available")
)

// ParseChamber validates a chamber selector.
func ParseChamber(s string) (Chamber, error) {
	switch Chamber(s) {
	case ChamberHouse, ChamberSenate:
		return Chamber(s), nil
	default:
		return "", fmt.Errorf("%w: %q (want house or senate)", ErrInvalidChamber, s)
	}
}

// Disclosures take a few days to be transcribed into the feed, so each
// run requests the report filed four days ago.
const reportLatency = 4 * 24 * time.Hour

const defaultBaseURL = "http://%s-stock-watcher-data.s3-us-west-2.amazonaws.com"

// Client fetches dated transaction reports from the stock-watcher feed.
type Client struct {
	client  *resty.Client
	baseURL string
	now     func() time.Time
	logger  zerolog.Logger
}

// ClientOptions holds options for creating a new feed client.
type ClientOptions struct {
	// BaseURL overrides the feed host. A %s placeholder, if present,
	// is substituted with the chamber name.
	BaseURL string
	Timeout time.Duration
	// Now overrides the clock used to derive the report date.
	Now func() time.Time
}

// NewClient creates a new disclosure feed client.
func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)

	return &Client{
		client:  client,
		baseURL: opts.BaseURL,
		now:     opts.Now,
		logger:  log.With().Str("component", "disclosure_feed").Logger(),
	}
}

// FetchIntents downloads the report for the chamber's effective date and
// parses it into trade intents, preserving feed order. A missing report
// is fatal for the run; malformed records are skipped and logged.
func (c *Client) FetchIntents(ctx context.Context, chamber Chamber) ([]models.TradeIntent, error) {
	if _, err := ParseChamber(string(chamber)); err != nil {
		return nil, err
	}

	date := c.now().Add(-reportLatency).Format("01_02_2006")
	url := c.reportURL(chamber, date)

	c.logger.Debug().Str("url", url).Msg("Fetching disclosure report")

	resp, err := c.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching disclosure report: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("%w: status %d for %s", ErrNoReport, resp.StatusCode(), date)
	}

	var intents []models.TradeIntent
	switch chamber {
	case ChamberHouse:
		intents, err = parseHouseReport(resp.Body(), c.logger)
	case ChamberSenate:
		intents, err = parseSenateReport(resp.Body(), c.logger)
	}
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("chamber", string(chamber)).
		Str("date", date).
		Int("intents", len(intents)).
		Msg("Parsed disclosure report")
	return intents, nil
}

func (c *Client) reportURL(chamber Chamber, date string) string {
	host := c.baseURL
	if strings.Contains(host, "%s") {
		host = fmt.Sprintf(host, chamber)
	}
	return fmt.Sprintf("%s/data/transaction_report_for_%s.json", host, date)
}

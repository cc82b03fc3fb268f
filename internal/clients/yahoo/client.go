// Package yahoo implements the market data gateway on top of the Yahoo
// Finance public endpoints: underlying prices, option expirations, option
// chains and the short-term treasury yield used as the risk-free rate.
package yahoo

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/optionscout/internal/domain"
	"github.com/aristath/optionscout/internal/modules/market_hours"
)

const (
	defaultChartBaseURL   = "https://query1.finance.yahoo.com/v8/finance/chart"
	defaultOptionsBaseURL = "https://query1.finance.yahoo.com/v7/finance/options"

	// Symbol of the 13-week US treasury bill index, quoted as a percentage
	riskFreeRateSymbol = "^IRX"
)

// Client is a Yahoo Finance API client
type Client struct {
	client         *http.Client
	marketHours    *market_hours.Service
	fallbackRate   float64
	log            zerolog.Logger
	now            func() time.Time
	chartBaseURL   string
	optionsBaseURL string
}

// NewClient creates a new Yahoo Finance client. fallbackRate is returned by
// RiskFreeRate whenever the treasury yield cannot be fetched.
func NewClient(log zerolog.Logger, marketHours *market_hours.Service, fallbackRate float64) *Client {
	return &Client{
		client: &http.Client{
			// Bounds every gateway call so a stalled upstream cannot
			// hang a screening request indefinitely.
			Timeout: 30 * time.Second,
		},
		marketHours:    marketHours,
		fallbackRate:   fallbackRate,
		log:            log.With().Str("client", "yahoo").Logger(),
		now:            time.Now,
		chartBaseURL:   defaultChartBaseURL,
		optionsBaseURL: defaultOptionsBaseURL,
	}
}

// LiveOrClosePrice returns the current underlying price. During the NYSE
// regular session it tries the most recent intraday bar first; outside the
// session, or when the intraday feed has nothing usable, it falls back to
// the latest daily close.
func (c *Client) LiveOrClosePrice(symbol string) (float64, domain.PriceSource, error) {
	if c.marketHours.IsNYSEOpen(c.now()) {
		if price, err := c.lastClose(symbol, "1m", "1d"); err == nil {
			return price, domain.PriceSourceLive, nil
		} else {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("Live price unavailable, falling back to close")
		}
	}

	price, err := c.lastClose(symbol, "1d", "5d")
	if err != nil {
		return 0, "", fmt.Errorf("failed to get close price for %s: %w", symbol, err)
	}
	return price, domain.PriceSourceClose, nil
}

// Expirations returns the available option expiration dates for a symbol,
// formatted as YYYY-MM-DD and ordered as the provider lists them.
func (c *Client) Expirations(symbol string) ([]string, error) {
	meta, err := c.getOptionsPayload(symbol, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get expirations: %w", err)
	}

	dates := make([]string, 0, len(meta.ExpirationDates))
	for _, epoch := range meta.ExpirationDates {
		dates = append(dates, time.Unix(epoch, 0).UTC().Format("2006-01-02"))
	}
	return dates, nil
}

// OptionChain fetches both sides of the option chain for a symbol and
// expiration date (YYYY-MM-DD).
func (c *Client) OptionChain(symbol, expiration string) (*domain.Chain, error) {
	expDate, err := time.ParseInLocation("2006-01-02", expiration, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid expiration date %q: %w", expiration, err)
	}

	epoch := expDate.Unix()
	payload, err := c.getOptionsPayload(symbol, &epoch)
	if err != nil {
		return nil, fmt.Errorf("failed to get option chain: %w", err)
	}

	if len(payload.Options) == 0 {
		return &domain.Chain{}, nil
	}

	chain := &domain.Chain{
		Puts:  toQuotes(payload.Options[0].Puts),
		Calls: toQuotes(payload.Options[0].Calls),
	}

	c.log.Debug().
		Str("symbol", symbol).
		Str("expiration", expiration).
		Int("puts", len(chain.Puts)).
		Int("calls", len(chain.Calls)).
		Msg("Fetched option chain")

	return chain, nil
}

// RiskFreeRate returns the annualized 13-week treasury bill yield as a
// decimal. Any failure, including a non-finite quote, yields the configured
// fallback rate. This call never fails the screening request.
func (c *Client) RiskFreeRate() float64 {
	quoted, err := c.lastClose(riskFreeRateSymbol, "1d", "5d")
	if err != nil {
		c.log.Warn().Err(err).Msg("Risk-free rate unavailable, using fallback")
		return c.fallbackRate
	}

	// ^IRX is quoted as a percentage
	rate := quoted / 100
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return c.fallbackRate
	}
	return rate
}

// lastClose fetches the most recent close value from the chart API for the
// given interval and range.
func (c *Client) lastClose(symbol, interval, dataRange string) (float64, error) {
	params := url.Values{}
	params.Add("interval", interval)
	params.Add("range", dataRange)

	reqURL := c.chartBaseURL + "/" + url.PathEscape(symbol) + "?" + params.Encode()

	body, err := c.get(reqURL)
	if err != nil {
		return 0, err
	}

	var result chartResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Chart.Error != nil {
		return 0, fmt.Errorf("Yahoo Finance API error: %v", result.Chart.Error)
	}

	if len(result.Chart.Result) == 0 || len(result.Chart.Result[0].Indicators.Quote) == 0 {
		return 0, fmt.Errorf("no chart data returned for symbol %s", symbol)
	}

	closes := result.Chart.Result[0].Indicators.Quote[0].Close

	// Walk backwards past trailing nulls (yahoo pads the current bar)
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] != nil && *closes[i] > 0 {
			return *closes[i], nil
		}
	}

	return 0, fmt.Errorf("no usable close price for symbol %s", symbol)
}

// getOptionsPayload fetches the options endpoint, optionally pinned to a
// specific expiration epoch.
func (c *Client) getOptionsPayload(symbol string, date *int64) (*optionsResult, error) {
	reqURL := c.optionsBaseURL + "/" + url.PathEscape(symbol)
	if date != nil {
		params := url.Values{}
		params.Add("date", fmt.Sprintf("%d", *date))
		reqURL += "?" + params.Encode()
	}

	body, err := c.get(reqURL)
	if err != nil {
		return nil, err
	}

	var result optionsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.OptionChain.Error != nil {
		return nil, fmt.Errorf("Yahoo Finance API error: %v", result.OptionChain.Error)
	}

	if len(result.OptionChain.Result) == 0 {
		return nil, fmt.Errorf("no option data returned for symbol %s", symbol)
	}

	return &result.OptionChain.Result[0], nil
}

func (c *Client) get(reqURL string) ([]byte, error) {
	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers to mimic browser
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Yahoo Finance API returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

func toQuotes(rows []optionRow) []domain.OptionQuote {
	quotes := make([]domain.OptionQuote, 0, len(rows))
	for _, row := range rows {
		quotes = append(quotes, domain.OptionQuote{
			ContractSymbol:    row.ContractSymbol,
			Strike:            row.Strike,
			Bid:               row.Bid,
			Ask:               row.Ask,
			LastPrice:         row.LastPrice,
			Volume:            row.Volume,
			OpenInterest:      row.OpenInterest,
			ImpliedVolatility: row.ImpliedVolatility,
			Delta:             row.Delta,
		})
	}
	return quotes
}

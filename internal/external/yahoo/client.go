package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/wonny/aegis-quant/pkg/httputil"
	"github.com/wonny/aegis-quant/pkg/logger"
)

const (
	// DefaultBaseURL is the public chart API host
	DefaultBaseURL = "https://query1.finance.yahoo.com"
	// DefaultRange covers the backtest lookback (504 bars) plus warm-up
	DefaultRange = "2y"
)

// Client handles communication with the Yahoo chart API
// ⭐ SSOT: Yahoo 차트 API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	chartRange string
}

// NewClient creates a new chart client; empty baseURL / chartRange use defaults
func NewClient(httpClient *httputil.Client, baseURL, chartRange string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if chartRange == "" {
		chartRange = DefaultRange
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
		chartRange: chartRange,
	}
}

// chartURL builds the daily chart URL for a symbol
func (c *Client) chartURL(symbol string) string {
	params := url.Values{}
	params.Set("range", c.chartRange)
	params.Set("interval", "1d")
	params.Set("includePrePost", "false")
	params.Set("events", "div,splits")
	return fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())
}

// FetchChart fetches and parses the daily chart of one symbol
func (c *Client) FetchChart(ctx context.Context, symbol string) (*Chart, error) {
	var resp chartResponse
	if err := c.httpClient.GetJSON(ctx, c.chartURL(symbol), &resp); err != nil {
		return nil, fmt.Errorf("fetch chart %s: %w", symbol, err)
	}

	chart, err := parseChart(&resp)
	if err != nil {
		return nil, fmt.Errorf("parse chart %s: %w", symbol, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(chart.History),
	}).Debug("Fetched chart")
	return chart, nil
}

package finviz

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/aegis-quant/pkg/httputil"
	"github.com/wonny/aegis-quant/pkg/logger"
)

// DefaultBaseURL is the quote page host
const DefaultBaseURL = "https://finviz.com"

// Fundamentals are the snapshot-table values the scorers use; 0 means unknown
type Fundamentals struct {
	MarketCap         float64 `json:"marketCap"`
	PE                float64 `json:"pe"`
	SharesOutstanding float64 `json:"sharesOutstanding"`
	ROE               float64 `json:"roe"` // percent
	DebtToEquity      float64 `json:"debtToEquity"`
}

// Client scrapes quote pages for fundamentals
// ⭐ SSOT: Finviz 스크래핑은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new quote page client
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// FetchFundamentals fetches and parses the quote page of one symbol
func (c *Client) FetchFundamentals(ctx context.Context, symbol string) (*Fundamentals, error) {
	pageURL := fmt.Sprintf("%s/quote.ashx?t=%s", c.baseURL, url.QueryEscape(symbol))

	body, err := c.httpClient.GetBody(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch quote page %s: %w", symbol, err)
	}

	f, err := parseQuoteHTML(body)
	if err != nil {
		return nil, fmt.Errorf("parse quote page %s: %w", symbol, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":     symbol,
		"market_cap": f.MarketCap,
		"pe":         f.PE,
	}).Debug("Fetched fundamentals")
	return f, nil
}

// parseQuoteHTML reads the label/value cell pairs of the snapshot table
func parseQuoteHTML(body []byte) (*Fundamentals, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	cells := doc.Find("table.snapshot-table2 td")
	if cells.Length() == 0 {
		return nil, fmt.Errorf("snapshot table not found")
	}

	values := make(map[string]string, cells.Length()/2)
	for i := 0; i+1 < cells.Length(); i += 2 {
		label := strings.TrimSpace(cells.Eq(i).Text())
		values[label] = strings.TrimSpace(cells.Eq(i + 1).Text())
	}

	return &Fundamentals{
		MarketCap:         parseNumber(values["Market Cap"]),
		PE:                parseNumber(values["P/E"]),
		SharesOutstanding: parseNumber(values["Shs Outstand"]),
		ROE:               parseNumber(values["ROE"]),
		DebtToEquity:      parseNumber(values["Debt/Eq"]),
	}, nil
}

var suffixes = map[byte]float64{
	'K': 1e3,
	'M': 1e6,
	'B': 1e9,
	'T': 1e12,
}

// parseNumber handles "2.95T", "845.12M", "35.12", "18.4%" and "-" (unknown = 0)
func parseNumber(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimSuffix(s, "%")
	if s == "" || s == "-" {
		return 0
	}

	mult := 1.0
	if m, ok := suffixes[s[len(s)-1]]; ok {
		mult = m
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v * mult
}

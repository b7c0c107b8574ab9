package yahoo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-quant/pkg/config"
	"github.com/wonny/aegis-quant/pkg/httputil"
	"github.com/wonny/aegis-quant/pkg/logger"
)

// Three sessions, the middle one with a null close; the last repeats a date
const chartFixture = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "SPY", "currency": "USD", "longName": "SPDR S&P 500 ETF Trust",
               "gmtoffset": -18000, "fiftyTwoWeekHigh": 613.23, "fiftyTwoWeekLow": 481.8},
      "timestamp": [1735828200, 1735914600, 1736173800, 1736173900],
      "indicators": {"quote": [{
        "open":   [589.39, 587.53, 596.27, 596.3],
        "high":   [591.13, 599.36, 599.7, 599.8],
        "low":    [580.5, 586.87, 593.6, 593.7],
        "close":  [584.64, null, 595.36, 595.4],
        "volume": [50203900, 49878400, 49187500, 1]
      }]}
    }],
    "error": null
  }
}`

func TestParseChart(t *testing.T) {
	var resp chartResponse
	require.NoError(t, json.Unmarshal([]byte(chartFixture), &resp))

	chart, err := parseChart(&resp)
	require.NoError(t, err)

	assert.Equal(t, "SPY", chart.Symbol)
	assert.Equal(t, "SPDR S&P 500 ETF Trust", chart.Name)
	assert.Equal(t, 613.23, chart.High52Week)
	require.Len(t, chart.History, 2)
	require.NoError(t, chart.History.Validate())

	first := chart.History[0]
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 584.64, first.Close)
	assert.Equal(t, 50203900.0, first.Volume)

	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), chart.History[1].Date)
}

func TestParseChart_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"api error", `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`, "Not Found"},
		{"no result", `{"chart":{"result":[],"error":null}}`, "empty chart"},
		{"all null", `{"chart":{"result":[{"meta":{},"timestamp":[1],"indicators":{"quote":[{"close":[null],"high":[null],"low":[null]}]}}]}}`, "empty chart"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp chartResponse
			require.NoError(t, json.Unmarshal([]byte(tt.body), &resp))
			_, err := parseChart(&resp)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestClient_FetchChart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v8/finance/chart/SPY"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "5y", r.URL.Query().Get("range"))
		_, _ = w.Write([]byte(chartFixture))
	}))
	defer server.Close()

	httpClient := httputil.New(&config.Config{}, logger.Nop()).DisableRetry()
	client := NewClient(httpClient, server.URL, "5y", logger.Nop())

	chart, err := client.FetchChart(context.Background(), "SPY")
	require.NoError(t, err)
	assert.Len(t, chart.History, 2)
}

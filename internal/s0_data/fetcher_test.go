package s0_data

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/external/finviz"
	"github.com/wonny/aegis-quant/internal/external/yahoo"
	"github.com/wonny/aegis-quant/internal/testutil"
	"github.com/wonny/aegis-quant/pkg/config"
	"github.com/wonny/aegis-quant/pkg/httputil"
)

type stubCharts struct {
	mu     sync.Mutex
	charts map[string]*yahoo.Chart
	errs   map[string]error
	calls  int
}

func (s *stubCharts) FetchChart(_ context.Context, symbol string) (*yahoo.Chart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err, ok := s.errs[symbol]; ok {
		return nil, err
	}
	if c, ok := s.charts[symbol]; ok {
		return c, nil
	}
	return nil, yahoo.ErrEmptyChart
}

type stubFundamentals struct {
	data map[string]*finviz.Fundamentals
}

func (s *stubFundamentals) FetchFundamentals(_ context.Context, symbol string) (*finviz.Fundamentals, error) {
	if f, ok := s.data[symbol]; ok {
		return f, nil
	}
	return nil, errors.New("quote page not found")
}

type memoryCache struct {
	items map[string][]byte
}

func newMemoryCache() *memoryCache { return &memoryCache{items: map[string][]byte{}} }

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	data, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = data
	return nil
}

type memoryArchive struct {
	bars map[string]contracts.PriceHistory
}

func (a *memoryArchive) SaveBars(_ context.Context, symbol string, bars contracts.PriceHistory) error {
	a.bars[symbol] = bars
	return nil
}

func (a *memoryArchive) GetBars(_ context.Context, symbol string, _, _ time.Time) (contracts.PriceHistory, error) {
	return a.bars[symbol], nil
}

func chartFor(symbol string) *yahoo.Chart {
	return &yahoo.Chart{
		Symbol:     symbol,
		Name:       symbol + " Corp",
		History:    testutil.LinearHistory(252, 80, 150, 1_000_000, 2_000_000),
		High52Week: 160,
		Low52Week:  70,
	}
}

func fastConfig() config.FetchConfig {
	return config.FetchConfig{BreakerThreshold: 2, BreakerCooldown: time.Minute}
}

func TestFetchOne_AssemblesSnapshot(t *testing.T) {
	charts := &stubCharts{charts: map[string]*yahoo.Chart{"AAPL": chartFor("AAPL")}}
	fund := &stubFundamentals{data: map[string]*finviz.Fundamentals{
		"AAPL": {MarketCap: 3e12, PE: 28.5, ROE: 150, DebtToEquity: 1.8, SharesOutstanding: 15e9},
	}}
	f := NewFetcher(charts, fund, fastConfig(), nil)

	snap, err := f.FetchOne(context.Background(), " aapl ")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", snap.Symbol)
	assert.Equal(t, "AAPL Corp", snap.Name)
	assert.Len(t, snap.History, 252)
	assert.InDelta(t, 150.0, snap.Price, 1e-9)
	assert.Equal(t, 160.0, snap.High52Week, "chart 52-week range is kept")
	assert.Equal(t, 70.0, snap.Low52Week)
	assert.Equal(t, 3e12, snap.MarketCap)
	assert.Equal(t, 28.5, snap.PE)
	assert.Greater(t, snap.AvgVolume, 0.0)
}

func TestFetchOne_FundamentalsFailureLeavesUnknown(t *testing.T) {
	charts := &stubCharts{charts: map[string]*yahoo.Chart{"MSFT": chartFor("MSFT")}}
	f := NewFetcher(charts, &stubFundamentals{}, fastConfig(), nil)

	snap, err := f.FetchOne(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Zero(t, snap.MarketCap)
	assert.Zero(t, snap.PE)
}

func TestFetchOne_EmptyChartIsNoData(t *testing.T) {
	f := NewFetcher(&stubCharts{}, nil, fastConfig(), nil)

	_, err := f.FetchOne(context.Background(), "ZZZZ")
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrNoData)
}

func TestFetchOne_UsesCache(t *testing.T) {
	charts := &stubCharts{charts: map[string]*yahoo.Chart{"NVDA": chartFor("NVDA")}}
	f := NewFetcher(charts, nil, fastConfig(), nil).WithCache(newMemoryCache())

	first, err := f.FetchOne(context.Background(), "NVDA")
	require.NoError(t, err)
	second, err := f.FetchOne(context.Background(), "NVDA")
	require.NoError(t, err)

	assert.Equal(t, 1, charts.calls)
	assert.Equal(t, first.Price, second.Price)
	assert.Len(t, second.History, len(first.History))
}

func TestFetchOne_ArchiveWriteThroughAndFallback(t *testing.T) {
	archive := &memoryArchive{bars: map[string]contracts.PriceHistory{}}
	charts := &stubCharts{charts: map[string]*yahoo.Chart{"AMD": chartFor("AMD")}}
	f := NewFetcher(charts, nil, fastConfig(), nil).WithArchive(archive)

	_, err := f.FetchOne(context.Background(), "AMD")
	require.NoError(t, err)
	require.Len(t, archive.bars["AMD"], 252)

	charts.errs = map[string]error{"AMD": &httputil.StatusError{URL: "x", StatusCode: http.StatusBadGateway}}
	snap, err := f.FetchOne(context.Background(), "AMD")
	require.NoError(t, err)
	assert.Len(t, snap.History, 252)
	assert.Equal(t, "AMD", snap.Name)
}

func TestFetchMany_SkipsFailures(t *testing.T) {
	charts := &stubCharts{
		charts: map[string]*yahoo.Chart{"AAPL": chartFor("AAPL"), "MSFT": chartFor("MSFT")},
	}
	f := NewFetcher(charts, nil, fastConfig(), nil)

	snaps := f.FetchMany(context.Background(), []string{"AAPL", "BOGUS", "MSFT"})
	require.Len(t, snaps, 2)
	assert.Equal(t, "AAPL", snaps[0].Symbol)
	assert.Equal(t, "MSFT", snaps[1].Symbol)
}

func TestFetchMany_StopsOnCancel(t *testing.T) {
	charts := &stubCharts{charts: map[string]*yahoo.Chart{"AAPL": chartFor("AAPL")}}
	f := NewFetcher(charts, nil, fastConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snaps := f.FetchMany(ctx, []string{"AAPL", "AAPL"})
	assert.Empty(t, snaps)
	assert.Zero(t, charts.calls)
}

func TestBreakerOpensOnUpstreamFailures(t *testing.T) {
	charts := &stubCharts{errs: map[string]error{
		"AAPL": &httputil.StatusError{URL: "x", StatusCode: http.StatusServiceUnavailable},
	}}
	f := NewFetcher(charts, nil, fastConfig(), nil)

	for i := 0; i < 2; i++ {
		_, err := f.FetchOne(context.Background(), "AAPL")
		require.Error(t, err)
	}
	_, err := f.FetchOne(context.Background(), "AAPL")
	require.Error(t, err)

	assert.Equal(t, 2, charts.calls, "open breaker short-circuits the third call")
}

func TestIsUpstreamHealthy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, true},
		{"empty chart", yahoo.ErrEmptyChart, true},
		{"not found", &httputil.StatusError{StatusCode: 404}, true},
		{"rate limited", &httputil.StatusError{StatusCode: 429}, false},
		{"server error", &httputil.StatusError{StatusCode: 500}, false},
		{"transport", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUpstreamHealthy(tt.err))
		})
	}
}

package s0_data

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/external/finviz"
	"github.com/wonny/aegis-quant/internal/external/yahoo"
	"github.com/wonny/aegis-quant/pkg/config"
	"github.com/wonny/aegis-quant/pkg/httputil"
	"github.com/wonny/aegis-quant/pkg/logger"
	"github.com/wonny/aegis-quant/pkg/metrics"
	"github.com/wonny/aegis-quant/pkg/redis"
)

// ChartSource supplies daily OHLCV charts
type ChartSource interface {
	FetchChart(ctx context.Context, symbol string) (*yahoo.Chart, error)
}

// FundamentalsSource supplies fundamentals for one symbol
type FundamentalsSource interface {
	FetchFundamentals(ctx context.Context, symbol string) (*finviz.Fundamentals, error)
}

// SnapshotCache is the subset of the Redis cache the fetcher uses
type SnapshotCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// archiveLookback is the window read back from the archive when the chart source fails
const archiveLookback = 2 * 365 * 24 * time.Hour

// Fetcher implements contracts.HistoryProvider on top of the chart and fundamentals sources
// ⭐ SSOT: 스냅샷 조립은 여기서만 (차트 + 펀더멘털 + 캐시 + 아카이브)
type Fetcher struct {
	charts       ChartSource
	fundamentals FundamentalsSource
	cache        SnapshotCache
	archive      contracts.BarRepository

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	metrics *metrics.Registry
	logger  *logger.Logger
	now     func() time.Time
}

// NewFetcher creates a fetcher; fundamentals may be nil.
// Consecutive fetches are spaced by cfg.Delay.
func NewFetcher(charts ChartSource, fundamentals FundamentalsSource, cfg config.FetchConfig, log *logger.Logger) *Fetcher {
	if log == nil {
		log = logger.Nop()
	}

	limit := rate.Inf
	if cfg.Delay > 0 {
		limit = rate.Every(cfg.Delay)
	}

	f := &Fetcher{
		charts:       charts,
		fundamentals: fundamentals,
		limiter:      rate.NewLimiter(limit, 1),
		logger:       log.Module("fetcher"),
		now:          time.Now,
	}
	f.breaker = newChartBreaker(cfg, f)
	return f
}

func newChartBreaker(cfg config.FetchConfig, f *Fetcher) *gobreaker.CircuitBreaker {
	threshold := uint32(5)
	if cfg.BreakerThreshold > 0 {
		threshold = uint32(cfg.BreakerThreshold)
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "chart",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: isUpstreamHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			f.metrics.SetBreakerState(name, int(to))
			f.logger.WithFields(map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})
}

// isUpstreamHealthy treats per-symbol failures (unknown ticker, empty chart)
// and caller cancellation as healthy upstream responses.
func isUpstreamHealthy(err error) bool {
	if err == nil || errors.Is(err, yahoo.ErrEmptyChart) || errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *httputil.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode < http.StatusInternalServerError && statusErr.StatusCode != http.StatusTooManyRequests
	}
	return false
}

// WithCache enables the snapshot cache
func (f *Fetcher) WithCache(cache SnapshotCache) *Fetcher {
	f.cache = cache
	return f
}

// WithArchive enables write-through archiving and archive fallback
func (f *Fetcher) WithArchive(repo contracts.BarRepository) *Fetcher {
	f.archive = repo
	return f
}

// WithMetrics enables fetch metrics
func (f *Fetcher) WithMetrics(m *metrics.Registry) *Fetcher {
	f.metrics = m
	return f
}

// FetchOne returns the snapshot of one symbol
func (f *Fetcher) FetchOne(ctx context.Context, symbol string) (*contracts.StockSnapshot, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("fetch: empty symbol: %w", contracts.ErrNoData)
	}

	cacheKey := redis.SnapshotKey(symbol, f.now().UTC().Format("2006-01-02"))
	if f.cache != nil {
		var cached contracts.StockSnapshot
		hit, err := f.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			f.logger.WithError(err).WithField("symbol", symbol).Warn("Snapshot cache read failed")
		}
		f.metrics.ObserveCache(hit)
		if hit && len(cached.History) > 0 {
			return &cached, nil
		}
	}

	chart, err := f.fetchChart(ctx, symbol)
	if err != nil {
		chart, err = f.fromArchive(ctx, symbol, err)
		if err != nil {
			return nil, err
		}
	} else {
		f.archiveBars(ctx, symbol, chart.History)
	}

	snap := &contracts.StockSnapshot{
		Symbol:     symbol,
		Name:       chart.Name,
		High52Week: chart.High52Week,
		Low52Week:  chart.Low52Week,
		History:    chart.History,
	}
	if snap.Name == "" {
		snap.Name = symbol
	}
	snap.FillQuote()

	f.applyFundamentals(ctx, snap)

	if f.cache != nil {
		if err := f.cache.Set(ctx, cacheKey, snap, redis.TTLSnapshot); err != nil {
			f.logger.WithError(err).WithField("symbol", symbol).Warn("Snapshot cache write failed")
		}
	}
	return snap, nil
}

// FetchMany fetches symbols one after another; failures are logged and skipped
func (f *Fetcher) FetchMany(ctx context.Context, symbols []string) []*contracts.StockSnapshot {
	out := make([]*contracts.StockSnapshot, 0, len(symbols))
	failed := 0

	for _, symbol := range symbols {
		if ctx.Err() != nil {
			f.logger.WithField("remaining", len(symbols)-len(out)-failed).Warn("Fetch cancelled")
			break
		}

		snap, err := f.FetchOne(ctx, symbol)
		if err != nil {
			failed++
			f.logger.WithError(err).WithField("symbol", symbol).Warn("Skipping symbol")
			continue
		}
		out = append(out, snap)
	}

	f.logger.WithFields(map[string]interface{}{
		"requested": len(symbols),
		"fetched":   len(out),
		"failed":    failed,
	}).Info("Fetch batch completed")
	return out
}

// fetchChart paces the call and runs it through the breaker
func (f *Fetcher) fetchChart(ctx context.Context, symbol string) (*yahoo.Chart, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	start := time.Now()
	result, err := f.breaker.Execute(func() (interface{}, error) {
		return f.charts.FetchChart(ctx, symbol)
	})
	f.metrics.ObserveFetch("chart", err, time.Since(start))

	if err != nil {
		if errors.Is(err, yahoo.ErrEmptyChart) {
			return nil, fmt.Errorf("fetch %s: %w", symbol, contracts.ErrNoData)
		}
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	return result.(*yahoo.Chart), nil
}

// fromArchive rebuilds a chart from archived bars after an upstream failure
func (f *Fetcher) fromArchive(ctx context.Context, symbol string, cause error) (*yahoo.Chart, error) {
	if f.archive == nil || errors.Is(cause, contracts.ErrNoData) {
		return nil, cause
	}

	now := f.now().UTC()
	bars, err := f.archive.GetBars(ctx, symbol, now.Add(-archiveLookback), now)
	if err != nil || len(bars) == 0 {
		return nil, cause
	}

	f.logger.WithError(cause).WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(bars),
	}).Warn("Using archived bars")
	return &yahoo.Chart{Symbol: symbol, Name: symbol, History: bars}, nil
}

func (f *Fetcher) archiveBars(ctx context.Context, symbol string, bars contracts.PriceHistory) {
	if f.archive == nil {
		return
	}
	if err := f.archive.SaveBars(ctx, symbol, bars); err != nil {
		f.logger.WithError(err).WithField("symbol", symbol).Warn("Bar archive write failed")
	}
}

// applyFundamentals fills fundamentals; a failure leaves them unknown (0)
func (f *Fetcher) applyFundamentals(ctx context.Context, snap *contracts.StockSnapshot) {
	if f.fundamentals == nil {
		return
	}

	var fund finviz.Fundamentals
	key := redis.FundamentalsKey(snap.Symbol)
	hit := false
	if f.cache != nil {
		hit, _ = f.cache.Get(ctx, key, &fund)
	}

	if !hit {
		start := time.Now()
		fetched, err := f.fundamentals.FetchFundamentals(ctx, snap.Symbol)
		f.metrics.ObserveFetch("fundamentals", err, time.Since(start))
		if err != nil {
			f.logger.WithError(err).WithField("symbol", snap.Symbol).Debug("Fundamentals unavailable")
			return
		}
		fund = *fetched
		if f.cache != nil {
			_ = f.cache.Set(ctx, key, fund, redis.TTLFundamentals)
		}
	}

	snap.MarketCap = fund.MarketCap
	snap.PE = fund.PE
	snap.SharesOutstanding = fund.SharesOutstanding
	snap.ROE = fund.ROE
	snap.DebtToEquity = fund.DebtToEquity
}

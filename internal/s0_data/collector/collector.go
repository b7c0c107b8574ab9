package collector

import (
	"context"
	"sort"
	"sync"

	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/pkg/logger"
)

// Collector warms the snapshot cache and bar archive for a symbol list
// ⭐ SSOT: 데이터 수집 오케스트레이션은 이 패키지에서만
type Collector struct {
	provider contracts.HistoryProvider
	logger   *logger.Logger
}

// Config holds collector configuration
type Config struct {
	Workers int // Number of concurrent workers
}

// NewCollector creates a new Collector instance
func NewCollector(provider contracts.HistoryProvider, log *logger.Logger) *Collector {
	if log == nil {
		log = logger.Nop()
	}
	return &Collector{
		provider: provider,
		logger:   log.Module("collector"),
	}
}

// FetchResult represents the result of a fetch operation
type FetchResult struct {
	Symbol   string
	BarCount int
	Snapshot *contracts.StockSnapshot
	Error    error
}

// Collect fetches every symbol through the provider with a worker pool.
// Results come back in symbol order.
func (c *Collector) Collect(ctx context.Context, symbols []string, cfg Config) []FetchResult {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol_count": len(symbols),
		"workers":      workers,
	}).Info("Starting bar collection")

	resultCh := make(chan FetchResult, len(symbols))
	symbolCh := make(chan string, len(symbols))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			c.worker(ctx, workerID, symbolCh, resultCh)
		}(i)
	}

	for _, symbol := range symbols {
		symbolCh <- symbol
	}
	close(symbolCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]FetchResult, 0, len(symbols))
	successCount := 0
	failCount := 0
	for result := range resultCh {
		results = append(results, result)
		if result.Error != nil {
			failCount++
		} else {
			successCount++
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Symbol < results[j].Symbol })

	c.logger.WithFields(map[string]interface{}{
		"success": successCount,
		"failed":  failCount,
		"total":   len(results),
	}).Info("Bar collection completed")

	return results
}

// worker processes fetches for symbols
func (c *Collector) worker(ctx context.Context, workerID int, symbolCh <-chan string, resultCh chan<- FetchResult) {
	for symbol := range symbolCh {
		if err := ctx.Err(); err != nil {
			resultCh <- FetchResult{Symbol: symbol, Error: err}
			continue
		}

		snap, err := c.provider.FetchOne(ctx, symbol)
		if err != nil {
			c.logger.WithError(err).WithFields(map[string]interface{}{
				"worker": workerID,
				"symbol": symbol,
			}).Warn("Failed to fetch bars")
			resultCh <- FetchResult{Symbol: symbol, Error: err}
			continue
		}

		c.logger.WithFields(map[string]interface{}{
			"worker": workerID,
			"symbol": symbol,
			"count":  len(snap.History),
		}).Debug("Fetched bars")

		resultCh <- FetchResult{
			Symbol:   symbol,
			BarCount: len(snap.History),
			Snapshot: snap,
		}
	}
}

// Snapshots returns the successful snapshots of a result set
func Snapshots(results []FetchResult) []*contracts.StockSnapshot {
	out := make([]*contracts.StockSnapshot, 0, len(results))
	for _, r := range results {
		if r.Error == nil && r.Snapshot != nil {
			out = append(out, r.Snapshot)
		}
	}
	return out
}

// Package regime classifies the broad market from a benchmark index.
package regime

import (
	"context"

	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/indicators"
	"github.com/wonny/aegis-quant/pkg/logger"
)

const (
	// DefaultBenchmark is the index ETF used when none is configured
	DefaultBenchmark = "SPY"
	// DefaultMAPeriod is the trend line the benchmark is compared against
	DefaultMAPeriod = 200
)

// Classify returns bull when the benchmark trades above its long moving
// average, bear otherwise, and neutral without enough bars
func Classify(snap *contracts.StockSnapshot, maPeriod int) contracts.MarketRegime {
	if maPeriod <= 0 {
		maPeriod = DefaultMAPeriod
	}
	if snap == nil || len(snap.History) < maPeriod {
		return contracts.RegimeNeutral
	}
	ma := indicators.SMA(snap.History.Closes(), maPeriod)
	if snap.Price > ma {
		return contracts.RegimeBull
	}
	return contracts.RegimeBear
}

// Detector fetches the benchmark and classifies it
// ⭐ SSOT: 시장 국면 판단
type Detector struct {
	provider  contracts.HistoryProvider
	benchmark string
	maPeriod  int
	logger    *logger.Logger
}

// NewDetector creates a detector; empty benchmark means SPY
func NewDetector(provider contracts.HistoryProvider, benchmark string, maPeriod int, log *logger.Logger) *Detector {
	if benchmark == "" {
		benchmark = DefaultBenchmark
	}
	if maPeriod <= 0 {
		maPeriod = DefaultMAPeriod
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Detector{
		provider:  provider,
		benchmark: benchmark,
		maPeriod:  maPeriod,
		logger:    log,
	}
}

// Benchmark returns the benchmark symbol
func (d *Detector) Benchmark() string {
	return d.benchmark
}

// Detect never fails: fetch errors and short histories fall back to neutral with a warning
func (d *Detector) Detect(ctx context.Context) contracts.MarketRegime {
	log := d.logger.WithField("benchmark", d.benchmark)

	snap, err := d.provider.FetchOne(ctx, d.benchmark)
	if err != nil {
		log.WithError(err).Warn("Benchmark fetch failed, regime defaults to neutral")
		return contracts.RegimeNeutral
	}
	if snap == nil || len(snap.History) < d.maPeriod {
		bars := 0
		if snap != nil {
			bars = len(snap.History)
		}
		log.WithField("bars", bars).Warn("Benchmark history too short, regime defaults to neutral")
		return contracts.RegimeNeutral
	}

	r := Classify(snap, d.maPeriod)
	log.WithFields(map[string]interface{}{
		"regime": r,
		"price":  snap.Price,
	}).Info("Market regime detected")
	return r
}

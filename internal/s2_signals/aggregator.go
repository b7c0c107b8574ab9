package s2_signals

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sync"

	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/indicators"
	"github.com/wonny/aegis-quant/pkg/logger"
)

const (
	// MinHistoryBars is the hard floor for scoring; shorter histories get no bundle
	MinHistoryBars = 200

	// MaxCachedBundles caps the memo; the cache is cleared when it fills
	MaxCachedBundles = 4096

	rsiPeriod        = 14
	rsiZWindow       = 20
	atrPeriod        = 14
	adxPeriod        = 14
	bollingerPeriod  = 20
	bollingerStdDev  = 2.0
	volumeZWindow    = 20
	breakoutPeriod   = 20
	institutionalBar = 63

	shortVolWindow = 20
	longVolWindow  = 100
	stressVolRatio = 1.5
)

// Compute builds the full indicator bundle for one snapshot.
// Returns nil when the history is shorter than MinHistoryBars.
func Compute(snap *contracts.StockSnapshot) *contracts.IndicatorBundle {
	if snap == nil || len(snap.History) < MinHistoryBars {
		return nil
	}

	history := snap.History
	closes := history.Closes()
	price := closes[len(closes)-1]

	rsi := indicators.RSI(closes, rsiPeriod)
	bands := indicators.BollingerBands(closes, bollingerPeriod, bollingerStdDev)
	vwap := indicators.VWAP(history.Tail(institutionalBar))

	b := &contracts.IndicatorBundle{
		RSI:       rsi,
		RSIZScore: indicators.ZScore(rsi, indicators.RSISeries(closes, rsiPeriod, rsiZWindow)),

		SMA5:   indicators.SMA(closes, 5),
		SMA10:  indicators.SMA(closes, 10),
		SMA20:  indicators.SMA(closes, 20),
		SMA50:  indicators.SMA(closes, 50),
		SMA200: indicators.SMA(closes, 200),

		ATR:              indicators.ATR(history, atrPeriod),
		BollingerWidth:   bands.Width,
		BollingerSqueeze: bands.Squeeze,

		VolumeZScore: indicators.VolumeZScore(history, volumeZWindow),

		RSRating:      indicators.RelativeStrengthRating(history),
		Stage2:        indicators.Stage2Uptrend(history),
		Breakout:      indicators.Breakout(history, breakoutPeriod),
		VCP:           indicators.VCP(history),
		VWAP63:        vwap,
		Institutional: price > vwap,

		ADX:               indicators.ADX(history, adxPeriod),
		AwesomeOscillator: indicators.AwesomeOscillator(history),

		YTD: indicators.YTDPerformance(history),
		MTD: indicators.MTDPerformance(history),
	}

	b.High52Week, b.Low52Week = snap.High52Week, snap.Low52Week
	if b.High52Week == 0 || b.Low52Week == 0 {
		hi, lo := indicators.Range(history.Tail(contracts.YearBars))
		if b.High52Week == 0 {
			b.High52Week = hi
		}
		if b.Low52Week == 0 {
			b.Low52Week = lo
		}
	}

	b.Regime = classifyVolatility(closes, price, b.SMA50, b.SMA200)
	return b
}

// classifyVolatility labels stress when short-term realized volatility runs
// well above the long-term level, bull on an aligned uptrend, else neutral
func classifyVolatility(closes []float64, price, sma50, sma200 float64) contracts.VolatilityRegime {
	shortVol := indicators.RealizedVolatility(closes, shortVolWindow)
	longVol := indicators.RealizedVolatility(closes, longVolWindow)
	if longVol > 0 && shortVol > stressVolRatio*longVol {
		return contracts.VolatilityStress
	}
	if price > sma50 && sma50 > sma200 {
		return contracts.VolatilityBull
	}
	return contracts.VolatilityNeutral
}

// Aggregator memoizes bundles per snapshot fingerprint for the lifetime of a run
// ⭐ SSOT: 지표 묶음 계산/캐시는 여기서만
type Aggregator struct {
	mu       sync.Mutex
	cache    map[string]*contracts.IndicatorBundle
	capacity int
	hits     int
	misses   int
	logger   *logger.Logger
}

// NewAggregator creates an empty aggregator
func NewAggregator(log *logger.Logger) *Aggregator {
	return &Aggregator{
		cache:    make(map[string]*contracts.IndicatorBundle),
		capacity: MaxCachedBundles,
		logger:   log,
	}
}

// Bundle returns the memoized bundle for the snapshot, computing it on first use.
// The returned bundle is shared and must be treated as read-only.
func (a *Aggregator) Bundle(snap *contracts.StockSnapshot) *contracts.IndicatorBundle {
	if snap == nil || len(snap.History) < MinHistoryBars {
		return nil
	}

	key := fingerprint(snap)

	a.mu.Lock()
	if b, ok := a.cache[key]; ok {
		a.hits++
		a.mu.Unlock()
		return b
	}
	a.mu.Unlock()

	b := Compute(snap)

	a.mu.Lock()
	flushed := 0
	if len(a.cache) >= a.capacity {
		flushed = len(a.cache)
		a.cache = make(map[string]*contracts.IndicatorBundle)
	}
	a.cache[key] = b
	a.misses++
	a.mu.Unlock()

	if flushed > 0 && a.logger != nil {
		a.logger.WithFields(map[string]interface{}{
			"entries": flushed,
		}).Debug("Indicator bundle cache full, cleared")
	}

	if a.logger != nil {
		a.logger.WithFields(map[string]interface{}{
			"symbol": snap.Symbol,
			"bars":   len(snap.History),
			"rsi":    b.RSI,
			"regime": b.Regime,
		}).Debug("Computed indicator bundle")
	}
	return b
}

// Len returns the number of memoized bundles
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.cache)
}

// Stats returns cache hit/miss counts
func (a *Aggregator) Stats() (hits, misses int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hits, a.misses
}

// Reset drops every memoized bundle
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache = make(map[string]*contracts.IndicatorBundle)
	a.hits, a.misses = 0, 0
}

// fingerprint hashes the symbol, the 52-week range and every bar of the history
func fingerprint(snap *contracts.StockSnapshot) string {
	h := sha256.New()
	h.Write([]byte(snap.Symbol))

	buf := make([]byte, 8)
	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		h.Write(buf)
	}
	writeFloat(snap.High52Week)
	writeFloat(snap.Low52Week)
	for _, bar := range snap.History {
		h.Write([]byte(bar.Date.Format("2006-01-02")))
		writeFloat(bar.Open)
		writeFloat(bar.High)
		writeFloat(bar.Low)
		writeFloat(bar.Close)
		writeFloat(bar.Volume)
	}
	return hex.EncodeToString(h.Sum(nil))
}

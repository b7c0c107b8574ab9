package quality

import (
	"time"

	"github.com/wonny/aegis-quant/internal/contracts"
)

// QualityGate validates a fetched batch before scoring
type QualityGate struct {
	config Config
}

// Config holds quality gate thresholds
type Config struct {
	MinHistoryBars       int           `yaml:"min_history_bars"`       // 200 (SMA200 floor)
	MaxStaleness         time.Duration `yaml:"max_staleness"`          // 5 days
	MinHistoryCoverage   float64       `yaml:"min_history_coverage"`   // 0.80
	MinVolumeCoverage    float64       `yaml:"min_volume_coverage"`    // 0.90
	MinFreshnessCoverage float64       `yaml:"min_freshness_coverage"` // 0.90
	MinQualityScore      float64       `yaml:"min_quality_score"`      // 0.70
}

// DefaultConfig returns the gate thresholds used by the daily run
func DefaultConfig() Config {
	return Config{
		MinHistoryBars:       200,
		MaxStaleness:         5 * 24 * time.Hour,
		MinHistoryCoverage:   0.80,
		MinVolumeCoverage:    0.90,
		MinFreshnessCoverage: 0.90,
		MinQualityScore:      0.70,
	}
}

// NewQualityGate creates a new QualityGate instance
func NewQualityGate(config Config) *QualityGate {
	return &QualityGate{config: config}
}

// Check validates a snapshot batch as of a date
// ⭐ SSOT: S0 → 스코어링 품질 검증
func (g *QualityGate) Check(snaps []*contracts.StockSnapshot, asOf time.Time) *contracts.DataQualitySnapshot {
	snapshot := &contracts.DataQualitySnapshot{
		Date:        asOf.UTC().Truncate(24 * time.Hour),
		TotalStocks: len(snaps),
		Coverage:    make(map[string]float64),
		Issues:      make(map[string]string),
	}
	if len(snaps) == 0 {
		return snapshot
	}

	counts := map[string]int{}
	for _, s := range snaps {
		if s == nil {
			continue
		}
		history := len(s.History) >= g.config.MinHistoryBars
		volume := s.AvgVolume > 0 && s.History.Last().Volume > 0
		fresh := g.isFresh(s, asOf)

		if history {
			counts[contracts.CoverageHistory]++
		}
		if volume {
			counts[contracts.CoverageVolume]++
		}
		if fresh {
			counts[contracts.CoverageFreshness]++
		}
		if s.MarketCap > 0 {
			counts[contracts.CoverageFundamentals]++
		}

		// 필수 체크 (history, volume, freshness)
		switch {
		case !history:
			snapshot.Issues[s.Symbol] = "insufficient history"
		case !volume:
			snapshot.Issues[s.Symbol] = "missing volume"
		case !fresh:
			snapshot.Issues[s.Symbol] = "stale bars"
		default:
			snapshot.ValidStocks++
		}
	}

	total := float64(len(snaps))
	for _, key := range []string{
		contracts.CoverageHistory,
		contracts.CoverageVolume,
		contracts.CoverageFreshness,
		contracts.CoverageFundamentals,
	} {
		snapshot.Coverage[key] = float64(counts[key]) / total
	}

	snapshot.QualityScore = g.calculateScore(snapshot.Coverage)
	snapshot.Passed = g.passes(snapshot)
	return snapshot
}

func (g *QualityGate) isFresh(s *contracts.StockSnapshot, asOf time.Time) bool {
	if len(s.History) == 0 {
		return false
	}
	if g.config.MaxStaleness <= 0 {
		return true
	}
	return asOf.Sub(s.History.Last().Date) <= g.config.MaxStaleness
}

func (g *QualityGate) passes(snapshot *contracts.DataQualitySnapshot) bool {
	c := snapshot.Coverage
	return snapshot.QualityScore >= g.config.MinQualityScore &&
		c[contracts.CoverageHistory] >= g.config.MinHistoryCoverage &&
		c[contracts.CoverageVolume] >= g.config.MinVolumeCoverage &&
		c[contracts.CoverageFreshness] >= g.config.MinFreshnessCoverage
}

// calculateScore calculates overall quality score using weighted average
func (g *QualityGate) calculateScore(coverage map[string]float64) float64 {
	// 가중치 (합계 = 1.0)
	weights := map[string]float64{
		contracts.CoverageHistory:      0.35, // SMA200 필수
		contracts.CoverageVolume:       0.25,
		contracts.CoverageFreshness:    0.25,
		contracts.CoverageFundamentals: 0.15, // 없으면 중립 처리
	}

	score := 0.0
	for key, weight := range weights {
		if cov, exists := coverage[key]; exists {
			score += cov * weight
		}
	}

	return score
}

package scoring

import (
	"fmt"

	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/s2_signals"
	"github.com/wonny/aegis-quant/pkg/logger"
)

// Engine runs scorers against snapshots, computing each bundle once
// ⭐ SSOT: 스냅샷 → 점수 변환 진입점
type Engine struct {
	aggregator *s2_signals.Aggregator
	logger     *logger.Logger
}

// NewEngine creates an engine; a nil aggregator gets a fresh one
func NewEngine(aggregator *s2_signals.Aggregator, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	if aggregator == nil {
		aggregator = s2_signals.NewAggregator(log)
	}
	return &Engine{aggregator: aggregator, logger: log}
}

// Evaluate runs one scorer on a snapshot without memoization.
// Used by replays where every snapshot is a distinct truncation.
func Evaluate(s Scorer, snap *contracts.StockSnapshot, regime contracts.MarketRegime, tf contracts.Timeframe) *contracts.Score {
	return EvaluateBundle(s, snap, s2_signals.Compute(snap), regime, tf)
}

// EvaluateBundle runs one scorer against a bundle the caller already computed,
// so several scorers can share one Compute per snapshot
func EvaluateBundle(s Scorer, snap *contracts.StockSnapshot, bundle *contracts.IndicatorBundle, regime contracts.MarketRegime, tf contracts.Timeframe) *contracts.Score {
	return s.Score(Input{
		Snapshot:  snap,
		Bundle:    bundle,
		Regime:    regime,
		Timeframe: tf,
	})
}

// Score runs a single named algorithm. Every "no result" path is an error:
// unknown algorithm or timeframe, missing data, short history, no score.
func (e *Engine) Score(snap *contracts.StockSnapshot, algorithm string, regime contracts.MarketRegime, tf contracts.Timeframe) (*contracts.Score, error) {
	scorer, err := Lookup(algorithm)
	if err != nil {
		return nil, err
	}
	if tf != "" && !supports(scorer, tf) {
		return nil, fmt.Errorf("%w: %s does not score %q (valid: %v)",
			contracts.ErrUnknownTimeframe, algorithm, tf, scorer.Timeframes())
	}
	if snap == nil {
		return nil, contracts.ErrNoData
	}

	bundle := e.aggregator.Bundle(snap)
	if bundle == nil {
		return nil, fmt.Errorf("%w: %s has %d bars, need %d",
			contracts.ErrInsufficientHistory, snap.Symbol, len(snap.History), s2_signals.MinHistoryBars)
	}

	requested := tf
	if tf == "" {
		tf = scorer.Timeframes()[0]
	}
	score := scorer.Score(Input{Snapshot: snap, Bundle: bundle, Regime: regime, Timeframe: tf})
	if score == nil {
		return nil, fmt.Errorf("%w: %s/%s", contracts.ErrNoScore, snap.Symbol, algorithm)
	}
	// CAN SLIM은 보유기간을 스스로 고름; 요청과 다르면 결과 없음
	if requested != "" && score.Timeframe != requested {
		return nil, fmt.Errorf("%w: %s/%s scored %s, not %s",
			contracts.ErrNoScore, snap.Symbol, algorithm, score.Timeframe, requested)
	}
	return score, nil
}

// ScoreAll runs every given scorer over every timeframe it supports.
// Scorers that pick their own timeframe are evaluated once.
func (e *Engine) ScoreAll(snap *contracts.StockSnapshot, scorers []Scorer, regime contracts.MarketRegime) []*contracts.Score {
	bundle := e.aggregator.Bundle(snap)
	if bundle == nil {
		return nil
	}

	var out []*contracts.Score
	for _, scorer := range scorers {
		seen := make(map[contracts.Timeframe]bool)
		for _, tf := range scorer.Timeframes() {
			score := scorer.Score(Input{Snapshot: snap, Bundle: bundle, Regime: regime, Timeframe: tf})
			if score == nil || seen[score.Timeframe] {
				continue
			}
			seen[score.Timeframe] = true
			out = append(out, score)
		}
	}

	e.logger.WithFields(map[string]interface{}{
		"symbol": snap.Symbol,
		"scores": len(out),
		"regime": regime,
	}).Debug("snapshot scored")
	return out
}

// Aggregator exposes the bundle cache (stats, reset between runs)
func (e *Engine) Aggregator() *s2_signals.Aggregator {
	return e.aggregator
}

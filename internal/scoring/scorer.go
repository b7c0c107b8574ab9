// Package scoring holds the six scoring strategies and the engine that runs them.
package scoring

import (
	"fmt"
	"math"

	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/indicators"
)

// Input is everything a scorer may look at for one evaluation
type Input struct {
	Snapshot  *contracts.StockSnapshot
	Bundle    *contracts.IndicatorBundle
	Regime    contracts.MarketRegime
	Timeframe contracts.Timeframe // empty = scorer default
}

// Scorer is one strategy of the closed scoring set.
// Score returns nil for "no opinion": missing bundle, failed hard filter,
// or a rating the strategy does not emit.
type Scorer interface {
	Name() string
	DisplayName() string
	Timeframes() []contracts.Timeframe
	Score(in Input) *contracts.Score
}

// ⭐ SSOT: 전략 목록 (순서 = 출력 순서)
var registry = []Scorer{
	CanSlim{},
	Momentum{},
	Composite{},
	PennySniper{},
	ValueSleeper{},
	AlphaPredator{},
}

// All returns every scorer in registry order
func All() []Scorer {
	out := make([]Scorer, len(registry))
	copy(out, registry)
	return out
}

// Names returns the registered algorithm names in registry order
func Names() []string {
	names := make([]string, len(registry))
	for i, s := range registry {
		names[i] = s.Name()
	}
	return names
}

// Lookup finds a scorer by name
func Lookup(name string) (Scorer, error) {
	for _, s := range registry {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (known: %v)", contracts.ErrUnknownAlgorithm, name, Names())
}

// Select resolves a list of names; empty means all
func Select(names []string) ([]Scorer, error) {
	if len(names) == 0 {
		return All(), nil
	}
	out := make([]Scorer, 0, len(names))
	for _, n := range names {
		s, err := Lookup(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// supports reports whether tf is one of the scorer's timeframes
func supports(s Scorer, tf contracts.Timeframe) bool {
	for _, t := range s.Timeframes() {
		if t == tf {
			return true
		}
	}
	return false
}

// tier is one step of a descending threshold table
type tier struct {
	Min    float64
	Points float64
}

// tierPoints returns the points of the first tier with v >= Min (tiers sorted high to low)
func tierPoints(v float64, tiers []tier) float64 {
	for _, t := range tiers {
		if v >= t.Min {
			return t.Points
		}
	}
	return 0
}

// tierPointsAbove is tierPoints with strict comparison (v > Min)
func tierPointsAbove(v float64, tiers []tier) float64 {
	for _, t := range tiers {
		if v > t.Min {
			return t.Points
		}
	}
	return 0
}

func between(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

func bonus(cond bool, points float64) float64 {
	if cond {
		return points
	}
	return 0
}

// clampScore bounds the emitted score to [0,100]
func clampScore(raw float64) float64 {
	return indicators.Round2(math.Max(0, math.Min(100, raw)))
}

// thresholds is the shared STRONG BUY / BUY / SELL cut set
type thresholds struct {
	StrongBuy float64
	Buy       float64
	Sell      float64
}

func (t thresholds) classify(score float64) contracts.Rating {
	switch {
	case score >= t.StrongBuy:
		return contracts.RatingStrongBuy
	case score >= t.Buy:
		return contracts.RatingBuy
	case score < t.Sell:
		return contracts.RatingSell
	default:
		return contracts.RatingHold
	}
}

// newScore copies the quote fields of the snapshot into a Score
func newScore(snap *contracts.StockSnapshot, algorithm string) *contracts.Score {
	return &contracts.Score{
		Symbol:        snap.Symbol,
		Name:          snap.Name,
		Price:         indicators.Round2(snap.Price),
		Change:        indicators.Round2(snap.Change),
		ChangePercent: indicators.Round2(snap.ChangePercent),
		Algorithm:     algorithm,
	}
}


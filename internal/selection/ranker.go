package selection

import (
	"time"

	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/pkg/logger"
)

// Ranker runs the score gate, aggregation and stamping in one step
// ⭐ SSOT: 점수 → 최종 픽 변환은 여기서만
type Ranker struct {
	screener    *Screener
	topN        int
	slippageBps float64
	logger      *logger.Logger
}

// RankerConfig holds the ranking knobs
type RankerConfig struct {
	MinScore       float64
	ActionableOnly bool
	TopN           int
	SlippageBps    float64
}

// DefaultRankerConfig returns the daily-run defaults
func DefaultRankerConfig() RankerConfig {
	return RankerConfig{
		MinScore:    DefaultMinScore,
		TopN:        MaxPicks,
		SlippageBps: DefaultSlippageBps,
	}
}

// NewRanker creates a new ranker
func NewRanker(cfg RankerConfig, log *logger.Logger) *Ranker {
	if log == nil {
		log = logger.Nop()
	}
	return &Ranker{
		screener: NewScreener(ScreenerConfig{
			MinScore:       cfg.MinScore,
			ActionableOnly: cfg.ActionableOnly,
		}, log),
		topN:        cfg.TopN,
		slippageBps: cfg.SlippageBps,
		logger:      log,
	}
}

// Rank screens, aggregates and stamps scores into picks
func (r *Ranker) Rank(scores []*contracts.Score, now time.Time) []contracts.Pick {
	passed, filtered := r.screener.Screen(scores)
	ranked := Aggregate(passed, r.topN)
	picks := Stamp(ranked, now, r.slippageBps)

	fields := map[string]interface{}{
		"scores":   len(scores),
		"passed":   len(passed),
		"filtered": filtered,
		"picks":    len(picks),
	}
	if len(picks) > 0 {
		fields["top_symbol"] = picks[0].Symbol
		fields["top_score"] = picks[0].Score.Score
	}
	r.logger.WithFields(fields).Info("Ranking completed")

	return picks
}

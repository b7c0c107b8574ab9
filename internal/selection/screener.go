package selection

import (
	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/pkg/logger"
)

// DefaultMinScore is the publish gate applied before aggregation
const DefaultMinScore = 50

// Screener drops scores that should not reach aggregation
// ⭐ SSOT: 집계 전 점수 게이트는 여기서만
type Screener struct {
	config ScreenerConfig
	logger *logger.Logger
}

// ScreenerConfig defines the hard cut conditions
type ScreenerConfig struct {
	MinScore       float64 // 기본 50
	ActionableOnly bool    // STRONG BUY / BUY 만 통과
}

// NewScreener creates a new screener
func NewScreener(config ScreenerConfig, log *logger.Logger) *Screener {
	if log == nil {
		log = logger.Nop()
	}
	return &Screener{
		config: config,
		logger: log,
	}
}

// Screen returns the passing scores in input order and the per-reason drop counts
func (s *Screener) Screen(scores []*contracts.Score) ([]*contracts.Score, map[string]int) {
	passed := make([]*contracts.Score, 0, len(scores))
	filtered := make(map[string]int) // reason -> count

	for _, sc := range scores {
		reason := s.checkConditions(sc)
		if reason == "" {
			passed = append(passed, sc)
		} else {
			filtered[reason]++
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"input":    len(scores),
		"passed":   len(passed),
		"filtered": filtered,
	}).Debug("Screening completed")

	return passed, filtered
}

// checkConditions returns the first failed condition ("" when passed)
func (s *Screener) checkConditions(sc *contracts.Score) string {
	switch {
	case sc == nil:
		return "no_score"
	case sc.Price <= 0:
		return "no_price"
	case sc.Score < s.config.MinScore:
		return "min_score"
	case s.config.ActionableOnly && !sc.Rating.IsActionable():
		return "not_actionable"
	default:
		return ""
	}
}

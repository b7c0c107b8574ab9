package backtest

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/s2_signals"
	"github.com/wonny/aegis-quant/internal/scoring"
	"github.com/wonny/aegis-quant/pkg/logger"
)

const (
	DefaultStride   = 10
	DefaultLookback = 504 // ~2 trading years
	DefaultHorizon  = 7   // forward bars per simulated trade
)

// DefaultThresholds are the entry thresholds swept by the daily backtest
var DefaultThresholds = []float64{50, 60, 70, 80}

// Config holds the replay parameters
type Config struct {
	Stride   int
	Lookback int
	Horizon  int
	Workers  int // parallel tickers (0 = 4)
}

// DefaultConfig returns the replay defaults
func DefaultConfig() Config {
	return Config{
		Stride:   DefaultStride,
		Lookback: DefaultLookback,
		Horizon:  DefaultHorizon,
		Workers:  4,
	}
}

// Simulator replays scorers over historical snapshots
// ⭐ SSOT: 백테스팅 시뮬레이션은 여기서만
type Simulator struct {
	config Config
	logger *logger.Logger
}

// NewSimulator creates a simulator; zero config fields take defaults
func NewSimulator(cfg Config, log *logger.Logger) *Simulator {
	def := DefaultConfig()
	if cfg.Stride <= 0 {
		cfg.Stride = def.Stride
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = def.Lookback
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = def.Horizon
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Simulator{config: cfg, logger: log.Module("backtest")}
}

// tickerReturns holds forward returns per [scorer][threshold]
type tickerReturns [][][]float64

// Run replays every scorer on every ticker at stride positions and aggregates
// forward returns per (algorithm, threshold), in scorer-then-threshold order.
// Each replayed snapshot only contains bars up to the replay position.
func (s *Simulator) Run(ctx context.Context, histories []*contracts.StockSnapshot, scorers []scoring.Scorer, thresholds []float64) ([]contracts.BacktestResult, error) {
	if len(scorers) == 0 {
		return nil, fmt.Errorf("backtest: no scorers")
	}
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds
	}

	start := time.Now()
	perTicker := make([]tickerReturns, len(histories))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i, snap := range histories {
		g.Go(func() error {
			out, err := s.replay(gctx, snap, scorers, thresholds)
			if err != nil {
				return err
			}
			perTicker[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}

	// 종목 순서대로 병합 (결과 재현성)
	results := make([]contracts.BacktestResult, 0, len(scorers)*len(thresholds))
	for a, scorer := range scorers {
		for t, threshold := range thresholds {
			var returns []float64
			for _, tr := range perTicker {
				if tr != nil {
					returns = append(returns, tr[a][t]...)
				}
			}
			stats := summarize(returns)
			results = append(results, contracts.BacktestResult{
				Algorithm:   scorer.Name(),
				Threshold:   threshold,
				TotalTrades: stats.Trades,
				WinRate:     stats.WinRate,
				AvgReturn:   stats.Mean,
				SharpeRatio: stats.Sharpe,
			})
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"tickers":    len(histories),
		"algorithms": len(scorers),
		"thresholds": len(thresholds),
		"duration":   time.Since(start).Seconds(),
	}).Info("Backtest completed")

	return results, nil
}

// Positions returns the replay indices for a history of n bars
func (s *Simulator) Positions(n int) []int {
	first := n - s.config.Lookback
	if first < 0 {
		first = 0
	}
	last := n - 1 - s.config.Horizon

	var out []int
	for i := first; i <= last; i += s.config.Stride {
		out = append(out, i)
	}
	return out
}

// replay walks one ticker; every scorer is evaluated once per position and
// the score is compared against each threshold
func (s *Simulator) replay(ctx context.Context, snap *contracts.StockSnapshot, scorers []scoring.Scorer, thresholds []float64) (tickerReturns, error) {
	out := make(tickerReturns, len(scorers))
	for a := range out {
		out[a] = make([][]float64, len(thresholds))
	}
	if snap == nil {
		return out, nil
	}

	closes := snap.History.Closes()
	for _, i := range s.Positions(len(closes)) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i+1 < s2_signals.MinHistoryBars || closes[i] <= 0 {
			continue
		}

		asOf := snap.AsOf(i)
		bundle := s2_signals.Compute(asOf)
		if bundle == nil {
			continue
		}
		forward := (closes[i+s.config.Horizon] - closes[i]) / closes[i] * 100

		for a, scorer := range scorers {
			score := scoring.EvaluateBundle(scorer, asOf, bundle, contracts.RegimeNeutral, "")
			if score == nil {
				continue
			}
			for t, threshold := range thresholds {
				if score.Score >= threshold {
					out[a][t] = append(out[a][t], forward)
				}
			}
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"symbol": snap.Symbol,
		"bars":   len(closes),
	}).Debug("Ticker replayed")
	return out, nil
}

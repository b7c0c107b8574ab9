package audit

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

// Config holds the stress audit parameters
type Config struct {
	Window      int     // benchmark look-back bars for the drop test
	DropPct     float64 // stress when the window change is <= DropPct
	SignalFloor float64 // a scorer "fires" when score > SignalFloor
	MAEBars     int     // bars scanned for max adverse excursion
	ForwardBars int     // forward return horizon
	Workers     int
}

// DefaultConfig returns the audit defaults
func DefaultConfig() Config {
	return Config{
		Window:      5,
		DropPct:     -3,
		SignalFloor: 50,
		MAEBars:     5,
		ForwardBars: 10,
		Workers:     4,
	}
}

// Auditor re-scores tickers inside benchmark stress windows
// ⭐ SSOT: 급락 구간 신호 검증은 여기서만
type Auditor struct {
	config Config
	logger *logger.Logger
	now    func() time.Time
}

// NewAuditor creates an auditor; zero config fields take defaults
func NewAuditor(cfg Config, log *logger.Logger) *Auditor {
	def := DefaultConfig()
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.DropPct == 0 {
		cfg.DropPct = def.DropPct
	}
	if cfg.MAEBars <= 0 {
		cfg.MAEBars = def.MAEBars
	}
	if cfg.ForwardBars <= 0 {
		cfg.ForwardBars = def.ForwardBars
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Auditor{config: cfg, logger: log.Module("stress_audit"), now: time.Now}
}

// Run finds stress windows on the benchmark, re-scores every ticker at each
// stress bar with the stress regime and measures what happened after every fired signal.
func (a *Auditor) Run(ctx context.Context, benchmark *contracts.StockSnapshot, histories []*contracts.StockSnapshot, scorers []scoring.Scorer) (*contracts.StressArtifact, error) {
	if benchmark == nil || len(benchmark.History) == 0 {
		return nil, fmt.Errorf("stress audit: benchmark: %w", contracts.ErrNoData)
	}
	if len(scorers) == 0 {
		return nil, fmt.Errorf("stress audit: no scorers")
	}

	stressDates, events := StressWindows(benchmark.History, a.config.Window, a.config.DropPct)

	perTicker := make([][]contracts.StressSignal, len(histories))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.Workers)
	for i, snap := range histories {
		g.Go(func() error {
			signals, err := a.scan(gctx, snap, stressDates, scorers)
			if err != nil {
				return err
			}
			perTicker[i] = signals
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("stress audit: %w", err)
	}

	results := make([]contracts.StressSignal, 0)
	for _, signals := range perTicker {
		results = append(results, signals...)
	}

	artifact := &contracts.StressArtifact{
		LastRun:           a.now().UTC(),
		StressEventsFound: len(events),
		Events:            events,
		Summary:           summarize(results, scorers),
		Results:           results,
	}
	if artifact.Events == nil {
		artifact.Events = []contracts.StressEvent{}
	}

	a.logger.WithFields(map[string]interface{}{
		"benchmark":   benchmark.Symbol,
		"stress_bars": len(stressDates),
		"events":      len(events),
		"tickers":     len(histories),
		"signals":     len(results),
	}).Info("Stress audit completed")

	return artifact, nil
}

// scan re-scores one ticker at its stress bars
func (a *Auditor) scan(ctx context.Context, snap *contracts.StockSnapshot, stressDates map[string]bool, scorers []scoring.Scorer) ([]contracts.StressSignal, error) {
	if snap == nil || len(stressDates) == 0 {
		return nil, nil
	}

	history := snap.History
	var out []contracts.StressSignal
	for i, bar := range history {
		if !stressDates[bar.Date.Format(sessionDate)] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i+1 < s2_signals.MinHistoryBars || i+a.config.ForwardBars >= len(history) || bar.Close <= 0 {
			continue
		}

		asOf := snap.AsOf(i)
		bundle := s2_signals.Compute(asOf)
		if bundle == nil {
			continue
		}
		for _, scorer := range scorers {
			score := scoring.EvaluateBundle(scorer, asOf, bundle, contracts.RegimeStress, "")
			if score == nil || score.Score <= a.config.SignalFloor {
				continue
			}
			out = append(out, a.measure(snap.Symbol, history, i, score))
		}
	}
	return out, nil
}

// measure computes the post-signal excursion and forward return from bar i
func (a *Auditor) measure(symbol string, history contracts.PriceHistory, i int, score *contracts.Score) contracts.StressSignal {
	price := history[i].Close

	end := i + a.config.MAEBars
	if end >= len(history) {
		end = len(history) - 1
	}
	minLow := history[i+1].Low
	for _, b := range history[i+1 : end+1] {
		if b.Low < minLow {
			minLow = b.Low
		}
	}

	exit := history[i+a.config.ForwardBars].Close
	return contracts.StressSignal{
		Symbol:              symbol,
		Algorithm:           score.Algorithm,
		Date:                history[i].Date,
		Score:               score.Score,
		Rating:              score.Rating,
		SignalPrice:         price,
		MaxAdverseExcursion: (minLow - price) / price * 100,
		ForwardReturn10d:    (exit - price) / price * 100,
		Recovered:           exit >= price,
	}
}

// summarize aggregates signals per scorer, in scorer order
func summarize(signals []contracts.StressSignal, scorers []scoring.Scorer) []contracts.StressSummary {
	out := make([]contracts.StressSummary, 0, len(scorers))
	for _, scorer := range scorers {
		s := contracts.StressSummary{Algorithm: scorer.Name()}
		knives := 0
		for _, sig := range signals {
			if sig.Algorithm != scorer.Name() {
				continue
			}
			s.Signals++
			s.AvgMAE += sig.MaxAdverseExcursion
			s.AvgForwardReturn += sig.ForwardReturn10d
			if sig.ForwardReturn10d < 0 {
				knives++
			}
		}
		if s.Signals > 0 {
			n := float64(s.Signals)
			s.AvgMAE /= n
			s.AvgForwardReturn /= n
			s.FallingKnifeRate = float64(knives) / n
		}
		out = append(out, s)
	}
	return out
}

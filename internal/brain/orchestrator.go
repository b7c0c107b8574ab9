package brain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/s0_data/quality"
	"github.com/wonny/aegis-quant/internal/scoring"
	"github.com/wonny/aegis-quant/internal/selection"
	"github.com/wonny/aegis-quant/pkg/logger"
	"github.com/wonny/aegis-quant/pkg/metrics"
)

// Pipeline names used in logs and metrics
const (
	PipelinePicks    = "picks"
	PipelineBacktest = "backtest"
	PipelineStress   = "stress"
)

// Orchestrator coordinates the daily picks run and the research runs
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Orchestrator struct {
	provider  contracts.HistoryProvider
	regime    contracts.RegimeDetector
	universe  contracts.UniverseSource
	engine    *scoring.Engine
	ranker    *selection.Ranker
	publisher contracts.Publisher

	// optional stages
	qualityGate    *quality.QualityGate
	qualityRepo    contracts.QualityRepository
	enforceQuality bool
	pickRepo       contracts.PickRepository
	runRepo        contracts.RunRepository
	research       *Research
	metrics        *metrics.Registry

	logger *logger.Logger
	now    func() time.Time
}

// NewOrchestrator creates an orchestrator with the required stages
func NewOrchestrator(
	provider contracts.HistoryProvider,
	regime contracts.RegimeDetector,
	universe contracts.UniverseSource,
	engine *scoring.Engine,
	ranker *selection.Ranker,
	publisher contracts.Publisher,
	log *logger.Logger,
) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	if engine == nil {
		engine = scoring.NewEngine(nil, log)
	}
	return &Orchestrator{
		provider:  provider,
		regime:    regime,
		universe:  universe,
		engine:    engine,
		ranker:    ranker,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

// WithQualityGate checks fetched snapshots before scoring.
// enforce=false logs a failed gate and keeps going.
func (o *Orchestrator) WithQualityGate(gate *quality.QualityGate, repo contracts.QualityRepository, enforce bool) *Orchestrator {
	o.qualityGate = gate
	o.qualityRepo = repo
	o.enforceQuality = enforce
	return o
}

// WithPickRepository persists picks after publishing
func (o *Orchestrator) WithPickRepository(repo contracts.PickRepository) *Orchestrator {
	o.pickRepo = repo
	return o
}

// WithRunRepository persists backtest and stress artifacts
func (o *Orchestrator) WithRunRepository(repo contracts.RunRepository) *Orchestrator {
	o.runRepo = repo
	return o
}

// WithResearch enables RunBacktest and RunStress
func (o *Orchestrator) WithResearch(r *Research) *Orchestrator {
	o.research = r
	return o
}

// WithMetrics records pipeline metrics
func (o *Orchestrator) WithMetrics(m *metrics.Registry) *Orchestrator {
	o.metrics = m
	return o
}

// PicksResult summarizes one daily picks run
type PicksResult struct {
	RunID    string
	Regime   contracts.MarketRegime
	Symbols  int // deduplicated across algorithms
	Fetched  int
	Scores   int
	Quality  *contracts.DataQualitySnapshot
	Artifact *contracts.PicksArtifact
	Duration time.Duration
}

// RunPicks executes regime → universe → fetch → quality → score → rank → publish → persist
func (o *Orchestrator) RunPicks(ctx context.Context, algorithms []string) (result *PicksResult, err error) {
	start := o.now()
	result = &PicksResult{RunID: uuid.NewString()}
	defer func() {
		result.Duration = o.now().Sub(start)
		o.metrics.ObservePipeline(PipelinePicks, err, result.Duration)
	}()

	log := o.logger.WithFields(map[string]interface{}{
		"run_id":     result.RunID,
		"algorithms": algorithms,
	})
	log.Info("Starting picks run")

	scorers, err := scoring.Select(algorithms)
	if err != nil {
		return result, err
	}

	result.Regime = o.regime.Detect(ctx)

	plan := o.plan(scorers)
	result.Symbols = len(plan.symbols)
	if len(plan.symbols) == 0 {
		return result, fmt.Errorf("%w: empty universe for %v", contracts.ErrNoData, algorithms)
	}

	snaps := o.provider.FetchMany(ctx, plan.symbols)
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("fetch cancelled: %w", err)
	}
	result.Fetched = len(snaps)

	if err := o.checkQuality(ctx, result, snaps, start); err != nil {
		return result, err
	}

	o.engine.Aggregator().Reset()
	scores := o.scoreAll(plan, snaps, result.Regime)
	result.Scores = len(scores)

	now := o.now()
	picks := o.ranker.Rank(scores, now)
	result.Artifact = &contracts.PicksArtifact{
		LastUpdated: now,
		TotalPicks:  len(picks),
		Stocks:      picks,
	}

	if err := o.publisher.PublishPicks(ctx, result.Artifact); err != nil {
		return result, fmt.Errorf("publish picks: %w", err)
	}
	o.metrics.SetPicksPublished(len(picks))

	// DB 저장 실패는 파일 출력에 영향 없음
	if o.pickRepo != nil {
		if err := o.pickRepo.SavePicks(ctx, result.RunID, picks); err != nil {
			log.WithError(err).Warn("Failed to persist picks")
		}
	}

	hits, misses := o.engine.Aggregator().Stats()
	log.WithFields(map[string]interface{}{
		"regime":        result.Regime,
		"symbols":       result.Symbols,
		"fetched":       result.Fetched,
		"scores":        result.Scores,
		"picks":         len(picks),
		"bundle_hits":   hits,
		"bundle_misses": misses,
		"duration_ms":   o.now().Sub(start).Milliseconds(),
	}).Info("Picks run completed")

	return result, nil
}

// scanPlan pairs each scorer with its candidate symbols
type scanPlan struct {
	scorers    []scoring.Scorer
	candidates [][]string
	symbols    []string // first-appearance order, deduplicated
}

// plan resolves universes per algorithm; a missing universe skips that algorithm
func (o *Orchestrator) plan(scorers []scoring.Scorer) scanPlan {
	var p scanPlan
	seen := make(map[string]bool)

	for _, s := range scorers {
		u, err := o.universe.ForAlgorithm(s.Name())
		if err != nil {
			o.logger.WithError(err).WithField("algorithm", s.Name()).Warn("No universe, algorithm skipped")
			continue
		}
		p.scorers = append(p.scorers, s)
		p.candidates = append(p.candidates, u.Stocks)
		for _, sym := range u.Stocks {
			if !seen[sym] {
				seen[sym] = true
				p.symbols = append(p.symbols, sym)
			}
		}
	}
	return p
}

func (o *Orchestrator) scoreAll(p scanPlan, snaps []*contracts.StockSnapshot, regime contracts.MarketRegime) []*contracts.Score {
	bySymbol := make(map[string]*contracts.StockSnapshot, len(snaps))
	for _, s := range snaps {
		if s != nil {
			bySymbol[s.Symbol] = s
		}
	}

	var scores []*contracts.Score
	for i, scorer := range p.scorers {
		one := []scoring.Scorer{scorer}
		for _, sym := range p.candidates[i] {
			snap, ok := bySymbol[sym]
			if !ok {
				continue
			}
			for _, sc := range o.engine.ScoreAll(snap, one, regime) {
				o.metrics.ObserveScore(sc.Algorithm, string(sc.Rating))
				scores = append(scores, sc)
			}
		}
	}
	return scores
}

func (o *Orchestrator) checkQuality(ctx context.Context, result *PicksResult, snaps []*contracts.StockSnapshot, asOf time.Time) error {
	if o.qualityGate == nil {
		return nil
	}

	snapshot := o.qualityGate.Check(snaps, asOf)
	result.Quality = snapshot

	if o.qualityRepo != nil {
		if err := o.qualityRepo.SaveSnapshot(ctx, snapshot); err != nil {
			o.logger.WithError(err).Warn("Failed to persist quality snapshot")
		}
	}

	if snapshot.IsValid() {
		return nil
	}

	log := o.logger.WithFields(map[string]interface{}{
		"quality_score": snapshot.QualityScore,
		"valid_stocks":  snapshot.ValidStocks,
		"total_stocks":  snapshot.TotalStocks,
	})
	if o.enforceQuality {
		return fmt.Errorf("quality gate failed: score=%.2f valid=%d/%d",
			snapshot.QualityScore, snapshot.ValidStocks, snapshot.TotalStocks)
	}
	log.Warn("Quality gate failed, continuing (not enforced)")
	return nil
}

// ScoreSymbol scores one symbol with one algorithm against the live regime.
// Empty tf lets the scorer use its default timeframe.
func (o *Orchestrator) ScoreSymbol(ctx context.Context, symbol, algorithm string, tf contracts.Timeframe) (*contracts.Score, error) {
	if _, err := scoring.Lookup(algorithm); err != nil {
		return nil, err
	}

	snap, err := o.provider.FetchOne(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	score, err := o.engine.Score(snap, algorithm, o.regime.Detect(ctx), tf)
	if err != nil {
		return nil, err
	}
	o.metrics.ObserveScore(score.Algorithm, string(score.Rating))
	return score, nil
}

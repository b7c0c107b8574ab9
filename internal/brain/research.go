package brain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/aegis-quant/internal/audit"
	"github.com/wonny/aegis-quant/internal/backtest"
	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/scoring"
)

// Research bundles the historical replay components
type Research struct {
	Simulator  *backtest.Simulator
	Auditor    *audit.Auditor
	Benchmark  string
	Thresholds []float64
}

// ErrResearchDisabled means the orchestrator was built without WithResearch
var ErrResearchDisabled = errors.New("research runs not configured")

// ResearchResult summarizes a backtest or stress run
type ResearchResult struct {
	RunID    string
	Kind     string
	Symbols  int
	Fetched  int
	Backtest *contracts.BacktestArtifact
	Stress   *contracts.StressArtifact
	Duration time.Duration
}

// RunBacktest replays every selected algorithm over the union of their universes
func (o *Orchestrator) RunBacktest(ctx context.Context, algorithms []string, thresholds []float64) (result *ResearchResult, err error) {
	start := o.now()
	result = &ResearchResult{RunID: uuid.NewString(), Kind: audit.KindBacktest}
	defer func() {
		result.Duration = o.now().Sub(start)
		o.metrics.ObservePipeline(PipelineBacktest, err, result.Duration)
	}()

	if o.research == nil || o.research.Simulator == nil {
		return result, ErrResearchDisabled
	}
	if len(thresholds) == 0 {
		thresholds = o.research.Thresholds
	}

	scorers, histories, err := o.loadHistories(ctx, algorithms, result)
	if err != nil {
		return result, err
	}

	rows, err := o.research.Simulator.Run(ctx, histories, scorers, thresholds)
	if err != nil {
		return result, fmt.Errorf("backtest: %w", err)
	}

	result.Backtest = &contracts.BacktestArtifact{LastRun: o.now(), Results: rows}
	if err := o.publisher.PublishBacktest(ctx, result.Backtest); err != nil {
		return result, fmt.Errorf("publish backtest: %w", err)
	}
	o.saveRun(ctx, result.RunID, audit.KindBacktest, result.Backtest.LastRun, result.Backtest)

	o.logger.WithFields(map[string]interface{}{
		"run_id":  result.RunID,
		"tickers": len(histories),
		"rows":    len(rows),
	}).Info("Backtest run completed")
	return result, nil
}

// RunStress re-scores every selected algorithm inside benchmark stress windows
func (o *Orchestrator) RunStress(ctx context.Context, algorithms []string) (result *ResearchResult, err error) {
	start := o.now()
	result = &ResearchResult{RunID: uuid.NewString(), Kind: audit.KindStress}
	defer func() {
		result.Duration = o.now().Sub(start)
		o.metrics.ObservePipeline(PipelineStress, err, result.Duration)
	}()

	if o.research == nil || o.research.Auditor == nil {
		return result, ErrResearchDisabled
	}

	benchmark, err := o.provider.FetchOne(ctx, o.research.Benchmark)
	if err != nil {
		return result, fmt.Errorf("fetch benchmark %s: %w", o.research.Benchmark, err)
	}

	scorers, histories, err := o.loadHistories(ctx, algorithms, result)
	if err != nil {
		return result, err
	}

	artifact, err := o.research.Auditor.Run(ctx, benchmark, histories, scorers)
	if err != nil {
		return result, fmt.Errorf("stress audit: %w", err)
	}

	result.Stress = artifact
	if err := o.publisher.PublishStress(ctx, artifact); err != nil {
		return result, fmt.Errorf("publish stress: %w", err)
	}
	o.saveRun(ctx, result.RunID, audit.KindStress, artifact.LastRun, artifact)

	o.logger.WithFields(map[string]interface{}{
		"run_id":  result.RunID,
		"events":  artifact.StressEventsFound,
		"signals": len(artifact.Results),
	}).Info("Stress run completed")
	return result, nil
}

func (o *Orchestrator) loadHistories(ctx context.Context, algorithms []string, result *ResearchResult) ([]scoring.Scorer, []*contracts.StockSnapshot, error) {
	scorers, err := scoring.Select(algorithms)
	if err != nil {
		return nil, nil, err
	}

	plan := o.plan(scorers)
	result.Symbols = len(plan.symbols)
	if len(plan.symbols) == 0 {
		return nil, nil, fmt.Errorf("%w: empty universe for %v", contracts.ErrNoData, algorithms)
	}

	histories := o.provider.FetchMany(ctx, plan.symbols)
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("fetch cancelled: %w", err)
	}
	result.Fetched = len(histories)
	return plan.scorers, histories, nil
}

func (o *Orchestrator) saveRun(ctx context.Context, runID, kind string, at time.Time, artifact interface{}) {
	if o.runRepo == nil {
		return
	}
	if err := o.runRepo.SaveRun(ctx, runID, kind, at, artifact); err != nil {
		o.logger.WithError(err).WithField("kind", kind).Warn("Failed to persist run artifact")
	}
}

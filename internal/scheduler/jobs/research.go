package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/aegis-quant/internal/brain"
	"github.com/wonny/aegis-quant/pkg/logger"
)

// ResearchRunner runs the historical replays
type ResearchRunner interface {
	RunBacktest(ctx context.Context, algorithms []string, thresholds []float64) (*brain.ResearchResult, error)
	RunStress(ctx context.Context, algorithms []string) (*brain.ResearchResult, error)
}

// WeeklyResearchJob refreshes backtest and stress artifacts
type WeeklyResearchJob struct {
	runner     ResearchRunner
	schedule   string
	algorithms []string
	logger     *logger.Logger
}

// NewWeeklyResearchJob creates a new research job
func NewWeeklyResearchJob(runner ResearchRunner, schedule string, algorithms []string, log *logger.Logger) *WeeklyResearchJob {
	if log == nil {
		log = logger.Nop()
	}
	return &WeeklyResearchJob{
		runner:     runner,
		schedule:   schedule,
		algorithms: algorithms,
		logger:     log,
	}
}

// Name returns the job name
func (j *WeeklyResearchJob) Name() string {
	return "weekly_research"
}

// Schedule returns the cron schedule
func (j *WeeklyResearchJob) Schedule() string {
	return j.schedule
}

// Run executes the backtest, then the stress audit
func (j *WeeklyResearchJob) Run(ctx context.Context) error {
	bt, err := j.runner.RunBacktest(ctx, j.algorithms, nil)
	if err != nil {
		return fmt.Errorf("backtest run: %w", err)
	}

	st, err := j.runner.RunStress(ctx, j.algorithms)
	if err != nil {
		return fmt.Errorf("stress run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"backtest_run":  bt.RunID,
		"backtest_rows": len(bt.Backtest.Results),
		"stress_run":    st.RunID,
		"stress_events": st.Stress.StressEventsFound,
	}).Info("Scheduled research run finished")

	return nil
}

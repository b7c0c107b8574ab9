package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/aegis-quant/internal/brain"
	"github.com/wonny/aegis-quant/pkg/logger"
)

// PicksRunner runs the daily picks pipeline
type PicksRunner interface {
	RunPicks(ctx context.Context, algorithms []string) (*brain.PicksResult, error)
}

// DailyPicksJob publishes picks after the close
// ⭐ SSOT: 일일 픽 스케줄은 이 Job에서만
type DailyPicksJob struct {
	runner     PicksRunner
	schedule   string
	algorithms []string
	logger     *logger.Logger
}

// NewDailyPicksJob creates a new daily picks job
func NewDailyPicksJob(runner PicksRunner, schedule string, algorithms []string, log *logger.Logger) *DailyPicksJob {
	if log == nil {
		log = logger.Nop()
	}
	return &DailyPicksJob{
		runner:     runner,
		schedule:   schedule,
		algorithms: algorithms,
		logger:     log,
	}
}

// Name returns the job name
func (j *DailyPicksJob) Name() string {
	return "daily_picks"
}

// Schedule returns the cron schedule
func (j *DailyPicksJob) Schedule() string {
	return j.schedule
}

// Run executes the picks pipeline
func (j *DailyPicksJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled picks run")

	result, err := j.runner.RunPicks(ctx, j.algorithms)
	if err != nil {
		return fmt.Errorf("picks run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id": result.RunID,
		"regime": result.Regime,
		"picks":  result.Artifact.TotalPicks,
	}).Info("Scheduled picks run finished")

	return nil
}

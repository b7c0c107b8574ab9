package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/aegis-quant/internal/scheduler"
	"github.com/wonny/aegis-quant/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "정기 작업 스케줄러",
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 실행 (SIGINT/SIGTERM 까지 대기)",
		Long: `strategy scheduler 섹션의 cron 으로 정기 작업을 등록합니다.
cron 은 strategy meta.timezone 기준으로 해석됩니다.

Jobs:
  daily_picks      일일 픽 (scheduler.daily_picks_cron)
  weekly_research  백테스트 + 스트레스 감사 (scheduler.weekly_backtest_cron)`,
		RunE: runSchedulerStart,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run <job>",
		Short: "등록된 작업 1회 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedulerJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func buildScheduler(a *app) (*scheduler.Scheduler, error) {
	loc, err := time.LoadLocation(a.strategy.Meta.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	s := scheduler.New(scheduler.Config{
		Location:   loc,
		MaxRetries: a.strategy.Scheduler.MaxRetries,
		RetryDelay: time.Minute,
	}, a.log)

	if err := s.AddJob(jobs.NewDailyPicksJob(a.brain, a.strategy.Scheduler.DailyPicksCron, a.strategy.Picks.Algorithms, a.log)); err != nil {
		return nil, err
	}
	if a.strategy.Scheduler.WeeklyBacktestCron != "" {
		if err := s.AddJob(jobs.NewWeeklyResearchJob(a.brain, a.strategy.Scheduler.WeeklyBacktestCron, a.strategy.Backtest.Algorithms, a.log)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func runSchedulerStart(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := buildScheduler(a)
	if err != nil {
		return err
	}
	s.Start()

	for _, name := range s.GetAllJobs() {
		next, _ := s.NextRun(name)
		a.log.WithFields(map[string]interface{}{
			"job":      name,
			"next_run": next.Format(time.RFC3339),
		}).Info("Job scheduled")
	}

	<-ctx.Done()
	a.log.Info("Shutting down scheduler")
	s.Stop()
	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := buildScheduler(a)
	if err != nil {
		return err
	}

	result, err := s.RunJob(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: success=%v attempts=%d duration=%s\n",
		result.JobName, result.Success, result.Attempts, result.Duration.Round(time.Millisecond))
	if !result.Success {
		return fmt.Errorf("job %s failed: %s", result.JobName, result.Error)
	}
	return nil
}

package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// backtestCmd represents the backtest command
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "스코어러 백테스트",
	Long: `과거 구간을 잘라낸 스냅샷으로 스코어러를 재실행하고
임계값별 7일 선행 수익률을 집계합니다.

Example:
  go run ./cmd/quant backtest run
  go run ./cmd/quant backtest run --algorithms canslim --thresholds 60,80`,
}

var (
	backtestRunCmd = &cobra.Command{
		Use:   "run",
		Short: "백테스트 실행",
		RunE:  runBacktest,
	}

	// Flags
	backtestAlgorithms []string
	backtestThresholds []float64
)

func init() {
	rootCmd.AddCommand(backtestCmd)
	backtestCmd.AddCommand(backtestRunCmd)

	// Flags
	backtestRunCmd.Flags().StringSliceVar(&backtestAlgorithms, "algorithms", nil, "알고리즘 목록 (기본: strategy backtest.algorithms)")
	backtestRunCmd.Flags().Float64SliceVar(&backtestThresholds, "thresholds", nil, "점수 임계값 (기본: strategy backtest.thresholds)")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	algorithms := backtestAlgorithms
	if len(algorithms) == 0 {
		algorithms = a.strategy.Backtest.Algorithms
	}

	result, err := a.brain.RunBacktest(ctx, algorithms, backtestThresholds)
	if err != nil {
		return fmt.Errorf("backtest run: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s: %d/%d tickers in %s\n",
		result.RunID, result.Fetched, result.Symbols, result.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "%-20s %9s %7s %8s %9s %7s\n", "algorithm", "threshold", "trades", "win", "avg%", "sharpe")
	for _, r := range result.Backtest.Results {
		fmt.Fprintf(out, "%-20s %9.0f %7d %7.1f%% %9.2f %7.2f\n",
			r.Algorithm, r.Threshold, r.TotalTrades, r.WinRate*100, r.AvgReturn, r.SharpeRatio)
	}
	return nil
}

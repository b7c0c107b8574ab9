package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "적대적 감사",
}

var (
	auditStressCmd = &cobra.Command{
		Use:   "stress",
		Short: "급락 구간 스트레스 감사",
		Long: `벤치마크 5일 낙폭이 임계값 이하인 구간에서 stress 국면으로 재스코어링하고
신호 발생 후 최대 역행폭(MAE)과 10일 선행 수익률을 측정합니다.

Example:
  go run ./cmd/quant audit stress
  go run ./cmd/quant audit stress --algorithms alpha_predator`,
		RunE: runStressAudit,
	}

	auditAlgorithms []string
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditStressCmd)

	auditStressCmd.Flags().StringSliceVar(&auditAlgorithms, "algorithms", nil, "알고리즘 목록 (기본: strategy backtest.algorithms)")
}

func runStressAudit(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	algorithms := auditAlgorithms
	if len(algorithms) == 0 {
		algorithms = a.strategy.Backtest.Algorithms
	}

	result, err := a.brain.RunStress(ctx, algorithms)
	if err != nil {
		return fmt.Errorf("stress audit: %w", err)
	}

	out := cmd.OutOrStdout()
	artifact := result.Stress
	fmt.Fprintf(out, "run %s: %d stress events, %d signals\n",
		result.RunID, artifact.StressEventsFound, len(artifact.Results))
	fmt.Fprintf(out, "%-20s %8s %9s %10s %13s\n", "algorithm", "signals", "avg MAE", "avg fwd10", "falling knife")
	for _, s := range artifact.Summary {
		fmt.Fprintf(out, "%-20s %8d %8.2f%% %9.2f%% %12.1f%%\n",
			s.Algorithm, s.Signals, s.AvgMAE, s.AvgForwardReturn, s.FallingKnifeRate*100)
	}
	return nil
}

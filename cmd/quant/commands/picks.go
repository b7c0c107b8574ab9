package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// picksCmd represents the picks command
var picksCmd = &cobra.Command{
	Use:   "picks",
	Short: "일일 픽 생성",
}

var (
	picksRunCmd = &cobra.Command{
		Use:   "run",
		Short: "일일 픽 파이프라인 실행",
		Long: `국면 판별 → 알고리즘별 유니버스 → 조회(중복 제거) → 품질 게이트 →
스코어링 → 집계/랭킹 → 라이브/아카이브 파일 출력 → DB 저장.

Example:
  go run ./cmd/quant picks run
  go run ./cmd/quant picks run --algorithms canslim,value_sleeper`,
		RunE: runPicks,
	}

	picksAlgorithms []string
)

func init() {
	rootCmd.AddCommand(picksCmd)
	picksCmd.AddCommand(picksRunCmd)

	picksRunCmd.Flags().StringSliceVar(&picksAlgorithms, "algorithms", nil, "알고리즘 목록 (기본: strategy picks.algorithms, 비어 있으면 전체)")
}

func runPicks(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	algorithms := picksAlgorithms
	if len(algorithms) == 0 {
		algorithms = a.strategy.Picks.Algorithms
	}

	result, err := a.brain.RunPicks(ctx, algorithms)
	if err != nil {
		return fmt.Errorf("picks run: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s (%s regime): %d symbols, %d fetched, %d scores → %d picks in %s\n",
		result.RunID, result.Regime, result.Symbols, result.Fetched, result.Scores,
		result.Artifact.TotalPicks, result.Duration.Round(time.Millisecond))
	for i, p := range result.Artifact.Stocks {
		fmt.Fprintf(out, "%2d. %-6s %-11s %6.2f  %-3s  %s\n",
			i+1, p.Symbol, p.Rating, p.Score.Score, p.Timeframe, p.Algorithm)
	}
	return nil
}

package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/s0_data/collector"
	"github.com/wonny/aegis-quant/internal/s0_data/quality"
)

// dataCmd represents the data command
var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "시세 데이터 수집/검증",
}

var (
	dataCollectCmd = &cobra.Command{
		Use:   "collect [list]",
		Short: "유니버스 시세 수집 + 품질 게이트",
		Long: `유니버스 종목의 일봉을 수집해 캐시/아카이브를 채우고 품질 게이트를 실행합니다.
리스트를 지정하지 않으면 전체 유니버스.

Example:
  go run ./cmd/quant data collect
  go run ./cmd/quant data collect growth --workers 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDataCollect,
	}

	collectWorkers int
)

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataCollectCmd)

	dataCollectCmd.Flags().IntVar(&collectWorkers, "workers", 4, "동시 수집 워커 수")
}

func runDataCollect(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	u := a.universe.All()
	if len(args) == 1 && args[0] != "all" {
		if u, err = a.universe.List(args[0]); err != nil {
			return err
		}
	}

	results := collector.NewCollector(a.fetcher, a.log).Collect(ctx, u.Stocks, collector.Config{Workers: collectWorkers})
	snaps := collector.Snapshots(results)

	out := cmd.OutOrStdout()
	for _, r := range results {
		if r.Error != nil {
			fmt.Fprintf(out, "✗ %-6s %v\n", r.Symbol, r.Error)
		}
	}

	snapshot := quality.NewQualityGate(a.strategy.QualityConfig()).Check(snaps, time.Now())
	if a.db != nil {
		if err := quality.NewRepository(a.db.Pool).SaveSnapshot(ctx, snapshot); err != nil {
			return err
		}
	}
	printQuality(cmd, u, snapshot)

	if !snapshot.IsValid() && a.strategy.Quality.Enforce {
		return fmt.Errorf("quality gate failed: score=%.2f", snapshot.QualityScore)
	}
	return nil
}

func printQuality(cmd *cobra.Command, u *contracts.Universe, s *contracts.DataQualitySnapshot) {
	out := cmd.OutOrStdout()
	status := "PASS"
	if !s.Passed {
		status = "FAIL"
	}
	fmt.Fprintf(out, "%s: %d/%d valid, quality %.2f [%s]\n", u.Name, s.ValidStocks, s.TotalStocks, s.QualityScore, status)
	for _, key := range []string{
		contracts.CoverageHistory,
		contracts.CoverageVolume,
		contracts.CoverageFreshness,
		contracts.CoverageFundamentals,
	} {
		fmt.Fprintf(out, "  %-13s %5.1f%%\n", key, s.Coverage[key]*100)
	}
	for sym, issue := range s.Issues {
		fmt.Fprintf(out, "  %-6s %s\n", sym, issue)
	}
}

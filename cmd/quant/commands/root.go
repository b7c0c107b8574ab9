package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyPath string
	env          string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quant",
	Short: "Aegis Quant - 미국 주식 스코어링/백테스트 엔진",
	Long: `Aegis Quant Unified CLI

여섯 가지 스코어링 알고리즘으로 일일 픽을 만들고,
같은 스코어러로 백테스트와 급락 구간 감사를 실행합니다.

Usage:
  go run ./cmd/quant [command]

Examples:
  go run ./cmd/quant score AAPL canslim
  go run ./cmd/quant picks run
  go run ./cmd/quant backtest run --algorithms canslim,alpha_predator
  go run ./cmd/quant audit stress
  go run ./cmd/quant api`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&strategyPath, "strategy", "", "strategy YAML (default: STRATEGY_CONFIG or built-in)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

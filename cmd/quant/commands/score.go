package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/aegis-quant/internal/contracts"
)

// scoreCmd scores one symbol and prints exactly one JSON object
var scoreCmd = &cobra.Command{
	Use:   "score <symbol> <algorithm> [timeframe]",
	Short: "단일 종목 스코어링 (JSON 출력)",
	Long: `한 종목을 한 알고리즘으로 스코어링합니다.

stdout에는 Score 또는 {"error": "..."} JSON 객체 하나만 출력되고,
로그는 stderr로 나갑니다. 오류 시 종료 코드 1.

Algorithms:
  canslim, technical_momentum, composite_rating,
  penny_sniper, value_sleeper, alpha_predator

Example:
  go run ./cmd/quant score AAPL canslim
  go run ./cmd/quant score NVDA technical_momentum 3d`,
	Args: cobra.ArbitraryArgs, // 인자 오류도 JSON으로 출력
	RunE: func(cmd *cobra.Command, args []string) error {
		code := runScore(cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
		if code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

// runScore returns the process exit code; every path writes one JSON object to out
func runScore(out, logOut io.Writer, args []string) int {
	if len(args) < 2 || len(args) > 3 {
		return writeScoreError(out, fmt.Errorf("usage: score <symbol> <algorithm> [timeframe], got %d args", len(args)))
	}

	symbol := strings.ToUpper(strings.TrimSpace(args[0]))
	algorithm := args[1]
	var tf contracts.Timeframe
	if len(args) == 3 {
		tf = contracts.Timeframe(args[2])
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, logOut)
	if err != nil {
		return writeScoreError(out, err)
	}
	defer a.Close()

	score, err := a.brain.ScoreSymbol(ctx, symbol, algorithm, tf)
	if err != nil {
		return writeScoreError(out, err)
	}

	if err := json.NewEncoder(out).Encode(score); err != nil {
		return 1
	}
	return 0
}

func writeScoreError(out io.Writer, err error) int {
	json.NewEncoder(out).Encode(map[string]string{"error": err.Error()})
	return 1
}

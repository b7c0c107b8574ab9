package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/aegis-quant/internal/api"
	"github.com/wonny/aegis-quant/internal/api/handlers"
	"github.com/wonny/aegis-quant/internal/s0_data/quality"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "REST API 서버 실행",
	Long: `퍼블리시된 아티팩트, 단일 종목 스코어, 유니버스 조회 API 서버를 실행합니다.

Endpoints:
  GET /health
  GET /metrics
  GET /api/picks/latest
  GET /api/backtest/latest
  GET /api/stress/latest
  GET /api/data/quality
  GET /api/score/{symbol}/{algorithm}?timeframe=1d
  GET /api/universe
  GET /api/universe/{name}`,
	RunE: runAPI,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "리슨 포트 (기본: PORT 환경변수)")
}

func runAPI(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	// DB 없으면 /api/data/quality 는 503
	var qualityReader handlers.QualityReader
	if a.db != nil {
		qualityReader = quality.NewRepository(a.db.Pool)
	}

	router := api.NewRouter(api.Handlers{
		Artifacts: handlers.NewArtifactHandler(a.writer, qualityReader, a.log),
		Score:     handlers.NewScoreHandler(a.brain, a.log),
		Universe:  handlers.NewUniverseHandler(a.universe),
	}, a.metrics, a.log)

	return api.New(a.cfg, a.log, router).Run(ctx)
}

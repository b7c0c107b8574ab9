package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/wonny/aegis-quant/internal/audit"
	"github.com/wonny/aegis-quant/internal/backtest"
	"github.com/wonny/aegis-quant/internal/brain"
	"github.com/wonny/aegis-quant/internal/external/finviz"
	"github.com/wonny/aegis-quant/internal/external/yahoo"
	"github.com/wonny/aegis-quant/internal/publish"
	"github.com/wonny/aegis-quant/internal/regime"
	"github.com/wonny/aegis-quant/internal/s0_data"
	"github.com/wonny/aegis-quant/internal/s0_data/quality"
	"github.com/wonny/aegis-quant/internal/s1_universe"
	"github.com/wonny/aegis-quant/internal/scoring"
	"github.com/wonny/aegis-quant/internal/selection"
	"github.com/wonny/aegis-quant/internal/strategyconfig"
	"github.com/wonny/aegis-quant/pkg/config"
	"github.com/wonny/aegis-quant/pkg/database"
	"github.com/wonny/aegis-quant/pkg/httputil"
	"github.com/wonny/aegis-quant/pkg/logger"
	"github.com/wonny/aegis-quant/pkg/metrics"
	"github.com/wonny/aegis-quant/pkg/redis"
)

// app wires every component from environment + strategy config
// ⭐ SSOT: 의존성 조립은 여기서만
type app struct {
	cfg          *config.Config
	log          *logger.Logger
	strategy     *strategyconfig.Config
	strategyYAML []byte
	metrics      *metrics.Registry

	db    *database.DB // nil when DB_ENABLED=false
	redis *redis.Client

	fetcher  *s0_data.Fetcher
	universe *s1_universe.Manager
	detector *regime.Detector
	writer   *publish.FileWriter
	brain    *brain.Orchestrator
}

// newApp builds the app; logs go to logOut so stdout can stay machine-readable
func newApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if strategyPath != "" {
		cfg.StrategyConfig = strategyPath
	}

	log := logger.NewWithWriter(cfg, logOut)

	strat, yamlData, err := strategyconfig.LoadOrDefault(cfg.StrategyConfig)
	if err != nil {
		return nil, fmt.Errorf("load strategy: %w", err)
	}
	if cfg.StrategyConfig == "" {
		strat.Regime.Benchmark = cfg.BenchmarkSymbol
	}
	for _, w := range strategyconfig.Warn(strat) {
		log.WithFields(map[string]interface{}{
			"code":    w.Code,
			"message": w.Message,
		}).Warn("Strategy config warning")
	}

	a := &app{
		cfg:          cfg,
		log:          log,
		strategy:     strat,
		strategyYAML: yamlData,
		metrics:      metrics.New(),
	}

	if err := a.connect(ctx); err != nil {
		a.Close()
		return nil, err
	}
	a.wire()
	return a, nil
}

// connect opens the optional Redis and PostgreSQL connections
func (a *app) connect(ctx context.Context) error {
	rc, err := redis.New(a.cfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	a.redis = rc

	if !a.cfg.Database.Enabled {
		return nil
	}
	db, err := database.New(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	a.db = db
	if err := db.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (a *app) wire() {
	cfg, strat, log := a.cfg, a.strategy, a.log

	// 소스별 HTTP 클라이언트 + 프로세스 간 공유 레이트 리밋
	limiter := redis.NewRateLimiter(a.redis, "quant")
	newHTTP := func(limit redis.RateLimitConfig) *httputil.Client {
		c := httputil.New(cfg, log)
		if a.redis.Enabled() {
			c.WithRateLimiter(limiter, limit)
		}
		return c
	}

	// nil 인터페이스 유지를 위해 조건부 할당
	var fundamentals s0_data.FundamentalsSource
	if cfg.Finviz.Enabled {
		fundamentals = finviz.NewClient(newHTTP(redis.FinvizRateLimit), cfg.Finviz.BaseURL, log)
	}
	charts := yahoo.NewClient(newHTTP(redis.YahooRateLimit), cfg.Yahoo.BaseURL, cfg.Yahoo.Range, log)

	a.fetcher = s0_data.NewFetcher(charts, fundamentals, cfg.Fetch, log).WithMetrics(a.metrics)
	if a.redis.Enabled() {
		a.fetcher.WithCache(redis.NewCache(a.redis, "quant"))
	}
	if a.db != nil {
		a.fetcher.WithArchive(s0_data.NewBarRepository(a.db.Pool))
	}

	a.universe = s1_universe.NewManager(s1_universe.Config{ExcludeSymbols: strat.Universe.ExcludeSymbols})
	a.detector = regime.NewDetector(a.fetcher, strat.Regime.Benchmark, strat.Regime.MAPeriod, log)
	a.writer = publish.NewFileWriter(cfg.Output, log)

	a.brain = brain.NewOrchestrator(
		a.fetcher,
		a.detector,
		a.universe,
		scoring.NewEngine(nil, log),
		selection.NewRanker(strat.RankerConfig(), log),
		a.writer,
		log,
	).WithMetrics(a.metrics).WithResearch(&brain.Research{
		Simulator:  backtest.NewSimulator(strat.BacktestConfig(), log),
		Auditor:    audit.NewAuditor(strat.StressConfig(), log),
		Benchmark:  strat.Regime.Benchmark,
		Thresholds: strat.Backtest.Thresholds,
	})

	gate := quality.NewQualityGate(strat.QualityConfig())
	if a.db != nil {
		a.brain.WithQualityGate(gate, quality.NewRepository(a.db.Pool), strat.Quality.Enforce).
			WithPickRepository(selection.NewRepository(a.db.Pool)).
			WithRunRepository(audit.NewRepository(a.db.Pool))
	} else {
		a.brain.WithQualityGate(gate, nil, strat.Quality.Enforce)
	}
}

// Close releases connections
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	a.redis.Close()
}

// signalContext is cancelled on SIGINT/SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

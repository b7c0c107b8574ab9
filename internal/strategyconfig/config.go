package strategyconfig

import (
	"time"

	"github.com/wonny/aegis-quant/internal/audit"
	"github.com/wonny/aegis-quant/internal/backtest"
	"github.com/wonny/aegis-quant/internal/s0_data/quality"
	"github.com/wonny/aegis-quant/internal/selection"
)

// Config는 스코어링/백테스트 전략의 전체 설정
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Regime    Regime    `yaml:"regime" json:"regime"`
	Universe  Universe  `yaml:"universe" json:"universe"`
	Picks     Picks     `yaml:"picks" json:"picks"`
	Backtest  Backtest  `yaml:"backtest" json:"backtest"`
	Stress    Stress    `yaml:"stress" json:"stress"`
	Quality   Quality   `yaml:"quality" json:"quality"`
	Scheduler Scheduler `yaml:"scheduler" json:"scheduler"`
}

// Meta 메타 정보
type Meta struct {
	StrategyID        string `yaml:"strategy_id" json:"strategy_id"`
	Version           string `yaml:"version" json:"version"`
	Timezone          string `yaml:"timezone" json:"timezone"`
	DecisionTimeLocal string `yaml:"decision_time_local" json:"decision_time_local"` // HH:MM
}

// Regime 시장 국면 판별
type Regime struct {
	Benchmark string `yaml:"benchmark" json:"benchmark"`
	MAPeriod  int    `yaml:"ma_period" json:"ma_period"`
}

// Universe 유니버스 필터
type Universe struct {
	ExcludeSymbols []string `yaml:"exclude_symbols" json:"exclude_symbols"`
}

// Picks 일일 픽 생성
type Picks struct {
	Algorithms     []string `yaml:"algorithms" json:"algorithms"` // 비어 있으면 전체
	MinScore       float64  `yaml:"min_score" json:"min_score"`
	ActionableOnly bool     `yaml:"actionable_only" json:"actionable_only"`
	TopN           int      `yaml:"top_n" json:"top_n"`
	SlippageBps    float64  `yaml:"slippage_bps" json:"slippage_bps"`
}

// Backtest 백테스트 리플레이
type Backtest struct {
	Algorithms []string  `yaml:"algorithms" json:"algorithms"`
	Thresholds []float64 `yaml:"thresholds" json:"thresholds"`
	Stride     int       `yaml:"stride" json:"stride"`
	Lookback   int       `yaml:"lookback" json:"lookback"`
	Horizon    int       `yaml:"horizon" json:"horizon"`
	Workers    int       `yaml:"workers" json:"workers"`
}

// Stress 급락 구간 감사
type Stress struct {
	Window      int     `yaml:"window" json:"window"`
	DropPct     float64 `yaml:"drop_pct" json:"drop_pct"`
	SignalFloor float64 `yaml:"signal_floor" json:"signal_floor"`
	MAEBars     int     `yaml:"mae_bars" json:"mae_bars"`
	ForwardBars int     `yaml:"forward_bars" json:"forward_bars"`
	Workers     int     `yaml:"workers" json:"workers"`
}

// Quality 데이터 품질 게이트
type Quality struct {
	MinHistoryBars       int           `yaml:"min_history_bars" json:"min_history_bars"`
	MaxStaleness         time.Duration `yaml:"max_staleness" json:"max_staleness"`
	MinHistoryCoverage   float64       `yaml:"min_history_coverage" json:"min_history_coverage"`
	MinVolumeCoverage    float64       `yaml:"min_volume_coverage" json:"min_volume_coverage"`
	MinFreshnessCoverage float64       `yaml:"min_freshness_coverage" json:"min_freshness_coverage"`
	MinQualityScore      float64       `yaml:"min_quality_score" json:"min_quality_score"`
	Enforce              bool          `yaml:"enforce" json:"enforce"` // 실패 시 실행 중단
}

// Scheduler 크론 스케줄
type Scheduler struct {
	DailyPicksCron     string `yaml:"daily_picks_cron" json:"daily_picks_cron"`
	WeeklyBacktestCron string `yaml:"weekly_backtest_cron" json:"weekly_backtest_cron"`
	MaxRetries         int    `yaml:"max_retries" json:"max_retries"`
}

// Default mirrors config/strategy/us_equity_v1.yaml
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID:        "us_equity_v1",
			Version:           "1.0.0",
			Timezone:          "America/New_York",
			DecisionTimeLocal: "16:30",
		},
		Regime: Regime{
			Benchmark: "SPY",
			MAPeriod:  200,
		},
		Universe: Universe{
			ExcludeSymbols: []string{},
		},
		Picks: Picks{
			Algorithms:  []string{},
			MinScore:    selection.DefaultMinScore,
			TopN:        selection.MaxPicks,
			SlippageBps: selection.DefaultSlippageBps,
		},
		Backtest: Backtest{
			Algorithms: []string{},
			Thresholds: []float64{50, 60, 70, 80},
			Stride:     backtest.DefaultStride,
			Lookback:   backtest.DefaultLookback,
			Horizon:    backtest.DefaultHorizon,
			Workers:    4,
		},
		Stress: Stress{
			Window:      5,
			DropPct:     -3,
			SignalFloor: 50,
			MAEBars:     5,
			ForwardBars: 10,
			Workers:     4,
		},
		Quality: Quality{
			MinHistoryBars:       200,
			MaxStaleness:         120 * time.Hour,
			MinHistoryCoverage:   0.80,
			MinVolumeCoverage:    0.90,
			MinFreshnessCoverage: 0.90,
			MinQualityScore:      0.70,
			Enforce:              false,
		},
		Scheduler: Scheduler{
			DailyPicksCron:     "30 16 * * 1-5",
			WeeklyBacktestCron: "0 10 * * 6",
			MaxRetries:         3,
		},
	}
}

// RankerConfig converts the picks section
func (c *Config) RankerConfig() selection.RankerConfig {
	return selection.RankerConfig{
		MinScore:       c.Picks.MinScore,
		ActionableOnly: c.Picks.ActionableOnly,
		TopN:           c.Picks.TopN,
		SlippageBps:    c.Picks.SlippageBps,
	}
}

// BacktestConfig converts the backtest section
func (c *Config) BacktestConfig() backtest.Config {
	return backtest.Config{
		Stride:   c.Backtest.Stride,
		Lookback: c.Backtest.Lookback,
		Horizon:  c.Backtest.Horizon,
		Workers:  c.Backtest.Workers,
	}
}

// StressConfig converts the stress section
func (c *Config) StressConfig() audit.Config {
	return audit.Config{
		Window:      c.Stress.Window,
		DropPct:     c.Stress.DropPct,
		SignalFloor: c.Stress.SignalFloor,
		MAEBars:     c.Stress.MAEBars,
		ForwardBars: c.Stress.ForwardBars,
		Workers:     c.Stress.Workers,
	}
}

// QualityConfig converts the quality section
func (c *Config) QualityConfig() quality.Config {
	return quality.Config{
		MinHistoryBars:       c.Quality.MinHistoryBars,
		MaxStaleness:         c.Quality.MaxStaleness,
		MinHistoryCoverage:   c.Quality.MinHistoryCoverage,
		MinVolumeCoverage:    c.Quality.MinVolumeCoverage,
		MinFreshnessCoverage: c.Quality.MinFreshnessCoverage,
		MinQualityScore:      c.Quality.MinQualityScore,
	}
}

// DecisionSnapshot 의사결정 스냅샷 (재현성용)
type DecisionSnapshot struct {
	ConfigHash     string    `json:"config_hash"`
	ConfigYAML     string    `json:"config_yaml"`
	StrategyID     string    `json:"strategy_id"`
	GitCommit      string    `json:"git_commit"`
	DataSnapshotID string    `json:"data_snapshot_id"`
	CreatedAt      time.Time `json:"created_at"`
}

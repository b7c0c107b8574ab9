package strategyconfig

import (
	"errors"
	"fmt"
	"regexp"
	"time"
	_ "time/tzdata" // 최소 컨테이너에서도 timezone 검증

	"github.com/robfig/cron/v3"

	"github.com/wonny/aegis-quant/internal/scoring"
	"github.com/wonny/aegis-quant/internal/selection"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

var hhmmPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}
	if err := validateHHMM(cfg.Meta.DecisionTimeLocal); err != nil {
		return ValidationError{"meta.decision_time_local", err.Error()}
	}
	if cfg.Meta.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Meta.Timezone); err != nil {
			return ValidationError{"meta.timezone", err.Error()}
		}
	}

	// === Regime ===
	if cfg.Regime.Benchmark == "" {
		return ValidationError{"regime.benchmark", "required"}
	}
	if cfg.Regime.MAPeriod < 1 {
		return ValidationError{"regime.ma_period", "must be >= 1"}
	}

	// === Picks ===
	if err := validateAlgorithms(cfg.Picks.Algorithms, "picks.algorithms"); err != nil {
		return err
	}
	if err := validateScoreRange(cfg.Picks.MinScore, "picks.min_score"); err != nil {
		return err
	}
	if cfg.Picks.TopN < 1 || cfg.Picks.TopN > selection.MaxPicks {
		return ValidationError{"picks.top_n", fmt.Sprintf("must be in [1, %d]", selection.MaxPicks)}
	}
	if cfg.Picks.SlippageBps < 0 || cfg.Picks.SlippageBps > 500 {
		return ValidationError{"picks.slippage_bps", "must be in [0, 500]"}
	}

	// === Backtest ===
	b := cfg.Backtest
	if err := validateAlgorithms(b.Algorithms, "backtest.algorithms"); err != nil {
		return err
	}
	if len(b.Thresholds) == 0 {
		return ValidationError{"backtest.thresholds", "must not be empty"}
	}
	for i, th := range b.Thresholds {
		field := fmt.Sprintf("backtest.thresholds[%d]", i)
		if err := validateScoreRange(th, field); err != nil {
			return err
		}
		if i > 0 && th <= b.Thresholds[i-1] {
			return ValidationError{field, "thresholds must be strictly increasing"}
		}
	}
	if b.Stride < 1 {
		return ValidationError{"backtest.stride", "must be >= 1"}
	}
	if b.Horizon < 1 {
		return ValidationError{"backtest.horizon", "must be >= 1"}
	}
	if b.Lookback <= b.Horizon {
		return ValidationError{"backtest.lookback", "must be > horizon"}
	}
	if b.Workers < 1 {
		return ValidationError{"backtest.workers", "must be >= 1"}
	}

	// === Stress ===
	s := cfg.Stress
	if s.Window < 1 {
		return ValidationError{"stress.window", "must be >= 1"}
	}
	if s.DropPct >= 0 {
		return ValidationError{"stress.drop_pct", "must be negative"}
	}
	if err := validateScoreRange(s.SignalFloor, "stress.signal_floor"); err != nil {
		return err
	}
	if s.MAEBars < 1 || s.ForwardBars < 1 {
		return ValidationError{"stress", "mae_bars and forward_bars must be >= 1"}
	}
	if s.MAEBars > s.ForwardBars {
		return ValidationError{"stress.mae_bars", "must be <= forward_bars"}
	}
	if s.Workers < 1 {
		return ValidationError{"stress.workers", "must be >= 1"}
	}

	// === Quality ===
	q := cfg.Quality
	if q.MinHistoryBars < 1 {
		return ValidationError{"quality.min_history_bars", "must be >= 1"}
	}
	if q.MaxStaleness < 0 {
		return ValidationError{"quality.max_staleness", "must be >= 0"}
	}
	for field, pct := range map[string]float64{
		"quality.min_history_coverage":   q.MinHistoryCoverage,
		"quality.min_volume_coverage":    q.MinVolumeCoverage,
		"quality.min_freshness_coverage": q.MinFreshnessCoverage,
		"quality.min_quality_score":      q.MinQualityScore,
	} {
		if err := validatePctRange(pct, field); err != nil {
			return err
		}
	}

	// === Scheduler ===
	if err := validateCron(cfg.Scheduler.DailyPicksCron); err != nil {
		return ValidationError{"scheduler.daily_picks_cron", err.Error()}
	}
	if cfg.Scheduler.WeeklyBacktestCron != "" {
		if err := validateCron(cfg.Scheduler.WeeklyBacktestCron); err != nil {
			return ValidationError{"scheduler.weekly_backtest_cron", err.Error()}
		}
	}
	if cfg.Scheduler.MaxRetries < 0 {
		return ValidationError{"scheduler.max_retries", "must be >= 0"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	// 슬리피지 낙관적 가정 경고
	if cfg.Picks.SlippageBps < 10 {
		warnings = append(warnings, Warning{
			Code:    "OPTIMISTIC_SLIPPAGE",
			Message: "slippage < 10bps: simulated entries may be optimistic",
		})
	}

	// 게이트보다 낮은 백테스트 임계값
	for _, th := range cfg.Backtest.Thresholds {
		if th < cfg.Picks.MinScore {
			warnings = append(warnings, Warning{
				Code:    "THRESHOLD_BELOW_GATE",
				Message: fmt.Sprintf("backtest threshold %.0f is below picks.min_score %.0f", th, cfg.Picks.MinScore),
			})
			break
		}
	}

	if cfg.Backtest.Stride == 1 {
		warnings = append(warnings, Warning{
			Code:    "SLOW_BACKTEST",
			Message: "stride 1 re-scores every bar",
		})
	}

	if !cfg.Quality.Enforce {
		warnings = append(warnings, Warning{
			Code:    "QUALITY_NOT_ENFORCED",
			Message: "quality gate failures are logged but do not stop the run",
		})
	}

	return warnings
}

// === Helper Functions ===

func validateHHMM(s string) error {
	if !hhmmPattern.MatchString(s) {
		return errors.New("must be HH:MM format")
	}
	_, err := time.Parse("15:04", s)
	return err
}

func validateCron(spec string) error {
	if spec == "" {
		return errors.New("required")
	}
	_, err := cron.ParseStandard(spec)
	return err
}

func validateAlgorithms(names []string, field string) error {
	for i, name := range names {
		if _, err := scoring.Lookup(name); err != nil {
			return ValidationError{fmt.Sprintf("%s[%d]", field, i), err.Error()}
		}
	}
	return nil
}

// validateScoreRange는 점수 값이 0~100 범위인지 검증
func validateScoreRange(v float64, field string) error {
	if v < 0 || v > 100 {
		return ValidationError{field, "must be in range [0, 100]"}
	}
	return nil
}

// validatePctRange는 퍼센트 값이 0~1 범위인지 검증
func validatePctRange(pct float64, field string) error {
	if pct < 0 || pct > 1 {
		return ValidationError{field, "must be in range [0, 1]"}
	}
	return nil
}

package contracts

// Rating is the actionable recommendation tier
type Rating string

const (
	RatingStrongBuy Rating = "STRONG BUY"
	RatingBuy       Rating = "BUY"
	RatingHold      Rating = "HOLD"
	RatingSell      Rating = "SELL"
)

// Ordinal ranks ratings for sorting (STRONG BUY=3 ... SELL=0)
func (r Rating) Ordinal() int {
	switch r {
	case RatingStrongBuy:
		return 3
	case RatingBuy:
		return 2
	case RatingHold:
		return 1
	default:
		return 0
	}
}

// IsActionable reports STRONG BUY or BUY
func (r Rating) IsActionable() bool {
	return r == RatingStrongBuy || r == RatingBuy
}

// Risk is the shared four-level risk classification
type Risk string

const (
	RiskLow      Risk = "Low"
	RiskMedium   Risk = "Medium"
	RiskHigh     Risk = "High"
	RiskVeryHigh Risk = "Very High"
)

// Level returns 0 (Low) .. 3 (Very High)
func (r Risk) Level() int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	default:
		return 3
	}
}

// Timeframe is the holding horizon a score refers to
type Timeframe string

const (
	Timeframe24h Timeframe = "24h"
	Timeframe3d  Timeframe = "3d"
	Timeframe7d  Timeframe = "7d"
	Timeframe1m  Timeframe = "1m"
	Timeframe3m  Timeframe = "3m"
	Timeframe6m  Timeframe = "6m"
	Timeframe1y  Timeframe = "1y"
)

// Ordinal orders timeframes for dedup tie-breaks: 24h < 3d = 7d < 1m = 3m < 6m < 1y
func (t Timeframe) Ordinal() int {
	switch t {
	case Timeframe24h:
		return 0
	case Timeframe3d, Timeframe7d:
		return 1
	case Timeframe1m, Timeframe3m:
		return 2
	case Timeframe6m:
		return 3
	case Timeframe1y:
		return 4
	default:
		return -1
	}
}

// Score is one scorer's output for one symbol
// ⭐ SSOT: 스코어러 → 집계 단계 데이터 전달
type Score struct {
	Symbol        string      `json:"symbol"`
	Name          string      `json:"name"`
	Price         float64     `json:"price"`
	Change        float64     `json:"change"`
	ChangePercent float64     `json:"changePercent"`
	Rating        Rating      `json:"rating"`
	Timeframe     Timeframe   `json:"timeframe"`
	Algorithm     string      `json:"algorithm"`
	Score         float64     `json:"score"` // always within [0,100]
	Risk          Risk        `json:"risk"`
	StopLoss      float64     `json:"stopLoss,omitempty"`
	Indicators    ScoreDetail `json:"indicators"`

	// AllAlgorithms is set by aggregation when several algorithms fired for the symbol
	AllAlgorithms []string `json:"allAlgorithms,omitempty"`
}

// ScoreDetail is the per-algorithm indicator record attached to a Score
type ScoreDetail interface {
	Kind() string
}

// CanSlimDetail is reported by the CAN SLIM scorer
type CanSlimDetail struct {
	RawScore      float64 `json:"rawScore"`
	RSRating      float64 `json:"rsRating"`
	Stage2        bool    `json:"stage2"`
	PriceToHigh   float64 `json:"priceToHigh"`
	RSI           float64 `json:"rsi"`
	VolumeZScore  float64 `json:"volumeZScore"`
	VCP           bool    `json:"vcp"`
	Institutional bool    `json:"institutionalFootprint"`
	SMA200        float64 `json:"sma200"`
	ATR           float64 `json:"atr"`
}

func (CanSlimDetail) Kind() string { return "canslim" }

// MomentumDetail is reported by the technical momentum scorer
type MomentumDetail struct {
	RawScore         float64 `json:"rawScore"`
	VolumeZScore     float64 `json:"volumeZScore"`
	RSI              float64 `json:"rsi"`
	RSIZScore        float64 `json:"rsiZScore"`
	Breakout         bool    `json:"breakout"`
	BollingerWidth   float64 `json:"bollingerWidth"`
	BollingerSqueeze bool    `json:"bollingerSqueeze"`
	ATR              float64 `json:"atr"`
}

func (MomentumDetail) Kind() string { return "technical_momentum" }

// CompositeDetail is reported by the composite rating scorer
type CompositeDetail struct {
	RawScore     float64          `json:"rawScore"`
	RSI          float64          `json:"rsi"`
	SMA50        float64          `json:"sma50"`
	SMA200       float64          `json:"sma200"`
	VolumeZScore float64          `json:"volumeZScore"`
	YTD          float64          `json:"ytd"`
	Regime       VolatilityRegime `json:"regime"`
	BearCapped   bool             `json:"bearCapped"`
}

func (CompositeDetail) Kind() string { return "composite_rating" }

// PennyDetail is reported by the penny sniper scorer
type PennyDetail struct {
	RawScore     float64 `json:"rawScore"`
	VolumeZScore float64 `json:"volumeZScore"`
	SMA5         float64 `json:"sma5"`
	SMA20        float64 `json:"sma20"`
	SMA50        float64 `json:"sma50"`
	LowFloat     string  `json:"lowFloat"` // "full", "proxy" or ""
}

func (PennyDetail) Kind() string { return "penny_sniper" }

// ValueDetail is reported by the value sleeper scorer
type ValueDetail struct {
	RawScore      float64 `json:"rawScore"`
	PE            float64 `json:"pe"`
	ROE           float64 `json:"roe"`
	DebtRatio     float64 `json:"debtRatio"`
	RangePosition float64 `json:"rangePosition"`
	SMA200        float64 `json:"sma200"`
}

func (ValueDetail) Kind() string { return "value_sleeper" }

// AlphaDetail is reported by the alpha predator scorer
type AlphaDetail struct {
	RawScore          float64 `json:"rawScore"`
	ADX               float64 `json:"adx"`
	RSI               float64 `json:"rsi"`
	AwesomeOscillator float64 `json:"awesomeOscillator"`
	VCP               bool    `json:"vcp"`
	Institutional     bool    `json:"institutionalFootprint"`
	SMA50             float64 `json:"sma50"`
}

func (AlphaDetail) Kind() string { return "alpha_predator" }

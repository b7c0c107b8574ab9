package contracts

// VolatilityRegime is the per-stock regime label derived from relative volatility and trend
type VolatilityRegime string

const (
	VolatilityStress  VolatilityRegime = "stress"
	VolatilityBull    VolatilityRegime = "bull"
	VolatilityNeutral VolatilityRegime = "neutral"
)

// IndicatorBundle holds every derived indicator for one snapshot
// ⭐ SSOT: S2 → 스코어러 지표 묶음 (스냅샷당 1회 계산)
type IndicatorBundle struct {
	RSI       float64 `json:"rsi"`
	RSIZScore float64 `json:"rsiZScore"`

	SMA5   float64 `json:"sma5"`
	SMA10  float64 `json:"sma10"`
	SMA20  float64 `json:"sma20"`
	SMA50  float64 `json:"sma50"`
	SMA200 float64 `json:"sma200"`

	ATR              float64 `json:"atr"`
	BollingerWidth   float64 `json:"bollingerWidth"`
	BollingerSqueeze bool    `json:"bollingerSqueeze"`

	VolumeZScore float64 `json:"volumeZScore"`

	RSRating      float64 `json:"rsRating"`
	Stage2        bool    `json:"stage2"`
	Breakout      bool    `json:"breakout"`
	VCP           bool    `json:"vcp"`
	Institutional bool    `json:"institutionalFootprint"` // price > 63-day VWAP
	VWAP63        float64 `json:"vwap63"`

	ADX               float64 `json:"adx"`
	AwesomeOscillator float64 `json:"awesomeOscillator"`

	YTD float64 `json:"ytd"`
	MTD float64 `json:"mtd"`

	High52Week float64          `json:"high52Week"`
	Low52Week  float64          `json:"low52Week"`
	Regime     VolatilityRegime `json:"regime"`
}

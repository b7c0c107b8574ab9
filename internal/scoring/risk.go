package scoring

import (
	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/indicators"
)

// Risk tiers keyed off market cap and price level.
// ⭐ SSOT: 리스크 등급 기준 (모든 전략 공통)
const (
	microCapCeiling = 300e6
	smallCapCeiling = 2e9
	midCapCeiling   = 10e9

	subDollarPrice = 1.0
	lowPrice       = 5.0
)

// classifyRisk maps price and market cap to a risk level, never below floor.
// Unknown market cap (0) starts from Medium.
func classifyRisk(price, marketCap float64, floor contracts.Risk) contracts.Risk {
	known := marketCap > 0

	var risk contracts.Risk
	switch {
	case price < subDollarPrice || (known && marketCap < microCapCeiling):
		risk = contracts.RiskVeryHigh
	case price < lowPrice || (known && marketCap < smallCapCeiling):
		risk = contracts.RiskHigh
	case !known || marketCap < midCapCeiling:
		risk = contracts.RiskMedium
	default:
		risk = contracts.RiskLow
	}

	if floor.Level() > risk.Level() {
		return floor
	}
	return risk
}

// stopLoss is price - k*ATR; 0 (omitted) when ATR is unknown or the stop would be negative
func stopLoss(price, atr, k float64) float64 {
	if atr <= 0 {
		return 0
	}
	sl := price - k*atr
	if sl <= 0 {
		return 0
	}
	return indicators.Round2(sl)
}

package scoring

import (
	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/indicators"
)

// valueRules is the value sleeper constant table
// ⭐ SSOT: 가치주 필터/가중치
var valueRules = struct {
	MinMarketCap float64
	MinPE        float64
	MaxPE        float64
	ROEMin       float64 // percent
	ROEBonus     float64
	DebtMax      float64
	DebtBonus    float64
	DebtPercent  float64 // ratios above this are percentages
	RangeTiers   []tier  // position in 52-week range, lower is better
	AboveSMA200  float64
	Ratings      thresholds
	StopK        float64
	RiskFloor    contracts.Risk
}{
	MinMarketCap: 1e9,
	MinPE:        2,
	MaxPE:        20,
	ROEMin:       15,
	ROEBonus:     30,
	DebtMax:      0.8,
	DebtBonus:    10,
	DebtPercent:  10,
	RangeTiers:   []tier{{0.2, 30}, {0.4, 15}},
	AboveSMA200:  20,
	Ratings:      thresholds{StrongBuy: 70, Buy: 50, Sell: 0},
	StopK:        3,
	RiskFloor:    contracts.RiskLow,
}

// ValueSleeper looks for profitable, cheap large caps near the bottom of
// their yearly range. Only STRONG BUY and BUY are emitted.
type ValueSleeper struct{}

func (ValueSleeper) Name() string        { return "value_sleeper" }
func (ValueSleeper) DisplayName() string { return "Value Sleeper" }

func (ValueSleeper) Timeframes() []contracts.Timeframe {
	return []contracts.Timeframe{contracts.Timeframe3m}
}

func (v ValueSleeper) Score(in Input) *contracts.Score {
	b, snap := in.Bundle, in.Snapshot
	if b == nil || snap == nil {
		return nil
	}
	r := valueRules
	price := snap.Price

	if snap.MarketCap < r.MinMarketCap || snap.PE < r.MinPE || snap.PE > r.MaxPE {
		return nil
	}

	debt := normalizeDebtRatio(snap.DebtToEquity, r.DebtPercent)
	position := rangePosition(price, b.Low52Week, b.High52Week)

	raw := bonus(snap.ROE > r.ROEMin, r.ROEBonus)
	raw += bonus(debt > 0 && debt < r.DebtMax, r.DebtBonus)
	if position >= 0 {
		raw += rangePoints(position, r.RangeTiers)
	}
	raw += bonus(price > b.SMA200, r.AboveSMA200)

	score := clampScore(raw)
	rating := r.Ratings.classify(score)
	if !rating.IsActionable() {
		return nil
	}

	s := newScore(snap, v.Name())
	s.Score = score
	s.Rating = rating
	s.Timeframe = contracts.Timeframe3m
	s.Risk = classifyRisk(price, snap.MarketCap, r.RiskFloor)
	s.StopLoss = stopLoss(price, b.ATR, r.StopK)
	s.Indicators = contracts.ValueDetail{
		RawScore:      indicators.Round2(raw),
		PE:            indicators.Round2(snap.PE),
		ROE:           indicators.Round2(snap.ROE),
		DebtRatio:     indicators.Round2(debt),
		RangePosition: indicators.Round2(position),
		SMA200:        indicators.Round2(b.SMA200),
	}
	return s
}

// normalizeDebtRatio treats values above pctCutoff as percentages (150 -> 1.5)
func normalizeDebtRatio(ratio, pctCutoff float64) float64 {
	if ratio > pctCutoff {
		return ratio / 100
	}
	return ratio
}

// rangePosition is (price-low)/(high-low), or -1 when the range is degenerate
func rangePosition(price, low, high float64) float64 {
	if high <= low {
		return -1
	}
	return (price - low) / (high - low)
}

// rangePoints awards the first tier whose ceiling the position is within
func rangePoints(position float64, tiers []tier) float64 {
	for _, t := range tiers {
		if position <= t.Min {
			return t.Points
		}
	}
	return 0
}

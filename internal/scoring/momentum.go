package scoring

import (
	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/indicators"
)

// momentumTable is one timeframe's weight table.
// Bonus and malus branches may overshoot; the emitted score is clamped.
type momentumTable struct {
	VolumeZ     []tier // strict: Z > Min
	RSIZ        []tier // strict: Z > Min
	Breakout    float64
	Squeeze     float64
	RSIBandLow  float64
	RSIBandHigh float64
	RSIBand     float64
	Overbought  float64 // RSI above this ...
	OverMalus   float64 // ... subtracts this
	Stability   []tier  // market cap > Min
}

// momentumRules is the technical momentum constant table
// ⭐ SSOT: 기간별 모멘텀 가중치
var momentumRules = struct {
	Tables    map[contracts.Timeframe]momentumTable
	Ratings   thresholds
	StopK     float64
	RiskFloor contracts.Risk
}{
	Tables: map[contracts.Timeframe]momentumTable{
		// Intraday burst: volume + RSI acceleration + breakout
		contracts.Timeframe24h: {
			VolumeZ:    []tier{{2, 40}, {1, 20}},
			RSIZ:       []tier{{1.5, 30}, {0.5, 15}},
			Breakout:   30,
			Overbought: 80,
			OverMalus:  20,
		},
		// Swing: adds volatility compression
		contracts.Timeframe3d: {
			VolumeZ:  []tier{{1.5, 25}, {0.5, 10}},
			RSIZ:     []tier{{1, 25}},
			Breakout: 25,
			Squeeze:  25,
		},
		// Week: squeeze setup, healthy RSI, large-cap stability
		contracts.Timeframe7d: {
			VolumeZ:     []tier{{1, 10}},
			Breakout:    20,
			Squeeze:     30,
			RSIBandLow:  50,
			RSIBandHigh: 70,
			RSIBand:     20,
			Stability:   []tier{{10e9, 20}, {2e9, 10}},
		},
	},
	Ratings:   thresholds{StrongBuy: 75, Buy: 50, Sell: 30},
	StopK:     1.5,
	RiskFloor: contracts.RiskMedium,
}

// Momentum is the short-horizon technical momentum scorer
type Momentum struct{}

func (Momentum) Name() string        { return "technical_momentum" }
func (Momentum) DisplayName() string { return "Technical Momentum" }

func (Momentum) Timeframes() []contracts.Timeframe {
	return []contracts.Timeframe{contracts.Timeframe24h, contracts.Timeframe3d, contracts.Timeframe7d}
}

// Score evaluates one timeframe (24h when unset); every rating is returned
func (m Momentum) Score(in Input) *contracts.Score {
	b, snap := in.Bundle, in.Snapshot
	if b == nil || snap == nil {
		return nil
	}
	tf := in.Timeframe
	if tf == "" {
		tf = contracts.Timeframe24h
	}
	table, ok := momentumRules.Tables[tf]
	if !ok {
		return nil
	}

	raw := tierPointsAbove(b.VolumeZScore, table.VolumeZ)
	raw += tierPointsAbove(b.RSIZScore, table.RSIZ)
	raw += bonus(b.Breakout, table.Breakout)
	raw += bonus(b.BollingerSqueeze, table.Squeeze)
	if table.RSIBand > 0 {
		raw += bonus(between(b.RSI, table.RSIBandLow, table.RSIBandHigh), table.RSIBand)
	}
	if table.Overbought > 0 && b.RSI > table.Overbought {
		raw -= table.OverMalus
	}
	if snap.MarketCap > 0 {
		raw += tierPointsAbove(snap.MarketCap, table.Stability)
	}

	score := clampScore(raw)

	s := newScore(snap, m.Name())
	s.Score = score
	s.Rating = momentumRules.Ratings.classify(score)
	s.Timeframe = tf
	s.Risk = classifyRisk(snap.Price, snap.MarketCap, momentumRules.RiskFloor)
	s.StopLoss = stopLoss(snap.Price, b.ATR, momentumRules.StopK)
	s.Indicators = contracts.MomentumDetail{
		RawScore:         indicators.Round2(raw),
		VolumeZScore:     indicators.Round2(b.VolumeZScore),
		RSI:              b.RSI,
		RSIZScore:        indicators.Round2(b.RSIZScore),
		Breakout:         b.Breakout,
		BollingerWidth:   indicators.Round2(b.BollingerWidth),
		BollingerSqueeze: b.BollingerSqueeze,
		ATR:              indicators.Round2(b.ATR),
	}
	return s
}

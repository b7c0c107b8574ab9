package scoring

import (
	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/indicators"
)

// compositeRules is the composite rating constant table
// ⭐ SSOT: 종합 점수 가중치
var compositeRules = struct {
	AboveSMA50    float64
	AboveSMA200   float64
	RSILow        float64
	RSIHigh       float64
	RSIBonus      float64
	VolumeZ       []tier // strict
	PEMax         float64
	PEBonus       float64
	LargeCap      float64
	LargeCapBonus float64
	YTDMin        float64
	YTDBonus      float64
	RegimeBonus   map[contracts.VolatilityRegime]float64
	BearCap       float64
	Ratings       thresholds
	StopK         float64
	RiskFloor     contracts.Risk
}{
	AboveSMA50:    20,
	AboveSMA200:   10,
	RSILow:        40,
	RSIHigh:       70,
	RSIBonus:      10,
	VolumeZ:       []tier{{2, 20}, {1, 15}, {0, 10}},
	PEMax:         25,
	PEBonus:       10,
	LargeCap:      1e9,
	LargeCapBonus: 10,
	YTDMin:        10,
	YTDBonus:      10,
	RegimeBonus: map[contracts.VolatilityRegime]float64{
		contracts.VolatilityBull:    10,
		contracts.VolatilityNeutral: 5,
		contracts.VolatilityStress:  0,
	},
	BearCap:   40,
	Ratings:   thresholds{StrongBuy: 70, Buy: 50, Sell: 30},
	StopK:     2,
	RiskFloor: contracts.RiskLow,
}

// Composite blends trend, momentum, volume, fundamentals and the stock's
// volatility regime. A bearish market caps the score instead of penalizing it.
type Composite struct{}

func (Composite) Name() string        { return "composite_rating" }
func (Composite) DisplayName() string { return "Composite Rating" }

func (Composite) Timeframes() []contracts.Timeframe {
	return []contracts.Timeframe{contracts.Timeframe1m}
}

func (c Composite) Score(in Input) *contracts.Score {
	b, snap := in.Bundle, in.Snapshot
	if b == nil || snap == nil {
		return nil
	}
	r := compositeRules
	price := snap.Price

	raw := bonus(price >= b.SMA50, r.AboveSMA50)
	raw += bonus(price >= b.SMA200, r.AboveSMA200)
	raw += bonus(between(b.RSI, r.RSILow, r.RSIHigh), r.RSIBonus)
	raw += tierPointsAbove(b.VolumeZScore, r.VolumeZ)
	raw += bonus(snap.PE > 0 && snap.PE < r.PEMax, r.PEBonus)
	raw += bonus(snap.MarketCap > r.LargeCap, r.LargeCapBonus)
	raw += bonus(b.YTD > r.YTDMin, r.YTDBonus)
	raw += r.RegimeBonus[b.Regime]

	score := raw
	capped := false
	if in.Regime.IsBearish() && score > r.BearCap {
		score = r.BearCap
		capped = true
	}
	score = clampScore(score)

	s := newScore(snap, c.Name())
	s.Score = score
	s.Rating = r.Ratings.classify(score)
	s.Timeframe = contracts.Timeframe1m
	s.Risk = classifyRisk(price, snap.MarketCap, r.RiskFloor)
	s.StopLoss = stopLoss(price, b.ATR, r.StopK)
	s.Indicators = contracts.CompositeDetail{
		RawScore:     indicators.Round2(raw),
		RSI:          b.RSI,
		SMA50:        indicators.Round2(b.SMA50),
		SMA200:       indicators.Round2(b.SMA200),
		VolumeZScore: indicators.Round2(b.VolumeZScore),
		YTD:          indicators.Round2(b.YTD),
		Regime:       b.Regime,
		BearCapped:   capped,
	}
	return s
}

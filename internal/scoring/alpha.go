package scoring

import (
	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/indicators"
)

// alphaRules is the alpha predator constant table
// ⭐ SSOT: 알파 프레데터 가중치
var alphaRules = struct {
	ADX           []tier // strict
	RSILow        float64
	RSIHigh       float64
	RSIBonus      float64
	Oscillator    float64
	VCP           float64
	Institutional float64
	AboveSMA50    float64
	BearPenalty   float64
	Ratings       thresholds
	StopK         float64
	RiskFloor     contracts.Risk
}{
	ADX:           []tier{{25, 20}, {20, 10}},
	RSILow:        50,
	RSIHigh:       75,
	RSIBonus:      15,
	Oscillator:    15,
	VCP:           20,
	Institutional: 10,
	AboveSMA50:    10,
	BearPenalty:   30,
	Ratings:       thresholds{StrongBuy: 85, Buy: 65, Sell: 40},
	StopK:         2.5,
	RiskFloor:     contracts.RiskMedium,
}

// AlphaPredator combines trend strength with contraction and accumulation
// signals. SELL ratings are dropped; HOLD is still reported.
type AlphaPredator struct{}

func (AlphaPredator) Name() string        { return "alpha_predator" }
func (AlphaPredator) DisplayName() string { return "Alpha Predator" }

func (AlphaPredator) Timeframes() []contracts.Timeframe {
	return []contracts.Timeframe{contracts.Timeframe1m}
}

func (a AlphaPredator) Score(in Input) *contracts.Score {
	b, snap := in.Bundle, in.Snapshot
	if b == nil || snap == nil {
		return nil
	}
	r := alphaRules
	price := snap.Price

	raw := tierPointsAbove(b.ADX, r.ADX)
	raw += bonus(between(b.RSI, r.RSILow, r.RSIHigh), r.RSIBonus)
	raw += bonus(b.AwesomeOscillator > 0, r.Oscillator)
	raw += bonus(b.VCP, r.VCP)
	raw += bonus(b.Institutional, r.Institutional)
	raw += bonus(price > b.SMA50, r.AboveSMA50)
	if in.Regime.IsBearish() {
		raw -= r.BearPenalty
	}

	// Rating on the raw score, clamp only what is emitted
	rating := r.Ratings.classify(raw)
	if rating == contracts.RatingSell {
		return nil
	}

	s := newScore(snap, a.Name())
	s.Score = clampScore(raw)
	s.Rating = rating
	s.Timeframe = contracts.Timeframe1m
	s.Risk = classifyRisk(price, snap.MarketCap, r.RiskFloor)
	s.StopLoss = stopLoss(price, b.ATR, r.StopK)
	s.Indicators = contracts.AlphaDetail{
		RawScore:          indicators.Round2(raw),
		ADX:               b.ADX,
		RSI:               b.RSI,
		AwesomeOscillator: indicators.Round2(b.AwesomeOscillator),
		VCP:               b.VCP,
		Institutional:     b.Institutional,
		SMA50:             indicators.Round2(b.SMA50),
	}
	return s
}

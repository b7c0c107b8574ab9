package scoring

import (
	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/indicators"
)

// canSlimRules is the CAN SLIM constant table
// ⭐ SSOT: CAN SLIM 가중치/임계값
var canSlimRules = struct {
	RSTiers       []tier
	Stage2        float64
	HighTiers     []tier // price / 52-week high
	RSILow        float64
	RSIHigh       float64
	RSIBonus      float64
	VolumeZ       float64
	VolumeBonus   float64
	VCP           float64
	Institutional float64
	BearPenalty   float64
	Ratings       thresholds
	StopK         float64
	RiskFloor     contracts.Risk
}{
	RSTiers:       []tier{{90, 40}, {80, 30}, {70, 20}, {60, 10}},
	Stage2:        30,
	HighTiers:     []tier{{0.9, 20}, {0.8, 15}, {0.7, 10}, {0.5, 5}},
	RSILow:        50,
	RSIHigh:       70,
	RSIBonus:      10,
	VolumeZ:       2,
	VolumeBonus:   5,
	VCP:           20,
	Institutional: 10,
	BearPenalty:   30,
	Ratings:       thresholds{StrongBuy: 80, Buy: 60, Sell: 40},
	StopK:         2,
	RiskFloor:     contracts.RiskLow,
}

// CanSlim scores growth leaders: relative strength, stage-2 trend and
// proximity to the 52-week high. The timeframe is chosen by the scorer.
type CanSlim struct{}

func (CanSlim) Name() string        { return "canslim" }
func (CanSlim) DisplayName() string { return "CAN SLIM" }

func (CanSlim) Timeframes() []contracts.Timeframe {
	return []contracts.Timeframe{contracts.Timeframe3m, contracts.Timeframe6m, contracts.Timeframe1y}
}

// Score always returns a rating (SELL included) when the bundle exists
func (c CanSlim) Score(in Input) *contracts.Score {
	b, snap := in.Bundle, in.Snapshot
	if b == nil || snap == nil {
		return nil
	}
	r := canSlimRules
	price := snap.Price

	priceToHigh := 0.0
	if b.High52Week > 0 {
		priceToHigh = price / b.High52Week
	}

	raw := tierPoints(b.RSRating, r.RSTiers)
	raw += bonus(b.Stage2, r.Stage2)
	raw += tierPoints(priceToHigh, r.HighTiers)
	raw += bonus(between(b.RSI, r.RSILow, r.RSIHigh), r.RSIBonus)
	raw += bonus(b.VolumeZScore > r.VolumeZ, r.VolumeBonus)
	raw += bonus(b.VCP, r.VCP)
	raw += bonus(b.Institutional, r.Institutional)
	if in.Regime.IsBearish() {
		raw -= r.BearPenalty
	}

	// Rating uses the raw score; a trade below the 200-day line is never a buy
	aboveLongTrend := price >= b.SMA200
	var rating contracts.Rating
	switch {
	case raw < r.Ratings.Sell || !aboveLongTrend:
		rating = contracts.RatingSell
	case raw >= r.Ratings.StrongBuy:
		rating = contracts.RatingStrongBuy
	case raw >= r.Ratings.Buy:
		rating = contracts.RatingBuy
	default:
		rating = contracts.RatingHold
	}

	s := newScore(snap, c.Name())
	s.Score = clampScore(raw)
	s.Rating = rating
	s.Timeframe = canSlimTimeframe(b)
	s.Risk = classifyRisk(price, snap.MarketCap, r.RiskFloor)
	s.StopLoss = stopLoss(price, b.ATR, r.StopK)
	s.Indicators = contracts.CanSlimDetail{
		RawScore:      indicators.Round2(raw),
		RSRating:      b.RSRating,
		Stage2:        b.Stage2,
		PriceToHigh:   indicators.Round2(priceToHigh),
		RSI:           b.RSI,
		VolumeZScore:  indicators.Round2(b.VolumeZScore),
		VCP:           b.VCP,
		Institutional: b.Institutional,
		SMA200:        indicators.Round2(b.SMA200),
		ATR:           indicators.Round2(b.ATR),
	}
	return s
}

// canSlimTimeframe escalates the holding horizon for the strongest leaders
func canSlimTimeframe(b *contracts.IndicatorBundle) contracts.Timeframe {
	switch {
	case b.RSRating >= 95 && b.Stage2:
		return contracts.Timeframe1y
	case b.RSRating >= 85:
		return contracts.Timeframe6m
	default:
		return contracts.Timeframe3m
	}
}

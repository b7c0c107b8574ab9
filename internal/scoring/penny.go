package scoring

import (
	"math"

	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/indicators"
)

// pennyRules is the penny sniper constant table
// ⭐ SSOT: 페니 스나이퍼 필터/가중치
var pennyRules = struct {
	MinPrice        float64
	MaxPrice        float64
	MinVolume       float64
	VolumeZ         []tier // strict
	Crossover       float64
	AboveSMA50      float64
	FloatShares     float64 // shares outstanding below this = low float
	FloatBonus      float64
	ProxyCap        float64 // fallback: market cap below this
	ProxyFloatBonus float64
	Ratings         thresholds
	StopK           float64
	RiskFloor       contracts.Risk
}{
	MinPrice:        0.5,
	MaxPrice:        15,
	MinVolume:       500_000,
	VolumeZ:         []tier{{3, 30}, {1.5, 15}},
	Crossover:       30,
	AboveSMA50:      20,
	FloatShares:     20e6,
	FloatBonus:      20,
	ProxyCap:        1e9,
	ProxyFloatBonus: 10,
	Ratings:         thresholds{StrongBuy: 75, Buy: 50, Sell: 0},
	StopK:           1.5,
	RiskFloor:       contracts.RiskVeryHigh,
}

const (
	lowFloatFull  = "full"
	lowFloatProxy = "proxy"
)

// PennySniper hunts volume spikes in liquid low-priced stocks.
// Only STRONG BUY and BUY are emitted.
type PennySniper struct{}

func (PennySniper) Name() string        { return "penny_sniper" }
func (PennySniper) DisplayName() string { return "Penny Sniper" }

func (PennySniper) Timeframes() []contracts.Timeframe {
	return []contracts.Timeframe{contracts.Timeframe7d}
}

func (p PennySniper) Score(in Input) *contracts.Score {
	b, snap := in.Bundle, in.Snapshot
	if b == nil || snap == nil {
		return nil
	}
	r := pennyRules
	price := snap.Price

	// Hard filters reject outright
	if price < r.MinPrice || price > r.MaxPrice {
		return nil
	}
	if math.Max(snap.AvgVolume, snap.Volume) < r.MinVolume {
		return nil
	}

	raw := tierPointsAbove(b.VolumeZScore, r.VolumeZ)
	raw += bonus(b.SMA5 > b.SMA20, r.Crossover)
	raw += bonus(price > b.SMA50, r.AboveSMA50)

	lowFloat := ""
	switch {
	case snap.SharesOutstanding > 0 && snap.SharesOutstanding < r.FloatShares:
		raw += r.FloatBonus
		lowFloat = lowFloatFull
	case snap.MarketCap > 0 && snap.MarketCap < r.ProxyCap:
		raw += r.ProxyFloatBonus
		lowFloat = lowFloatProxy
	}

	score := clampScore(raw)
	rating := r.Ratings.classify(score)
	if !rating.IsActionable() {
		return nil
	}

	s := newScore(snap, p.Name())
	s.Score = score
	s.Rating = rating
	s.Timeframe = contracts.Timeframe7d
	s.Risk = classifyRisk(price, snap.MarketCap, r.RiskFloor)
	s.StopLoss = stopLoss(price, b.ATR, r.StopK)
	s.Indicators = contracts.PennyDetail{
		RawScore:     indicators.Round2(raw),
		VolumeZScore: indicators.Round2(b.VolumeZScore),
		SMA5:         indicators.Round2(b.SMA5),
		SMA20:        indicators.Round2(b.SMA20),
		SMA50:        indicators.Round2(b.SMA50),
		LowFloat:     lowFloat,
	}
	return s
}

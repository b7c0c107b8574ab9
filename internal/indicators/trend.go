package indicators

import (
	"math"

	"github.com/wonny/aegis-quant/internal/contracts"
)

const (
	quarterBars = 63
	// Stage2MinBars is the history floor for the stage-2 check
	Stage2MinBars = 200
	vcpSegment    = 20
	vcpSegments   = 3
)

// rsQuarterWeights weights trailing quarters, most recent first
var rsQuarterWeights = [4]float64{0.4, 0.2, 0.2, 0.2}

// RelativeStrengthRating blends four trailing-quarter returns (0.4 on the most
// recent quarter, 0.2 on each older one) into a 1..99 rating. Neutral 50 with
// fewer than 252 bars.
func RelativeStrengthRating(history contracts.PriceHistory) float64 {
	if len(history) < contracts.YearBars {
		return 50
	}

	closes := history.Closes()
	last := len(closes) - 1
	at := func(offset int) float64 {
		idx := last - offset
		if idx < 0 {
			idx = 0
		}
		return closes[idx]
	}

	weighted := 0.0
	for q := 0; q < 4; q++ {
		end := at(q * quarterBars)
		start := at((q + 1) * quarterBars)
		if start == 0 {
			continue
		}
		weighted += rsQuarterWeights[q] * (end/start - 1) * 100
	}

	rating := 50 + weighted*2
	return Round2(math.Max(1, math.Min(99, rating)))
}

// Stage2Uptrend is the Minervini-style trend template:
// price >= SMA50, price >= SMA200, SMA10 >= SMA20 >= SMA50 and
// price >= 0.5 x 52-week high. Requires 200 bars.
func Stage2Uptrend(history contracts.PriceHistory) bool {
	if len(history) < Stage2MinBars {
		return false
	}

	closes := history.Closes()
	price := closes[len(closes)-1]
	sma10 := SMA(closes, 10)
	sma20 := SMA(closes, 20)
	sma50 := SMA(closes, 50)
	sma200 := SMA(closes, 200)
	high52, _ := Range(history.Tail(contracts.YearBars))

	return price >= sma50 &&
		price >= sma200 &&
		sma10 >= sma20 && sma20 >= sma50 &&
		price >= 0.5*high52
}

// Breakout reports close >= 0.98 x the highest high of the trailing period bars
func Breakout(history contracts.PriceHistory, period int) bool {
	if period <= 0 || len(history) < period {
		return false
	}
	high, _ := Range(history.Tail(period))
	return history.Last().Close >= 0.98*high
}

// VCP detects a volatility contraction pattern over the last 60 bars:
// three 20-bar segments whose (high-low)/high ranges strictly contract,
// a final range under 10% and drying volume in the last segment.
func VCP(history contracts.PriceHistory) bool {
	need := vcpSegment * vcpSegments
	if len(history) < need {
		return false
	}

	window := history.Tail(need)
	ranges := make([]float64, vcpSegments)
	volumes := make([]float64, vcpSegments)
	for s := 0; s < vcpSegments; s++ {
		seg := window[s*vcpSegment : (s+1)*vcpSegment]
		hi, lo := Range(seg)
		if hi == 0 {
			return false
		}
		ranges[s] = (hi - lo) / hi
		volumes[s] = Mean(seg.Volumes())
	}

	for s := 1; s < vcpSegments; s++ {
		if ranges[s] >= ranges[s-1] {
			return false
		}
	}
	return ranges[vcpSegments-1] < 0.10 && volumes[vcpSegments-1] < volumes[0]
}

// Range returns the highest high and lowest low of the bars
func Range(history contracts.PriceHistory) (high, low float64) {
	if len(history) == 0 {
		return 0, 0
	}
	high, low = history[0].High, history[0].Low
	for _, b := range history[1:] {
		high = math.Max(high, b.High)
		low = math.Min(low, b.Low)
	}
	return high, low
}

package indicators

import (
	"math"

	talib "github.com/markcheno/go-talib"

	"github.com/wonny/aegis-quant/internal/contracts"
)

// Bands is the Bollinger Band result
type Bands struct {
	Upper   float64 `json:"upper"`
	Middle  float64 `json:"middle"`
	Lower   float64 `json:"lower"`
	Width   float64 `json:"width"` // (upper-lower)/middle
	Squeeze bool    `json:"squeeze"`
}

// SqueezeWidth is the band width below which the bands count as squeezed
const SqueezeWidth = 0.1

// BollingerBands returns bands over the last period prices.
// All-zero result when the series is shorter than period.
func BollingerBands(prices []float64, period int, stdDev float64) Bands {
	if period <= 0 || len(prices) < period {
		return Bands{}
	}

	upper, middle, lower := talib.BBands(prices, period, stdDev, stdDev, talib.SMA)
	b := Bands{
		Upper:  lastValue(upper),
		Middle: lastValue(middle),
		Lower:  lastValue(lower),
	}
	if b.Middle != 0 {
		b.Width = (b.Upper - b.Lower) / b.Middle
	}
	b.Squeeze = b.Width < SqueezeWidth
	return b
}

// ATR averages the last period true-range values; 0 with insufficient history
func ATR(history contracts.PriceHistory, period int) float64 {
	if period <= 0 || len(history) < period+1 {
		return 0
	}

	sum := 0.0
	for i := len(history) - period; i < len(history); i++ {
		sum += trueRange(history[i], history[i-1].Close)
	}
	return sum / float64(period)
}

// RealizedVolatility is the stddev of daily close-to-close returns over the last period bars
func RealizedVolatility(prices []float64, period int) float64 {
	if period < 2 || len(prices) < period+1 {
		return 0
	}
	window := prices[len(prices)-period-1:]
	returns := make([]float64, 0, period)
	for i := 1; i < len(window); i++ {
		if window[i-1] == 0 {
			continue
		}
		returns = append(returns, window[i]/window[i-1]-1)
	}
	return StdDev(returns)
}

func trueRange(bar contracts.PriceBar, prevClose float64) float64 {
	hl := bar.High - bar.Low
	hc := math.Abs(bar.High - prevClose)
	lc := math.Abs(bar.Low - prevClose)
	return math.Max(hl, math.Max(hc, lc))
}

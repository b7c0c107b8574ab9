package indicators

import (
	talib "github.com/markcheno/go-talib"

	"github.com/wonny/aegis-quant/internal/contracts"
)

// RSI calculates the Relative Strength Index over the last period deltas.
// Returns 50 when len(prices) < period+1 and 100 when the average loss is 0.
func RSI(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return 50.0 // Neutral
	}

	var gains, losses float64
	for i := len(prices) - period; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return 100.0
	}

	rs := avgGain / avgLoss
	return Round2(100 - 100/(1+rs))
}

// RSISeries returns the RSI at each of the last count end positions (oldest first)
func RSISeries(prices []float64, period, count int) []float64 {
	if count <= 0 {
		return nil
	}
	start := len(prices) - count + 1
	if start < 1 {
		start = 1
	}
	out := make([]float64, 0, count)
	for end := start; end <= len(prices); end++ {
		out = append(out, RSI(prices[:end], period))
	}
	return out
}

// AwesomeOscillator returns SMA5 - SMA34 of the median price (high+low)/2.
// Returns 0 with fewer than 34 bars.
func AwesomeOscillator(history contracts.PriceHistory) float64 {
	if len(history) < 34 {
		return 0
	}
	median := make([]float64, len(history))
	for i, b := range history {
		median[i] = (b.High + b.Low) / 2
	}
	return lastValue(talib.Sma(median, 5)) - lastValue(talib.Sma(median, 34))
}

// ADX calculates Wilder's Average Directional Index.
// Returns 0 (no trend) with fewer than 2*period bars.
func ADX(history contracts.PriceHistory, period int) float64 {
	if period <= 0 || len(history) < 2*period {
		return 0
	}

	high := make([]float64, len(history))
	low := make([]float64, len(history))
	closes := make([]float64, len(history))
	for i, b := range history {
		high[i], low[i], closes[i] = b.High, b.Low, b.Close
	}
	return Round2(lastValue(talib.Adx(high, low, closes, period)))
}

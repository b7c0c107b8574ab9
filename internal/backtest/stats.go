package backtest

import "math"

// tradeStats summarizes a list of trade returns (percent)
type tradeStats struct {
	Trades  int
	WinRate float64 // wins / trades
	Mean    float64
	StdDev  float64
	Sharpe  float64 // mean / stddev, 0 when undefined
}

// summarize is computed in slice order so equal inputs give identical floats
func summarize(returns []float64) tradeStats {
	stats := tradeStats{Trades: len(returns)}
	if len(returns) == 0 {
		return stats
	}

	wins := 0
	sum := 0.0
	for _, r := range returns {
		if r > 0 {
			wins++
		}
		sum += r
	}
	stats.WinRate = float64(wins) / float64(len(returns))
	stats.Mean = sum / float64(len(returns))
	stats.StdDev = calculateVolatility(returns, stats.Mean)
	if stats.StdDev > 0 {
		stats.Sharpe = stats.Mean / stats.StdDev
	}
	return stats
}

// calculateVolatility is the population standard deviation around mean
func calculateVolatility(returns []float64, mean float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	variance := 0.0
	for _, r := range returns {
		diff := r - mean
		variance += diff * diff
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance)
}

package indicators

import talib "github.com/markcheno/go-talib"

// SMA returns the mean of the last period values.
// Falls back to the last price when the series is shorter than period.
func SMA(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}
	if period <= 0 || len(prices) < period {
		return prices[len(prices)-1]
	}
	return Mean(prices[len(prices)-period:])
}

// EMA returns the exponential moving average seeded with the first period SMA.
// Falls back to SMA semantics when the series is shorter than period.
func EMA(prices []float64, period int) float64 {
	if len(prices) < period || period <= 0 {
		return SMA(prices, period)
	}

	return lastValue(talib.Ema(prices, period))
}

package indicators

import (
	"math"

	talib "github.com/markcheno/go-talib"
)

// Round2 rounds to 2 decimals
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Mean returns the arithmetic mean (0 for an empty series)
func Mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}

// StdDev returns the population standard deviation (0 for fewer than 2 values)
func StdDev(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	return lastValue(talib.StdDev(series, len(series), 1))
}

// ZScore returns (value-mean)/stddev of series; 0 when stddev is 0 or len < 2
func ZScore(value float64, series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	sd := StdDev(series)
	if sd == 0 {
		return 0
	}
	return (value - Mean(series)) / sd
}

// lastValue returns the final element of a talib output series
func lastValue(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}

// tail returns the last n values (whole slice when n >= len)
func tail(series []float64, n int) []float64 {
	if n >= len(series) {
		return series
	}
	return series[len(series)-n:]
}

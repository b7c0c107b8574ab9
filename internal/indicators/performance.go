package indicators

import "github.com/wonny/aegis-quant/internal/contracts"

// YTDPerformance returns the percent change since the last close of the prior
// calendar year (first close of the year when no prior-year bar exists)
func YTDPerformance(history contracts.PriceHistory) float64 {
	return periodPerformance(history, func(a, b contracts.PriceBar) bool {
		return a.Date.Year() == b.Date.Year()
	})
}

// MTDPerformance returns the percent change since the last close of the prior month
func MTDPerformance(history contracts.PriceHistory) float64 {
	return periodPerformance(history, func(a, b contracts.PriceBar) bool {
		return a.Date.Year() == b.Date.Year() && a.Date.Month() == b.Date.Month()
	})
}

func periodPerformance(history contracts.PriceHistory, samePeriod func(a, b contracts.PriceBar) bool) float64 {
	if len(history) < 2 {
		return 0
	}

	last := history[len(history)-1]
	base := 0.0
	for i := len(history) - 2; i >= 0; i-- {
		if !samePeriod(history[i], last) {
			base = history[i].Close
			break
		}
		base = history[i].Close
	}
	if base == 0 {
		return 0
	}
	return Round2((last.Close/base - 1) * 100)
}

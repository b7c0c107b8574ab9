// Package testutil builds synthetic price series for tests.
package testutil

import (
	"time"

	"github.com/wonny/aegis-quant/internal/contracts"
)

// StartDate is the first bar date of generated series
var StartDate = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

// TradingDates returns n consecutive weekdays starting at StartDate
func TradingDates(n int) []time.Time {
	dates := make([]time.Time, 0, n)
	d := StartDate
	for len(dates) < n {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			dates = append(dates, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return dates
}

// FromCloses builds bars with high/low at +/-1% of close
func FromCloses(closes, volumes []float64) contracts.PriceHistory {
	dates := TradingDates(len(closes))
	bars := make(contracts.PriceHistory, len(closes))
	for i, c := range closes {
		vol := 1_000_000.0
		if i < len(volumes) {
			vol = volumes[i]
		}
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		bars[i] = contracts.PriceBar{
			Date:   dates[i],
			Open:   open,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: vol,
		}
	}
	return bars
}

// Linear returns n values moving linearly from start to end
func Linear(n int, start, end float64) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = end
		return out
	}
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// Flat returns n copies of v
func Flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// LinearHistory is a straight-line series from startClose to endClose with volume
// moving linearly from startVol to endVol
func LinearHistory(n int, startClose, endClose, startVol, endVol float64) contracts.PriceHistory {
	return FromCloses(Linear(n, startClose, endClose), Linear(n, startVol, endVol))
}

// Snapshot wraps a history into a snapshot with quote fields filled in
func Snapshot(symbol string, history contracts.PriceHistory) *contracts.StockSnapshot {
	snap := &contracts.StockSnapshot{
		Symbol:  symbol,
		Name:    symbol + " Inc.",
		History: history,
	}
	snap.FillQuote()
	return snap
}

// Uptrend is the canonical 252-bar series rising from 80 to 150 with rising volume
func Uptrend(symbol string) *contracts.StockSnapshot {
	return Snapshot(symbol, LinearHistory(252, 80, 150, 1_000_000, 2_000_000))
}

// Downtrend is the canonical 252-bar series falling from 150 to 80
func Downtrend(symbol string) *contracts.StockSnapshot {
	return Snapshot(symbol, LinearHistory(252, 150, 80, 2_000_000, 1_000_000))
}

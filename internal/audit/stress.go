package audit

import (
	"github.com/wonny/aegis-quant/internal/contracts"
)

// sessionDate is the stress-set key layout; bars from different sources
// carry different locations for the same session
const sessionDate = "2006-01-02"

// StressWindows marks benchmark bars whose close is at least dropPct (negative,
// e.g. -3) below the close `window` bars earlier, and groups consecutive
// stress bars into events. The returned set is keyed by session date (YYYY-MM-DD).
func StressWindows(benchmark contracts.PriceHistory, window int, dropPct float64) (map[string]bool, []contracts.StressEvent) {
	dates := make(map[string]bool)
	var events []contracts.StressEvent
	if window <= 0 || len(benchmark) <= window {
		return dates, events
	}

	var current *contracts.StressEvent
	for j := window; j < len(benchmark); j++ {
		base := benchmark[j-window].Close
		if base <= 0 {
			current = nil
			continue
		}
		change := (benchmark[j].Close - base) / base * 100

		if change > dropPct {
			current = nil
			continue
		}

		date := benchmark[j].Date
		dates[date.Format(sessionDate)] = true
		if current == nil {
			events = append(events, contracts.StressEvent{Start: date, WorstPct: change})
			current = &events[len(events)-1]
		}
		current.End = date
		current.Bars++
		if change < current.WorstPct {
			current.WorstPct = change
		}
	}
	return dates, events
}

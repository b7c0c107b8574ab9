package indicators

import "github.com/wonny/aegis-quant/internal/contracts"

// VWAP returns the volume-weighted typical price over the given bars.
// With zero total volume it falls back to the mean typical price.
func VWAP(history contracts.PriceHistory) float64 {
	if len(history) == 0 {
		return 0
	}

	var pv, vol, tp float64
	for _, b := range history {
		typical := b.TypicalPrice()
		pv += typical * b.Volume
		vol += b.Volume
		tp += typical
	}
	if vol == 0 {
		return tp / float64(len(history))
	}
	return pv / vol
}

// VolumeZScore compares the latest volume against the preceding period volumes
func VolumeZScore(history contracts.PriceHistory, period int) float64 {
	if len(history) < 3 {
		return 0
	}
	volumes := history.Volumes()
	current := volumes[len(volumes)-1]
	return ZScore(current, tail(volumes[:len(volumes)-1], period))
}

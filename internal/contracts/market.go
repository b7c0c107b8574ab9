package contracts

import (
	"fmt"
	"math"
	"time"
)

// PriceBar is one trading day of OHLCV data
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open,omitempty"` // 0 when the source has no open
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// TypicalPrice returns (high+low+close)/3
func (b PriceBar) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3
}

// PriceHistory is a chronologically ordered bar sequence (oldest first)
// ⭐ SSOT: 가격 시계열은 항상 과거 → 현재 순서
type PriceHistory []PriceBar

// Validate checks len >= 1 and strictly increasing dates
func (h PriceHistory) Validate() error {
	if len(h) == 0 {
		return fmt.Errorf("price history is empty")
	}
	for i := 1; i < len(h); i++ {
		if !h[i].Date.After(h[i-1].Date) {
			return fmt.Errorf("price history not strictly increasing at index %d (%s <= %s)",
				i, h[i].Date.Format("2006-01-02"), h[i-1].Date.Format("2006-01-02"))
		}
	}
	return nil
}

// Last returns the most recent bar (zero bar when empty)
func (h PriceHistory) Last() PriceBar {
	if len(h) == 0 {
		return PriceBar{}
	}
	return h[len(h)-1]
}

// Closes returns the close series
func (h PriceHistory) Closes() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = b.Close
	}
	return out
}

// Highs returns the high series
func (h PriceHistory) Highs() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = b.High
	}
	return out
}

// Lows returns the low series
func (h PriceHistory) Lows() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = b.Low
	}
	return out
}

// Volumes returns the volume series
func (h PriceHistory) Volumes() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = b.Volume
	}
	return out
}

// Tail returns the last n bars (the whole history when n >= len)
func (h PriceHistory) Tail(n int) PriceHistory {
	if n >= len(h) {
		return h
	}
	if n <= 0 {
		return PriceHistory{}
	}
	return h[len(h)-n:]
}

// StockSnapshot is the "as of" state of one symbol
// Fundamentals use 0 for "unknown".
type StockSnapshot struct {
	Symbol            string       `json:"symbol"`
	Name              string       `json:"name"`
	Price             float64      `json:"price"`
	Change            float64      `json:"change"`
	ChangePercent     float64      `json:"changePercent"`
	Volume            float64      `json:"volume"`
	AvgVolume         float64      `json:"avgVolume"`
	MarketCap         float64      `json:"marketCap,omitempty"`
	PE                float64      `json:"pe,omitempty"`
	High52Week        float64      `json:"high52Week,omitempty"`
	Low52Week         float64      `json:"low52Week,omitempty"`
	SharesOutstanding float64      `json:"sharesOutstanding,omitempty"`
	ROE               float64      `json:"roe,omitempty"`
	DebtToEquity      float64      `json:"debtToEquity,omitempty"`
	History           PriceHistory `json:"history"`
}

const (
	// AvgVolumeWindow is the bar count used for the derived average volume (~3 months)
	AvgVolumeWindow = 63
	// YearBars is the bar count of one trading year
	YearBars = 252
)

// AsOf returns a copy truncated to bars [0..i]; quote fields are recomputed
// from the truncated bars so nothing later than bar i is visible.
// Fundamentals are carried over unchanged.
func (s *StockSnapshot) AsOf(i int) *StockSnapshot {
	if s == nil || i < 0 || len(s.History) == 0 {
		return nil
	}
	if i >= len(s.History) {
		i = len(s.History) - 1
	}

	bars := make(PriceHistory, i+1)
	copy(bars, s.History[:i+1])

	out := *s
	out.History = bars
	out.High52Week = 0
	out.Low52Week = 0
	out.FillQuote()
	return &out
}

// FillQuote derives price/change/volume/avgVolume/52-week range from the
// history. Fields already set (non-zero 52-week range) are kept.
func (s *StockSnapshot) FillQuote() {
	n := len(s.History)
	if n == 0 {
		return
	}

	last := s.History[n-1]
	s.Price = last.Close
	s.Volume = last.Volume
	s.Change = 0
	s.ChangePercent = 0
	if n >= 2 {
		prev := s.History[n-2].Close
		s.Change = last.Close - prev
		if prev != 0 {
			s.ChangePercent = s.Change / prev * 100
		}
	}

	window := s.History.Tail(AvgVolumeWindow)
	var sum float64
	for _, b := range window {
		sum += b.Volume
	}
	s.AvgVolume = sum / float64(len(window))

	if s.High52Week == 0 || s.Low52Week == 0 {
		year := s.History.Tail(YearBars)
		hi, lo := year[0].High, year[0].Low
		for _, b := range year[1:] {
			hi = math.Max(hi, b.High)
			lo = math.Min(lo, b.Low)
		}
		if s.High52Week == 0 {
			s.High52Week = hi
		}
		if s.Low52Week == 0 {
			s.Low52Week = lo
		}
	}
}

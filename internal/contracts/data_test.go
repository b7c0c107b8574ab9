package contracts

import (
	"testing"
	"time"
)

func bars(closes ...float64) PriceHistory {
	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	h := make(PriceHistory, len(closes))
	for i, c := range closes {
		h[i] = PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: float64(1000 * (i + 1)),
		}
	}
	return h
}

func TestDataQualitySnapshot_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		snapshot *DataQualitySnapshot
		want     bool
	}{
		{
			name: "passed snapshot",
			snapshot: &DataQualitySnapshot{
				TotalStocks:  100,
				ValidStocks:  90,
				QualityScore: 0.9,
				Passed:       true,
			},
			want: true,
		},
		{
			name: "failed gate",
			snapshot: &DataQualitySnapshot{
				TotalStocks:  100,
				ValidStocks:  50,
				QualityScore: 0.5,
			},
			want: false,
		},
		{
			name: "no valid stocks",
			snapshot: &DataQualitySnapshot{
				TotalStocks: 100,
				Passed:      true,
			},
			want: false,
		},
		{
			name:     "nil snapshot",
			snapshot: nil,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snapshot.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPriceHistory_Validate(t *testing.T) {
	if err := (PriceHistory{}).Validate(); err == nil {
		t.Error("empty history should fail")
	}
	if err := bars(1, 2, 3).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	h := bars(1, 2, 3)
	h[2].Date = h[1].Date
	if err := h.Validate(); err == nil {
		t.Error("duplicate date should fail")
	}
}

func TestPriceHistory_Tail(t *testing.T) {
	h := bars(1, 2, 3, 4)

	if got := len(h.Tail(2)); got != 2 {
		t.Errorf("Tail(2) len = %d, want 2", got)
	}
	if got := h.Tail(2)[0].Close; got != 3 {
		t.Errorf("Tail(2)[0].Close = %v, want 3", got)
	}
	if got := len(h.Tail(10)); got != 4 {
		t.Errorf("Tail(10) len = %d, want 4", got)
	}
	if got := len(h.Tail(0)); got != 0 {
		t.Errorf("Tail(0) len = %d, want 0", got)
	}
	if got := (PriceHistory{}).Last(); !got.Date.IsZero() {
		t.Errorf("Last() of empty = %v, want zero bar", got)
	}
}

func TestPriceBar_TypicalPrice(t *testing.T) {
	b := PriceBar{High: 12, Low: 9, Close: 9}
	if got := b.TypicalPrice(); got != 10 {
		t.Errorf("TypicalPrice() = %v, want 10", got)
	}
}

func TestStockSnapshot_AsOf(t *testing.T) {
	snap := &StockSnapshot{
		Symbol:     "TEST",
		PE:         15,
		High52Week: 999,
		Low52Week:  1,
		History:    bars(10, 11, 12, 13, 500),
	}

	got := snap.AsOf(2)
	if got == nil {
		t.Fatal("AsOf(2) = nil")
	}
	if len(got.History) != 3 {
		t.Fatalf("len(History) = %d, want 3", len(got.History))
	}
	if got.Price != 12 {
		t.Errorf("Price = %v, want 12", got.Price)
	}
	if got.Change != 1 {
		t.Errorf("Change = %v, want 1", got.Change)
	}
	if got.High52Week != 13 || got.Low52Week != 9 {
		t.Errorf("52w range = %v/%v, want 13/9", got.High52Week, got.Low52Week)
	}
	if got.AvgVolume != 2000 {
		t.Errorf("AvgVolume = %v, want 2000", got.AvgVolume)
	}
	if got.PE != 15 {
		t.Errorf("PE = %v, want 15 (fundamentals carried)", got.PE)
	}

	// 원본은 변경되지 않아야 함
	got.History[0].Close = -1
	if snap.History[0].Close != 10 || len(snap.History) != 5 || snap.High52Week != 999 {
		t.Error("AsOf mutated the source snapshot")
	}

	if snap.AsOf(-1) != nil {
		t.Error("AsOf(-1) should be nil")
	}
	if got := snap.AsOf(99); len(got.History) != 5 {
		t.Errorf("AsOf(99) len = %d, want 5", len(got.History))
	}
}

func TestRating_Ordinal(t *testing.T) {
	order := []Rating{RatingSell, RatingHold, RatingBuy, RatingStrongBuy}
	for i := 1; i < len(order); i++ {
		if order[i].Ordinal() <= order[i-1].Ordinal() {
			t.Errorf("%s should rank above %s", order[i], order[i-1])
		}
	}
	if !RatingBuy.IsActionable() || RatingHold.IsActionable() {
		t.Error("only BUY and STRONG BUY are actionable")
	}
}

func TestTimeframe_Ordinal(t *testing.T) {
	tests := []struct {
		a, b Timeframe
		cmp  int
	}{
		{Timeframe24h, Timeframe3d, -1},
		{Timeframe3d, Timeframe7d, 0},
		{Timeframe1m, Timeframe3m, 0},
		{Timeframe3m, Timeframe6m, -1},
		{Timeframe6m, Timeframe1y, -1},
	}

	for _, tt := range tests {
		a, b := tt.a.Ordinal(), tt.b.Ordinal()
		var cmp int
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
		if cmp != tt.cmp {
			t.Errorf("%s vs %s: cmp = %d, want %d", tt.a, tt.b, cmp, tt.cmp)
		}
	}
	if Timeframe("2w").Ordinal() != -1 {
		t.Error("unknown timeframe should be -1")
	}
}

func TestMarketRegime(t *testing.T) {
	if !RegimeBear.IsBearish() || !RegimeStress.IsBearish() {
		t.Error("bear and stress are bearish")
	}
	if RegimeBull.IsBearish() || RegimeNeutral.IsBearish() {
		t.Error("bull and neutral are not bearish")
	}
	if got := ParseRegime("sideways"); got != RegimeNeutral {
		t.Errorf("ParseRegime(sideways) = %s, want neutral", got)
	}
	if got := ParseRegime("bull"); got != RegimeBull {
		t.Errorf("ParseRegime(bull) = %s, want bull", got)
	}
}

func TestUniverse_Contains(t *testing.T) {
	u := &Universe{
		Stocks:   []string{"AAPL", "MSFT"},
		Excluded: map[string]string{"BRK.A": "price filter"},
	}

	if !u.Contains("AAPL") || u.Contains("BRK.A") {
		t.Error("Contains() mismatch")
	}
	if excluded, reason := u.IsExcluded("BRK.A"); !excluded || reason != "price filter" {
		t.Errorf("IsExcluded() = %v, %q", excluded, reason)
	}
	if u.Count() != 2 {
		t.Errorf("Count() = %d, want 2", u.Count())
	}
}

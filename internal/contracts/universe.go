package contracts

import "time"

// Universe is a named candidate list handed from S1 to scoring
// ⭐ SSOT: S1 → 스코어링 후보 종목 전달
type Universe struct {
	Name       string            `json:"name"`
	Date       time.Time         `json:"date"`
	Stocks     []string          `json:"stocks"`
	Excluded   map[string]string `json:"excluded,omitempty"` // symbol: reason
	TotalCount int               `json:"total_count,omitempty"`
}

// Contains checks if a symbol is in the universe
func (u *Universe) Contains(symbol string) bool {
	for _, stock := range u.Stocks {
		if stock == symbol {
			return true
		}
	}
	return false
}

// IsExcluded checks if a symbol was excluded and returns the reason
func (u *Universe) IsExcluded(symbol string) (bool, string) {
	reason, exists := u.Excluded[symbol]
	return exists, reason
}

// Count returns the number of candidate symbols
func (u *Universe) Count() int {
	return len(u.Stocks)
}

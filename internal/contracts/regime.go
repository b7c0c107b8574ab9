package contracts

// MarketRegime is the coarse market-direction classification from the benchmark
type MarketRegime string

const (
	RegimeBull    MarketRegime = "bull"
	RegimeBear    MarketRegime = "bear"
	RegimeNeutral MarketRegime = "neutral"
	// RegimeStress tags re-scoring inside a benchmark drawdown window
	RegimeStress MarketRegime = "stress"
)

// IsBearish reports whether bear-regime penalties apply
func (r MarketRegime) IsBearish() bool {
	return r == RegimeBear || r == RegimeStress
}

// ParseRegime maps a string to a MarketRegime (neutral when unknown)
func ParseRegime(s string) MarketRegime {
	switch MarketRegime(s) {
	case RegimeBull, RegimeBear, RegimeStress:
		return MarketRegime(s)
	default:
		return RegimeNeutral
	}
}

package contracts

import "time"

// Pick is a ranked, deduplicated, timestamped recommendation
// ⭐ SSOT: 최종 출력 종목 (일일 실행 결과)
type Pick struct {
	Score

	PickedAt            time.Time `json:"pickedAt"`
	SlippageSimulated   float64   `json:"slippageSimulated"` // fraction, e.g. 0.005
	SimulatedEntryPrice float64   `json:"simulatedEntryPrice"`
	PickHash            string    `json:"pickHash"`
}

// PicksArtifact is the daily run output written to the live and archive paths
type PicksArtifact struct {
	LastUpdated time.Time `json:"lastUpdated"`
	TotalPicks  int       `json:"totalPicks"`
	Stocks      []Pick    `json:"stocks"`
}

// BacktestResult aggregates simulated trades for one (algorithm, threshold) pair
type BacktestResult struct {
	Algorithm   string  `json:"algorithm"`
	Threshold   float64 `json:"threshold"`
	TotalTrades int     `json:"totalTrades"`
	WinRate     float64 `json:"winRate"`
	AvgReturn   float64 `json:"avgReturn"`
	SharpeRatio float64 `json:"sharpeRatio"`
}

// BacktestArtifact is the backtest run output
type BacktestArtifact struct {
	LastRun time.Time        `json:"lastRun"`
	Results []BacktestResult `json:"results"`
}

// StressEvent is a contiguous run of benchmark stress bars
type StressEvent struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Bars     int       `json:"bars"`
	WorstPct float64   `json:"worstDropPct"`
}

// StressSignal is one scorer firing inside a stress window
type StressSignal struct {
	Symbol              string    `json:"symbol"`
	Algorithm           string    `json:"algorithm"`
	Date                time.Time `json:"date"`
	Score               float64   `json:"score"`
	Rating              Rating    `json:"rating"`
	SignalPrice         float64   `json:"signalPrice"`
	MaxAdverseExcursion float64   `json:"maxAdverseExcursion"` // percent, <= 0 when price dipped
	ForwardReturn10d    float64   `json:"forwardReturn10d"`    // percent
	Recovered           bool      `json:"recovered"`
}

// StressSummary aggregates stress signals per algorithm
type StressSummary struct {
	Algorithm        string  `json:"algorithm"`
	Signals          int     `json:"signals"`
	AvgMAE           float64 `json:"avgMaxAdverseExcursion"`
	AvgForwardReturn float64 `json:"avgForwardReturn10d"`
	FallingKnifeRate float64 `json:"fallingKnifeRate"` // share of signals with negative 10-day return
}

// StressArtifact is the adversarial audit output
type StressArtifact struct {
	LastRun           time.Time       `json:"lastRun"`
	StressEventsFound int             `json:"stressEventsFound"`
	Events            []StressEvent   `json:"events"`
	Summary           []StressSummary `json:"summary"`
	Results           []StressSignal  `json:"results"`
}

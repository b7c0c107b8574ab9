package contracts

import "time"

// Coverage keys of a DataQualitySnapshot
const (
	CoverageHistory      = "history"
	CoverageVolume       = "volume"
	CoverageFreshness    = "freshness"
	CoverageFundamentals = "fundamentals"
)

// DataQualitySnapshot summarizes how usable a fetched batch is
// ⭐ SSOT: S0 → 파이프라인 데이터 품질 전달
type DataQualitySnapshot struct {
	Date         time.Time          `json:"date"`
	TotalStocks  int                `json:"total_stocks"`
	ValidStocks  int                `json:"valid_stocks"`
	Coverage     map[string]float64 `json:"coverage"`
	QualityScore float64            `json:"quality_score"`
	Passed       bool               `json:"passed"`
	Issues       map[string]string  `json:"issues,omitempty"` // symbol: first failed check
}

// IsValid reports whether the snapshot passed and has at least one scorable stock
func (s *DataQualitySnapshot) IsValid() bool {
	return s != nil && s.Passed && s.ValidStocks > 0
}

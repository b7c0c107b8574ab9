package contracts

import (
	"context"
	"time"
)

// ⭐ SSOT: Repository 인터페이스 정의는 여기서만

// BarRepository archives daily bars
type BarRepository interface {
	SaveBars(ctx context.Context, symbol string, bars PriceHistory) error
	GetBars(ctx context.Context, symbol string, from, to time.Time) (PriceHistory, error)
}

// PickRepository persists daily picks
type PickRepository interface {
	SavePicks(ctx context.Context, runID string, picks []Pick) error
	GetLatestPicks(ctx context.Context) ([]Pick, error)
}

// QualityRepository persists data quality gate results
type QualityRepository interface {
	SaveSnapshot(ctx context.Context, snapshot *DataQualitySnapshot) error
}

// RunRepository persists backtest and stress artifacts by run
type RunRepository interface {
	SaveRun(ctx context.Context, runID, kind string, runAt time.Time, artifact interface{}) error
}

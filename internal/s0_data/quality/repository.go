package quality

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/aegis-quant/internal/contracts"
)

// Repository handles data quality snapshot persistence
// ⭐ SSOT: S0 품질 스냅샷 저장/조회
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new quality repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveSnapshot saves a data quality snapshot
func (r *Repository) SaveSnapshot(ctx context.Context, snapshot *contracts.DataQualitySnapshot) error {
	query := `
		INSERT INTO quant.data_quality_snapshots (
			snapshot_date, quality_score, total_stocks, valid_stocks,
			history_coverage, volume_coverage, freshness_coverage,
			fundamentals_coverage, passed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (snapshot_date) DO UPDATE SET
			quality_score = EXCLUDED.quality_score,
			total_stocks = EXCLUDED.total_stocks,
			valid_stocks = EXCLUDED.valid_stocks,
			history_coverage = EXCLUDED.history_coverage,
			volume_coverage = EXCLUDED.volume_coverage,
			freshness_coverage = EXCLUDED.freshness_coverage,
			fundamentals_coverage = EXCLUDED.fundamentals_coverage,
			passed = EXCLUDED.passed,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		snapshot.Date,
		snapshot.QualityScore,
		snapshot.TotalStocks,
		snapshot.ValidStocks,
		snapshot.Coverage[contracts.CoverageHistory],
		snapshot.Coverage[contracts.CoverageVolume],
		snapshot.Coverage[contracts.CoverageFreshness],
		snapshot.Coverage[contracts.CoverageFundamentals],
		snapshot.Passed,
	)
	if err != nil {
		return fmt.Errorf("save quality snapshot: %w", err)
	}
	return nil
}

// GetLatestSnapshot returns the most recent quality snapshot
func (r *Repository) GetLatestSnapshot(ctx context.Context) (*contracts.DataQualitySnapshot, error) {
	query := `
		SELECT snapshot_date, quality_score, total_stocks, valid_stocks,
			history_coverage, volume_coverage, freshness_coverage,
			fundamentals_coverage, passed
		FROM quant.data_quality_snapshots
		ORDER BY snapshot_date DESC
		LIMIT 1
	`

	snapshot := &contracts.DataQualitySnapshot{Coverage: make(map[string]float64)}
	var history, volume, freshness, fundamentals float64
	err := r.pool.QueryRow(ctx, query).Scan(
		&snapshot.Date,
		&snapshot.QualityScore,
		&snapshot.TotalStocks,
		&snapshot.ValidStocks,
		&history,
		&volume,
		&freshness,
		&fundamentals,
		&snapshot.Passed,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("query latest quality snapshot: %w", err)
	}

	snapshot.Coverage[contracts.CoverageHistory] = history
	snapshot.Coverage[contracts.CoverageVolume] = volume
	snapshot.Coverage[contracts.CoverageFreshness] = freshness
	snapshot.Coverage[contracts.CoverageFundamentals] = fundamentals
	return snapshot, nil
}

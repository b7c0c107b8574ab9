package selection

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/aegis-quant/internal/contracts"
)

// Repository implements contracts.PickRepository
// ⭐ SSOT: 픽 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new selection repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SavePicks stores one run's picks; rank is the list position (1-based)
func (r *Repository) SavePicks(ctx context.Context, runID string, picks []contracts.Pick) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Re-running a run ID replaces its rows
	if _, err := tx.Exec(ctx, "DELETE FROM quant.picks WHERE run_id = $1", runID); err != nil {
		return fmt.Errorf("failed to delete old picks: %w", err)
	}

	query := `
		INSERT INTO quant.picks (
			run_id, symbol, name, algorithm, all_algorithms, rating, timeframe,
			score, risk, price, stop_loss, entry_price, slippage, pick_hash, picked_at, rank
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	batch := &pgx.Batch{}
	for i, p := range picks {
		batch.Queue(query,
			runID, p.Symbol, p.Name, p.Algorithm, p.AllAlgorithms, string(p.Rating), string(p.Timeframe),
			p.Score.Score, string(p.Risk), p.Price, p.StopLoss, p.SimulatedEntryPrice,
			p.SlippageSimulated, p.PickHash, p.PickedAt, i+1,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for _, p := range picks {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert pick %s: %w", p.Symbol, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetLatestPicks returns the picks of the most recent run in rank order
func (r *Repository) GetLatestPicks(ctx context.Context) ([]contracts.Pick, error) {
	var runID string
	err := r.pool.QueryRow(ctx,
		"SELECT run_id FROM quant.picks ORDER BY picked_at DESC LIMIT 1",
	).Scan(&runID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}

	return r.GetRunPicks(ctx, runID)
}

// GetRunPicks returns the picks of one run in rank order
func (r *Repository) GetRunPicks(ctx context.Context, runID string) ([]contracts.Pick, error) {
	query := `
		SELECT symbol, COALESCE(name, ''), algorithm, COALESCE(all_algorithms, '{}'), rating, timeframe,
			score, risk, price, COALESCE(stop_loss, 0), entry_price, slippage, pick_hash, picked_at
		FROM quant.picks
		WHERE run_id = $1
		ORDER BY rank ASC
	`

	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query picks: %w", err)
	}
	defer rows.Close()

	picks := make([]contracts.Pick, 0)
	for rows.Next() {
		var p contracts.Pick
		var rating, timeframe, risk string
		err := rows.Scan(
			&p.Symbol, &p.Name, &p.Algorithm, &p.AllAlgorithms, &rating, &timeframe,
			&p.Score.Score, &risk, &p.Price, &p.StopLoss, &p.SimulatedEntryPrice,
			&p.SlippageSimulated, &p.PickHash, &p.PickedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		p.Rating = contracts.Rating(rating)
		p.Timeframe = contracts.Timeframe(timeframe)
		p.Risk = contracts.Risk(risk)
		if len(p.AllAlgorithms) == 0 {
			p.AllAlgorithms = nil
		}
		picks = append(picks, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return picks, nil
}

package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/aegis-quant/internal/contracts"
)

// Run kinds stored in quant.audit_runs
const (
	KindBacktest = "backtest"
	KindStress   = "stress"
)

// Repository handles audit data persistence
// ⭐ SSOT: Audit 데이터 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new audit repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveRun stores one run artifact as JSONB
func (r *Repository) SaveRun(ctx context.Context, runID, kind string, runAt time.Time, artifact interface{}) error {
	payload, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("failed to marshal %s artifact: %w", kind, err)
	}

	query := `
		INSERT INTO quant.audit_runs (run_id, kind, run_at, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (run_id, kind) DO UPDATE SET
			run_at = EXCLUDED.run_at,
			payload = EXCLUDED.payload
	`

	if _, err := r.pool.Exec(ctx, query, runID, kind, runAt, payload); err != nil {
		return fmt.Errorf("failed to save %s run: %w", kind, err)
	}
	return nil
}

// GetLatestRun decodes the newest artifact of a kind into dest
func (r *Repository) GetLatestRun(ctx context.Context, kind string, dest interface{}) error {
	query := `
		SELECT payload
		FROM quant.audit_runs
		WHERE kind = $1
		ORDER BY run_at DESC
		LIMIT 1
	`

	var payload []byte
	err := r.pool.QueryRow(ctx, query, kind).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return contracts.ErrNoData
	}
	if err != nil {
		return fmt.Errorf("failed to query latest %s run: %w", kind, err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("failed to unmarshal %s run: %w", kind, err)
	}
	return nil
}

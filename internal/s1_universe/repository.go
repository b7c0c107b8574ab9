package s1_universe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/aegis-quant/internal/contracts"
)

// Repository archives dated snapshots of the named lists so list edits can be audited
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// SaveUniverse upserts one named universe for its date
func (r *Repository) SaveUniverse(ctx context.Context, u *contracts.Universe) error {
	excluded, err := json.Marshal(u.Excluded)
	if err != nil {
		return fmt.Errorf("marshal excluded: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO quant.universe_snapshots
			(snapshot_date, name, eligible_stocks, total_count, excluded, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (snapshot_date, name) DO UPDATE SET
			eligible_stocks = EXCLUDED.eligible_stocks,
			total_count     = EXCLUDED.total_count,
			excluded        = EXCLUDED.excluded,
			created_at      = NOW()`,
		u.Date, u.Name, u.Stocks, u.TotalCount, excluded,
	)
	if err != nil {
		return fmt.Errorf("save universe %s: %w", u.Name, err)
	}
	return nil
}

// GetLatestUniverse returns the newest snapshot of name (ErrNoData when never saved)
func (r *Repository) GetLatestUniverse(ctx context.Context, name string) (*contracts.Universe, error) {
	u := &contracts.Universe{Excluded: make(map[string]string)}

	var excluded []byte
	err := r.db.QueryRow(ctx, `
		SELECT snapshot_date, name, eligible_stocks, total_count, excluded
		FROM quant.universe_snapshots
		WHERE name = $1
		ORDER BY snapshot_date DESC
		LIMIT 1`, name,
	).Scan(&u.Date, &u.Name, &u.Stocks, &u.TotalCount, &excluded)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("universe %s: %w", name, contracts.ErrNoData)
	}
	if err != nil {
		return nil, fmt.Errorf("query universe %s: %w", name, err)
	}

	if len(excluded) > 0 {
		if err := json.Unmarshal(excluded, &u.Excluded); err != nil {
			return nil, fmt.Errorf("unmarshal excluded: %w", err)
		}
	}
	return u, nil
}

// Diff returns the symbols added to and removed from prev in cur, each in list order
func Diff(prev, cur *contracts.Universe) (added, removed []string) {
	for _, s := range cur.Stocks {
		if !prev.Contains(s) {
			added = append(added, s)
		}
	}
	for _, s := range prev.Stocks {
		if !cur.Contains(s) {
			removed = append(removed, s)
		}
	}
	return added, removed
}

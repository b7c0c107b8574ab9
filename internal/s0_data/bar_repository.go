package s0_data

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/aegis-quant/internal/contracts"
)

// BarRepository implements contracts.BarRepository
// ⭐ SSOT: 일봉 아카이브 저장소는 여기서만
type BarRepository struct {
	pool *pgxpool.Pool
}

// NewBarRepository creates a new bar repository
func NewBarRepository(pool *pgxpool.Pool) *BarRepository {
	return &BarRepository{pool: pool}
}

const upsertBarQuery = `
	INSERT INTO quant.daily_bars (symbol, trade_date, open_price, high_price, low_price, close_price, volume, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	ON CONFLICT (symbol, trade_date) DO UPDATE SET
		open_price = EXCLUDED.open_price,
		high_price = EXCLUDED.high_price,
		low_price = EXCLUDED.low_price,
		close_price = EXCLUDED.close_price,
		volume = EXCLUDED.volume,
		updated_at = NOW()
`

// SaveBars upserts the bars of one symbol in a single batch
func (r *BarRepository) SaveBars(ctx context.Context, symbol string, bars contracts.PriceHistory) error {
	if len(bars) == 0 {
		return nil
	}
	symbol = strings.ToUpper(symbol)

	batch := &pgx.Batch{}
	for _, b := range bars {
		var open interface{}
		if b.Open > 0 {
			open = b.Open
		}
		batch.Queue(upsertBarQuery, symbol, b.Date, open, b.High, b.Low, b.Close, b.Volume)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range bars {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert bar %s %s: %w", symbol, bars[i].Date.Format("2006-01-02"), err)
		}
	}
	return nil
}

// GetBars returns archived bars in [from, to], oldest first
func (r *BarRepository) GetBars(ctx context.Context, symbol string, from, to time.Time) (contracts.PriceHistory, error) {
	query := `
		SELECT trade_date, COALESCE(open_price, 0), high_price, low_price, close_price, volume
		FROM quant.daily_bars
		WHERE symbol = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, strings.ToUpper(symbol), from, to)
	if err != nil {
		return nil, fmt.Errorf("query bars %s: %w", symbol, err)
	}
	defer rows.Close()

	var bars contracts.PriceHistory
	for rows.Next() {
		var b contracts.PriceBar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar %s: %w", symbol, err)
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// GetLatestDate returns the most recent archived trade date of a symbol
func (r *BarRepository) GetLatestDate(ctx context.Context, symbol string) (time.Time, error) {
	query := `SELECT MAX(trade_date) FROM quant.daily_bars WHERE symbol = $1`

	var latest *time.Time
	if err := r.pool.QueryRow(ctx, query, strings.ToUpper(symbol)).Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("query latest bar date %s: %w", symbol, err)
	}
	if latest == nil {
		return time.Time{}, contracts.ErrNoData
	}
	return *latest, nil
}

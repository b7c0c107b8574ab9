package database

import (
	"context"
	"fmt"
)

// Tables lists the tables of the quant schema
var Tables = []string{
	"daily_bars",
	"universe_snapshots",
	"picks",
	"data_quality_snapshots",
	"audit_runs",
}

// schemaStatements creates the quant schema; every statement is idempotent
// ⭐ SSOT: 테이블 정의는 여기서만
var schemaStatements = []string{
	`CREATE SCHEMA IF NOT EXISTS quant`,

	`CREATE TABLE IF NOT EXISTS quant.daily_bars (
		symbol     TEXT           NOT NULL,
		trade_date DATE           NOT NULL,
		open_price DOUBLE PRECISION,
		high_price DOUBLE PRECISION NOT NULL,
		low_price  DOUBLE PRECISION NOT NULL,
		close_price DOUBLE PRECISION NOT NULL,
		volume     DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMPTZ    NOT NULL DEFAULT NOW(),
		PRIMARY KEY (symbol, trade_date)
	)`,

	`CREATE TABLE IF NOT EXISTS quant.universe_snapshots (
		snapshot_date   DATE        NOT NULL,
		name            TEXT        NOT NULL,
		eligible_stocks TEXT[]      NOT NULL,
		total_count     INT         NOT NULL,
		excluded        JSONB,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (snapshot_date, name)
	)`,

	`CREATE TABLE IF NOT EXISTS quant.picks (
		run_id         TEXT             NOT NULL,
		symbol         TEXT             NOT NULL,
		name           TEXT,
		algorithm      TEXT             NOT NULL,
		all_algorithms TEXT[],
		rating         TEXT             NOT NULL,
		timeframe      TEXT             NOT NULL,
		score          DOUBLE PRECISION NOT NULL,
		risk           TEXT             NOT NULL,
		price          DOUBLE PRECISION NOT NULL,
		stop_loss      DOUBLE PRECISION,
		entry_price    DOUBLE PRECISION NOT NULL,
		slippage       DOUBLE PRECISION NOT NULL,
		pick_hash      TEXT             NOT NULL,
		picked_at      TIMESTAMPTZ      NOT NULL,
		rank           INT              NOT NULL,
		PRIMARY KEY (run_id, symbol)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_picks_picked_at ON quant.picks (picked_at DESC)`,

	`CREATE TABLE IF NOT EXISTS quant.data_quality_snapshots (
		snapshot_date         DATE             NOT NULL PRIMARY KEY,
		quality_score         DOUBLE PRECISION NOT NULL,
		total_stocks          INT              NOT NULL,
		valid_stocks          INT              NOT NULL,
		history_coverage      DOUBLE PRECISION NOT NULL,
		volume_coverage       DOUBLE PRECISION NOT NULL,
		freshness_coverage    DOUBLE PRECISION NOT NULL,
		fundamentals_coverage DOUBLE PRECISION NOT NULL,
		passed                BOOLEAN          NOT NULL,
		updated_at            TIMESTAMPTZ      NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS quant.audit_runs (
		run_id  TEXT        NOT NULL,
		kind    TEXT        NOT NULL,
		run_at  TIMESTAMPTZ NOT NULL,
		payload JSONB       NOT NULL,
		PRIMARY KEY (run_id, kind)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_audit_runs_kind_run_at ON quant.audit_runs (kind, run_at DESC)`,
}

// EnsureSchema applies the schema statements in order
func (db *DB) EnsureSchema(ctx context.Context) error {
	for i, stmt := range schemaStatements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}

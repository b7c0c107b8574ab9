package contracts

import "context"

// HistoryProvider supplies snapshots with daily OHLCV history and fundamentals
// ⭐ SSOT: 외부 시세 조회 인터페이스 (엔진은 구현을 모름)
type HistoryProvider interface {
	// FetchOne returns the snapshot for one symbol
	FetchOne(ctx context.Context, symbol string) (*StockSnapshot, error)

	// FetchMany returns snapshots for the symbols that could be fetched.
	// Failures are skipped, never fatal for the batch.
	FetchMany(ctx context.Context, symbols []string) []*StockSnapshot
}

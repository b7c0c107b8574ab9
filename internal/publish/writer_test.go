package publish

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/pkg/config"
)

func newTestWriter(t *testing.T) (*FileWriter, string) {
	t.Helper()
	dir := t.TempDir()
	return NewFileWriter(config.OutputConfig{Dir: dir}, nil), dir
}

func picksArtifact(at time.Time, symbols ...string) *contracts.PicksArtifact {
	picks := make([]contracts.Pick, 0, len(symbols))
	for _, s := range symbols {
		picks = append(picks, contracts.Pick{
			Score:    contracts.Score{Symbol: s, Score: 70, Rating: contracts.RatingBuy, Algorithm: "canslim"},
			PickedAt: at,
		})
	}
	return &contracts.PicksArtifact{LastUpdated: at, TotalPicks: len(picks), Stocks: picks}
}

func TestPublishPicks_LiveAndArchive(t *testing.T) {
	w, dir := newTestWriter(t)
	at := time.Date(2026, 10, 14, 20, 30, 0, 0, time.UTC)

	require.NoError(t, w.PublishPicks(context.Background(), picksArtifact(at, "AAPL", "MSFT")))

	live, err := os.ReadFile(filepath.Join(dir, PicksFile))
	require.NoError(t, err)

	var decoded struct {
		LastUpdated time.Time         `json:"lastUpdated"`
		TotalPicks  int               `json:"totalPicks"`
		Stocks      []json.RawMessage `json:"stocks"`
	}
	require.NoError(t, json.Unmarshal(live, &decoded))
	assert.Equal(t, 2, decoded.TotalPicks)
	assert.Len(t, decoded.Stocks, 2)
	assert.True(t, at.Equal(decoded.LastUpdated))

	archived, err := os.ReadFile(filepath.Join(dir, "archive", "picks_2026-10-14.json"))
	require.NoError(t, err)
	assert.Equal(t, live, archived)
}

func TestPublishPicks_ArchiveNeverOverwritten(t *testing.T) {
	w, dir := newTestWriter(t)
	ctx := context.Background()
	first := time.Date(2026, 10, 14, 20, 30, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	require.NoError(t, w.PublishPicks(ctx, picksArtifact(first, "AAPL")))
	require.NoError(t, w.PublishPicks(ctx, picksArtifact(second, "MSFT")))
	require.NoError(t, w.PublishPicks(ctx, picksArtifact(second, "NVDA")))

	archiveDir := filepath.Join(dir, "archive")
	entries, err := os.ReadDir(archiveDir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{
		"picks_2026-10-14.json",
		"picks_2026-10-14_213000.json",
		"picks_2026-10-14_213000_2.json",
	}, names)

	// 첫 아카이브는 그대로 유지
	original, err := os.ReadFile(filepath.Join(archiveDir, "picks_2026-10-14.json"))
	require.NoError(t, err)
	assert.Contains(t, string(original), "AAPL")
	assert.NotContains(t, string(original), "MSFT")

	// 라이브 파일은 마지막 실행 결과
	live, err := w.ReadLive(PicksFile)
	require.NoError(t, err)
	assert.Contains(t, string(live), "NVDA")
}

func TestPublishBacktestAndStress(t *testing.T) {
	w, dir := newTestWriter(t)
	ctx := context.Background()
	at := time.Date(2026, 10, 17, 14, 0, 0, 0, time.UTC)

	require.NoError(t, w.PublishBacktest(ctx, &contracts.BacktestArtifact{
		LastRun: at,
		Results: []contracts.BacktestResult{{Algorithm: "canslim", Threshold: 50, TotalTrades: 3}},
	}))
	require.NoError(t, w.PublishStress(ctx, &contracts.StressArtifact{LastRun: at}))

	assert.FileExists(t, filepath.Join(dir, BacktestFile))
	assert.FileExists(t, filepath.Join(dir, StressFile))
	assert.FileExists(t, filepath.Join(dir, "archive", "backtest_2026-10-17.json"))
	assert.FileExists(t, filepath.Join(dir, "archive", "stress_2026-10-17.json"))

	data, err := w.ReadLive(BacktestFile)
	require.NoError(t, err)
	var artifact contracts.BacktestArtifact
	require.NoError(t, json.Unmarshal(data, &artifact))
	assert.Equal(t, 3, artifact.Results[0].TotalTrades)
}

func TestPublish_Errors(t *testing.T) {
	w, _ := newTestWriter(t)

	assert.Error(t, w.PublishPicks(context.Background(), nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := w.PublishPicks(ctx, picksArtifact(time.Now()))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = w.ReadLive(PicksFile)
	assert.True(t, errors.Is(err, contracts.ErrNoData))
}

func TestNewFileWriter_ArchiveDir(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "history")
	w := NewFileWriter(config.OutputConfig{Dir: dir, ArchiveDir: archive}, nil)

	at := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	require.NoError(t, w.PublishPicks(context.Background(), picksArtifact(at)))
	assert.FileExists(t, filepath.Join(archive, "picks_2026-10-14.json"))
}

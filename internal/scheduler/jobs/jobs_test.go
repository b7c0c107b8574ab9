package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-quant/internal/brain"
	"github.com/wonny/aegis-quant/internal/contracts"
)

type stubRunner struct {
	algorithms []string
	calls      []string
	err        error
}

func (r *stubRunner) RunPicks(_ context.Context, algorithms []string) (*brain.PicksResult, error) {
	r.algorithms = algorithms
	r.calls = append(r.calls, "picks")
	if r.err != nil {
		return nil, r.err
	}
	return &brain.PicksResult{RunID: "run-1", Artifact: &contracts.PicksArtifact{TotalPicks: 3}}, nil
}

func (r *stubRunner) RunBacktest(_ context.Context, _ []string, _ []float64) (*brain.ResearchResult, error) {
	r.calls = append(r.calls, "backtest")
	if r.err != nil {
		return nil, r.err
	}
	return &brain.ResearchResult{RunID: "bt", Backtest: &contracts.BacktestArtifact{}}, nil
}

func (r *stubRunner) RunStress(_ context.Context, _ []string) (*brain.ResearchResult, error) {
	r.calls = append(r.calls, "stress")
	return &brain.ResearchResult{RunID: "st", Stress: &contracts.StressArtifact{}}, nil
}

func TestDailyPicksJob(t *testing.T) {
	runner := &stubRunner{}
	job := NewDailyPicksJob(runner, "30 16 * * 1-5", []string{"canslim"}, nil)

	assert.Equal(t, "daily_picks", job.Name())
	assert.Equal(t, "30 16 * * 1-5", job.Schedule())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, []string{"canslim"}, runner.algorithms)

	runner.err = errors.New("boom")
	err := job.Run(context.Background())
	assert.ErrorContains(t, err, "picks run: boom")
}

func TestWeeklyResearchJob(t *testing.T) {
	runner := &stubRunner{}
	job := NewWeeklyResearchJob(runner, "0 10 * * 6", nil, nil)

	assert.Equal(t, "weekly_research", job.Name())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, []string{"backtest", "stress"}, runner.calls)

	// 백테스트 실패 시 스트레스 감사는 실행하지 않음
	failing := &stubRunner{err: errors.New("boom")}
	err := NewWeeklyResearchJob(failing, "0 10 * * 6", nil, nil).Run(context.Background())
	assert.ErrorContains(t, err, "backtest run")
	assert.Equal(t, []string{"backtest"}, failing.calls)
}

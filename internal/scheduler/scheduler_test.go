package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name     string
	schedule string
	failures int32 // 처음 N번 실패
	calls    atomic.Int32
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.schedule }

func (j *countingJob) Run(ctx context.Context) error {
	n := j.calls.Add(1)
	if n <= j.failures {
		return errors.New("upstream down")
	}
	return nil
}

func newTestScheduler(retries int) *Scheduler {
	return New(Config{MaxRetries: retries, RetryDelay: time.Millisecond}, nil)
}

func TestAddJob(t *testing.T) {
	s := newTestScheduler(0)

	require.NoError(t, s.AddJob(&countingJob{name: "b", schedule: "30 16 * * 1-5"}))
	require.NoError(t, s.AddJob(&countingJob{name: "a", schedule: "@weekly"}))
	assert.Equal(t, []string{"a", "b"}, s.GetAllJobs())

	err := s.AddJob(&countingJob{name: "a", schedule: "@daily"})
	assert.ErrorContains(t, err, "already exists")

	err = s.AddJob(&countingJob{name: "bad", schedule: "0 0 16 * * *"})
	assert.ErrorContains(t, err, "failed to schedule")
}

func TestNextRun(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	s := New(Config{Location: ny}, nil)
	require.NoError(t, s.AddJob(&countingJob{name: "picks", schedule: "30 16 * * 1-5"}))

	// Entry.Next는 Start 이후에만 계산됨
	s.Start()
	defer s.Stop()

	next, err := s.NextRun("picks")
	require.NoError(t, err)
	next = next.In(ny)
	assert.Equal(t, 16, next.Hour())
	assert.Equal(t, 30, next.Minute())
	assert.NotEqual(t, time.Saturday, next.Weekday())
	assert.NotEqual(t, time.Sunday, next.Weekday())

	_, err = s.NextRun("missing")
	assert.Error(t, err)
}

func TestRunJob_Retries(t *testing.T) {
	s := newTestScheduler(2)
	job := &countingJob{name: "picks", schedule: "@daily", failures: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob(context.Background(), "picks")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Empty(t, result.Error)

	history, err := s.GetJobHistory("picks")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Success)
}

func TestRunJob_FailsAfterRetries(t *testing.T) {
	s := newTestScheduler(1)
	job := &countingJob{name: "picks", schedule: "@daily", failures: 10}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob(context.Background(), "picks")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, "upstream down", result.Error)

	stats := s.GetJobStats()["picks"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1, stats.FailureCount)
	assert.Equal(t, 0.0, stats.SuccessRate)
	assert.NotNil(t, stats.LastFailure)
	assert.Nil(t, stats.LastSuccess)
}

func TestRunJob_CancelStopsRetries(t *testing.T) {
	s := New(Config{MaxRetries: 5, RetryDelay: time.Hour}, nil)
	job := &countingJob{name: "picks", schedule: "@daily", failures: 10}
	require.NoError(t, s.AddJob(job))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.RunJob(ctx, "picks")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
	assert.Contains(t, result.Error, "retry aborted")
}

func TestRemoveJob(t *testing.T) {
	s := newTestScheduler(0)
	require.NoError(t, s.AddJob(&countingJob{name: "picks", schedule: "@daily"}))

	require.NoError(t, s.RemoveJob("picks"))
	assert.Empty(t, s.GetAllJobs())
	assert.Error(t, s.RemoveJob("picks"))

	_, err := s.RunJob(context.Background(), "picks")
	assert.Error(t, err)
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	empty := h.Summary("x", "@daily")
	assert.Equal(t, 0, empty.TotalRuns)
	assert.Equal(t, 0.0, empty.SuccessRate)
	assert.Nil(t, empty.LastRun)

	base := time.Date(2026, 10, 1, 16, 30, 0, 0, time.UTC)
	for i := 0; i < maxHistory+10; i++ {
		h.AddResult(JobResult{
			JobName:   "x",
			StartTime: base.Add(time.Duration(i) * time.Hour),
			Success:   i%2 == 0,
		})
	}
	assert.Len(t, h.Results, maxHistory)
	assert.Equal(t, base.Add(10*time.Hour), h.Results[0].StartTime)

	stats := h.Summary("x", "@daily")
	assert.Equal(t, maxHistory, stats.TotalRuns)
	assert.Equal(t, maxHistory/2, stats.FailureCount)
	assert.InDelta(t, 0.5, stats.SuccessRate, 1e-9)

	// 마지막 실행은 실패 (i = 109), 마지막 성공은 그 직전
	last := base.Add(time.Duration(maxHistory+9) * time.Hour)
	assert.Equal(t, last, *stats.LastRun)
	assert.Equal(t, last, *stats.LastFailure)
	assert.Equal(t, last.Add(-time.Hour), *stats.LastSuccess)
}

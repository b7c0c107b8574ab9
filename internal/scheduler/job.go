package scheduler

import (
	"context"
	"time"
)

// Job is one cron-driven pipeline run (daily picks, weekly research)
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	Name() string

	// Run executes the job; the scheduler retries a returned error
	Run(ctx context.Context) error

	// Schedule returns a standard 5-field cron expression or descriptor,
	// interpreted in the scheduler's location.
	// e.g. "30 16 * * 1-5" (평일 16:30), "@weekly"
	Schedule() string
}

// JobResult is the outcome of one run including retries
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Attempts  int           `json:"attempts"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// maxHistory bounds the stored results per job
const maxHistory = 100

// JobHistory keeps the latest results of one job, oldest first
type JobHistory struct {
	Results []JobResult
}

// AddResult appends a result, dropping the oldest beyond maxHistory
func (h *JobHistory) AddResult(result JobResult) {
	h.Results = append(h.Results, result)

	if len(h.Results) > maxHistory {
		h.Results = h.Results[len(h.Results)-maxHistory:]
	}
}

// JobStats summarizes a job's stored history
type JobStats struct {
	JobName      string     `json:"job_name"`
	Schedule     string     `json:"schedule"`
	TotalRuns    int        `json:"total_runs"`
	SuccessCount int        `json:"success_count"`
	FailureCount int        `json:"failure_count"`
	SuccessRate  float64    `json:"success_rate"`
	LastRun      *time.Time `json:"last_run,omitempty"`
	LastSuccess  *time.Time `json:"last_success,omitempty"`
	LastFailure  *time.Time `json:"last_failure,omitempty"`
}

// Summary folds the history into stats
func (h *JobHistory) Summary(name, schedule string) JobStats {
	stats := JobStats{
		JobName:   name,
		Schedule:  schedule,
		TotalRuns: len(h.Results),
	}

	for i := range h.Results {
		r := &h.Results[i]
		start := r.StartTime
		stats.LastRun = &start
		if r.Success {
			stats.SuccessCount++
			stats.LastSuccess = &start
		} else {
			stats.FailureCount++
			stats.LastFailure = &start
		}
	}

	if stats.TotalRuns > 0 {
		stats.SuccessRate = float64(stats.SuccessCount) / float64(stats.TotalRuns)
	}
	return stats
}

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quant"

// Registry holds every Prometheus collector of the engine
// ⭐ SSOT: 메트릭 정의는 여기서만
type Registry struct {
	registry *prometheus.Registry

	FetchTotal    *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	CacheResults  *prometheus.CounterVec
	BreakerState  *prometheus.GaugeVec

	ScoresTotal *prometheus.CounterVec

	PipelineRuns     *prometheus.CounterVec
	PipelineDuration *prometheus.HistogramVec
	PicksPublished   prometheus.Gauge
}

// New creates a registry with all collectors registered
func New() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		FetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_total",
				Help:      "Upstream fetches by source and status",
			},
			[]string{"source", "status"},
		),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Upstream fetch latency",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
			},
			[]string{"source"},
		),
		CacheResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_results_total",
				Help:      "Snapshot cache lookups by result",
			},
			[]string{"result"},
		),
		BreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "breaker_state",
				Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"name"},
		),
		ScoresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scores_total",
				Help:      "Scores produced by algorithm and rating",
			},
			[]string{"algorithm", "rating"},
		),
		PipelineRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_runs_total",
				Help:      "Pipeline runs by pipeline and result",
			},
			[]string{"pipeline", "result"},
		),
		PipelineDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pipeline_duration_seconds",
				Help:      "Pipeline wall time",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
			},
			[]string{"pipeline"},
		),
		PicksPublished: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "picks_published",
				Help:      "Number of picks in the last published artifact",
			},
		),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.FetchTotal,
		r.FetchDuration,
		r.CacheResults,
		r.BreakerState,
		r.ScoresTotal,
		r.PipelineRuns,
		r.PipelineDuration,
		r.PicksPublished,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Every recorder below is a no-op on a nil *Registry so callers can run without metrics.

// ObserveFetch records one upstream call
func (r *Registry) ObserveFetch(source string, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.FetchTotal.WithLabelValues(source, status(err)).Inc()
	r.FetchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// ObserveCache records a cache hit or miss
func (r *Registry) ObserveCache(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.CacheResults.WithLabelValues(result).Inc()
}

// SetBreakerState records the numeric breaker state
func (r *Registry) SetBreakerState(name string, state int) {
	if r == nil {
		return
	}
	r.BreakerState.WithLabelValues(name).Set(float64(state))
}

// ObserveScore records one produced score
func (r *Registry) ObserveScore(algorithm, rating string) {
	if r == nil {
		return
	}
	r.ScoresTotal.WithLabelValues(algorithm, rating).Inc()
}

// ObservePipeline records one pipeline run
func (r *Registry) ObservePipeline(pipeline string, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.PipelineRuns.WithLabelValues(pipeline, status(err)).Inc()
	r.PipelineDuration.WithLabelValues(pipeline).Observe(elapsed.Seconds())
}

// SetPicksPublished records the size of the last published artifact
func (r *Registry) SetPicksPublished(n int) {
	if r == nil {
		return
	}
	r.PicksPublished.Set(float64(n))
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

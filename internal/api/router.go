package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/aegis-quant/internal/api/handlers"
	"github.com/wonny/aegis-quant/pkg/logger"
	"github.com/wonny/aegis-quant/pkg/metrics"
)

// Handlers groups the endpoint handlers
type Handlers struct {
	Artifacts *handlers.ArtifactHandler
	Score     *handlers.ScoreHandler
	Universe  *handlers.UniverseHandler
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, reg *metrics.Registry, log *logger.Logger) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Prometheus
	if reg != nil {
		r.Handle("/metrics", reg.Handler()).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()

	// Artifacts
	api.HandleFunc("/picks/latest", h.Artifacts.GetLatestPicks).Methods("GET")
	api.HandleFunc("/backtest/latest", h.Artifacts.GetLatestBacktest).Methods("GET")
	api.HandleFunc("/stress/latest", h.Artifacts.GetLatestStress).Methods("GET")
	api.HandleFunc("/data/quality", h.Artifacts.GetQuality).Methods("GET")

	// Scoring
	api.HandleFunc("/score/{symbol}/{algorithm}", h.Score.GetScore).Methods("GET")

	// Universe
	api.HandleFunc("/universe", h.Universe.ListNames).Methods("GET")
	api.HandleFunc("/universe/{name}", h.Universe.GetUniverse).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "aegis-quant-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Call next handler
			next.ServeHTTP(w, r)

			// Log request
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

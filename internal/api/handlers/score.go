package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/pkg/logger"
)

// SymbolScorer scores one symbol on demand
type SymbolScorer interface {
	ScoreSymbol(ctx context.Context, symbol, algorithm string, tf contracts.Timeframe) (*contracts.Score, error)
}

// ScoreHandler handles ad hoc re-scoring
type ScoreHandler struct {
	scorer SymbolScorer
	logger *logger.Logger
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(scorer SymbolScorer, log *logger.Logger) *ScoreHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ScoreHandler{scorer: scorer, logger: log}
}

// GetScore returns one Score or {error}
// GET /api/score/{symbol}/{algorithm}?timeframe=3m
func (h *ScoreHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	symbol := strings.ToUpper(strings.TrimSpace(vars["symbol"]))
	algorithm := vars["algorithm"]
	tf := contracts.Timeframe(r.URL.Query().Get("timeframe"))

	score, err := h.scorer.ScoreSymbol(r.Context(), symbol, algorithm, tf)
	if err != nil {
		status := statusFor(err)
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"symbol":    symbol,
			"algorithm": algorithm,
			"status":    status,
		}).Warn("Score request failed")
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, score)
}

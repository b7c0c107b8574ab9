package handlers

import (
	"context"
	"net/http"

	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/publish"
	"github.com/wonny/aegis-quant/pkg/logger"
)

// ArtifactReader returns published artifact bytes
type ArtifactReader interface {
	ReadLive(name string) ([]byte, error)
}

// QualityReader returns the latest quality gate result
type QualityReader interface {
	GetLatestSnapshot(ctx context.Context) (*contracts.DataQualitySnapshot, error)
}

// ArtifactHandler serves the published run outputs
// ⭐ SSOT: 결과 파일 API는 이 구조체에서만
type ArtifactHandler struct {
	artifacts ArtifactReader
	quality   QualityReader
	logger    *logger.Logger
}

// NewArtifactHandler creates a new artifact handler; quality may be nil
func NewArtifactHandler(artifacts ArtifactReader, quality QualityReader, log *logger.Logger) *ArtifactHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ArtifactHandler{artifacts: artifacts, quality: quality, logger: log}
}

// GetLatestPicks returns the live picks artifact
// GET /api/picks/latest
func (h *ArtifactHandler) GetLatestPicks(w http.ResponseWriter, r *http.Request) {
	h.serve(w, publish.PicksFile)
}

// GetLatestBacktest returns the live backtest artifact
// GET /api/backtest/latest
func (h *ArtifactHandler) GetLatestBacktest(w http.ResponseWriter, r *http.Request) {
	h.serve(w, publish.BacktestFile)
}

// GetLatestStress returns the live stress audit artifact
// GET /api/stress/latest
func (h *ArtifactHandler) GetLatestStress(w http.ResponseWriter, r *http.Request) {
	h.serve(w, publish.StressFile)
}

// GetQuality returns the latest data quality snapshot
// GET /api/data/quality
func (h *ArtifactHandler) GetQuality(w http.ResponseWriter, r *http.Request) {
	if h.quality == nil {
		respondError(w, http.StatusServiceUnavailable, "quality history requires a database")
		return
	}

	snapshot, err := h.quality.GetLatestSnapshot(r.Context())
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.WithError(err).Error("Failed to get quality snapshot")
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// 파일 내용을 그대로 전달 (Score.Indicators는 인터페이스라 역직렬화 불가)
func (h *ArtifactHandler) serve(w http.ResponseWriter, name string) {
	data, err := h.artifacts.ReadLive(name)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.WithError(err).WithField("artifact", name).Error("Failed to read artifact")
		}
		respondError(w, status, err.Error())
		return
	}
	respondRaw(w, http.StatusOK, data)
}

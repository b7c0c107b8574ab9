package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/aegis-quant/internal/contracts"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondRaw writes an already-encoded JSON document
func respondRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// statusFor maps domain sentinels to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, contracts.ErrUnknownAlgorithm),
		errors.Is(err, contracts.ErrUnknownTimeframe):
		return http.StatusBadRequest
	case errors.Is(err, contracts.ErrNoData),
		errors.Is(err, contracts.ErrUnknownUniverse):
		return http.StatusNotFound
	case errors.Is(err, contracts.ErrInsufficientHistory),
		errors.Is(err, contracts.ErrNoScore):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

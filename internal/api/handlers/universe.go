package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/aegis-quant/internal/contracts"
)

// UniverseLister exposes the named candidate lists
type UniverseLister interface {
	Names() []string
	List(name string) (*contracts.Universe, error)
	All() *contracts.Universe
}

// UniverseHandler handles universe endpoints
type UniverseHandler struct {
	lists UniverseLister
}

// NewUniverseHandler creates a new universe handler
func NewUniverseHandler(lists UniverseLister) *UniverseHandler {
	return &UniverseHandler{lists: lists}
}

// ListNames returns every list name
// GET /api/universe
func (h *UniverseHandler) ListNames(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"lists": h.lists.Names(),
	})
}

// GetUniverse returns one list; "all" is the deduplicated union
// GET /api/universe/{name}
func (h *UniverseHandler) GetUniverse(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name == "all" {
		respondJSON(w, http.StatusOK, h.lists.All())
		return
	}

	u, err := h.lists.List(name)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, u)
}

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ugaemi/binsort-server/internal/asset"
	"github.com/ugaemi/binsort-server/internal/store"
)

// ResultsHandler serves the results board.
type ResultsHandler struct {
	store store.ResultStore
}

func NewResultsHandler(s store.ResultStore) *ResultsHandler {
	return &ResultsHandler{store: s}
}

// List handles GET /results?limit=N.
func (h *ResultsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "limit must be an integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	results, err := h.store.Top(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list results", "error", err)
		http.Error(w, "failed to list results", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// Get handles GET /results/{id}.
func (h *ResultsHandler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.store.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("failed to load result", "error", err)
		http.Error(w, "failed to load result", http.StatusInternalServerError)
		return
	}
	if res == nil {
		http.Error(w, "result not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// AssetStats handles GET /assets with the image count per category.
func AssetStats(c *asset.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, c.Stats())
	}
}

// Health handles GET /health.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

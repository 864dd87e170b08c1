// Package handlers provides HTTP handlers for the ranking report.
package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/guyc74/stocks/internal/domain"
	"github.com/guyc74/stocks/internal/modules/charts"
	"github.com/guyc74/stocks/internal/modules/report"
	"github.com/guyc74/stocks/internal/modules/scoring"
	"github.com/rs/zerolog"
)

const defaultRunLimit = 20

// RunLister reads stored ranking runs
type RunLister interface {
	ListRuns(limit int) ([]scoring.Run, error)
	LatestRun() (*scoring.Run, error)
}

// Rescorer recomputes the ranking on demand
type Rescorer interface {
	Run() error
}

// Handler handles report HTTP requests
type Handler struct {
	holder   *report.Holder
	runs     RunLister
	chartDir string
	rescorer Rescorer
	log      zerolog.Logger
}

// NewHandler creates a new report handler
func NewHandler(
	holder *report.Holder,
	runs RunLister,
	chartDir string,
	rescorer Rescorer,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		holder:   holder,
		runs:     runs,
		chartDir: chartDir,
		rescorer: rescorer,
		log:      log.With().Str("handler", "report").Logger(),
	}
}

// HandleGetSecurities handles GET /api/securities
func (h *Handler) HandleGetSecurities(w http.ResponseWriter, r *http.Request) {
	rows := h.holder.Rows()
	if rows == nil {
		rows = []report.Row{}
	}

	metadata := map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
		"count":     len(rows),
	}
	if latest := h.holder.Latest(); latest != nil {
		metadata["run_id"] = latest.Run.ID
		metadata["reference_year"] = latest.Run.ReferenceYear
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":     rows,
		"metadata": metadata,
	})
}

// HandleGetSecurity handles GET /api/securities/{id}
func (h *Handler) HandleGetSecurity(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "Invalid security id", http.StatusBadRequest)
		return
	}

	row, found := h.holder.Row(id)
	if !found {
		http.Error(w, "Security not found", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": row,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleListRuns handles GET /api/runs
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := h.runs.ListRuns(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list runs")
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []scoring.Run{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": runs,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
			"count":     len(runs),
		},
	})
}

// HandleGetLatestRun handles GET /api/runs/latest
func (h *Handler) HandleGetLatestRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.runs.LatestRun()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get latest run")
		http.Error(w, "Failed to get latest run", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "No runs stored", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": run,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetChart handles GET /api/charts/{chart}/{id}
func (h *Handler) HandleGetChart(w http.ResponseWriter, r *http.Request) {
	chart := chi.URLParam(r, "chart")
	if !charts.IsChart(chart) {
		http.Error(w, "Unknown chart", http.StatusNotFound)
		return
	}
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "Invalid security id", http.StatusBadRequest)
		return
	}

	path := filepath.Join(h.chartDir, charts.FileName(chart, id))
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "Chart not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, path)
}

// HandleRescore handles POST /api/rescore
func (h *Handler) HandleRescore(w http.ResponseWriter, r *http.Request) {
	if h.rescorer == nil {
		http.Error(w, "Rescore job not registered", http.StatusServiceUnavailable)
		return
	}

	h.log.Info().Msg("Manual rescore triggered")
	if err := h.rescorer.Run(); err != nil {
		h.log.Error().Err(err).Msg("Manual rescore failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{"status": "success"}
	if latest := h.holder.Latest(); latest != nil {
		data["run_id"] = latest.Run.ID
		data["securities"] = len(latest.Rows)
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func parseID(raw string) (domain.SecurityID, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return domain.SecurityID(id), true
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// Package handlers provides HTTP handlers for the stored universe.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/guyc74/stocks/internal/domain"
	"github.com/guyc74/stocks/internal/modules/universe"
	"github.com/rs/zerolog"
)

// SecurityStore reads and updates the universe mirror
type SecurityStore interface {
	LoadAll() (*universe.Store, error)
	SetSkip(id domain.SecurityID, skip bool) error
}

// SecuritySummary is the listing view of a stored security
type SecuritySummary struct {
	SecurityID    domain.SecurityID `json:"security_id"`
	Name          string            `json:"name"`
	Price         float64           `json:"price"`
	MarketCapital float64           `json:"market_capital"`
	Skip          bool              `json:"skip"`
	Facts         int               `json:"facts"`
}

// SecurityDetail is a stored security with every attribute in its
// persisted text form
type SecurityDetail struct {
	SecuritySummary
	Attributes map[string]string `json:"attributes"`
}

// UniverseHandlers handles universe HTTP requests
type UniverseHandlers struct {
	securities SecurityStore
	log        zerolog.Logger
}

// NewUniverseHandlers creates a new universe handlers instance
func NewUniverseHandlers(securities SecurityStore, log zerolog.Logger) *UniverseHandlers {
	return &UniverseHandlers{
		securities: securities,
		log:        log.With().Str("handler", "universe").Logger(),
	}
}

// HandleGetSecurities returns every stored security, skipped ones included
// GET /api/universe
func (h *UniverseHandlers) HandleGetSecurities(w http.ResponseWriter, r *http.Request) {
	store, err := h.securities.LoadAll()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load universe")
		http.Error(w, "Failed to load universe", http.StatusInternalServerError)
		return
	}

	records := store.All()
	summaries := make([]SecuritySummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, summarize(rec))
	}

	h.writeData(w, summaries)
}

// HandleGetSecurity returns one stored security with its attributes
// GET /api/universe/{id}
func (h *UniverseHandlers) HandleGetSecurity(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "Invalid security id", http.StatusBadRequest)
		return
	}

	store, err := h.securities.LoadAll()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load universe")
		http.Error(w, "Failed to load universe", http.StatusInternalServerError)
		return
	}

	rec, err := store.Get(id)
	if err != nil {
		http.Error(w, "Security not found", http.StatusNotFound)
		return
	}

	attributes := make(map[string]string)
	for _, k := range rec.Keys() {
		if v, ok := rec.Attribute(k); ok {
			attributes[k.String()] = v.String()
		}
	}
	for k, raw := range rec.Extra() {
		attributes[k] = raw
	}

	h.writeData(w, SecurityDetail{
		SecuritySummary: summarize(rec),
		Attributes:      attributes,
	})
}

// HandleSetSkip sets or clears the skip marker
// PUT /api/universe/{id}/skip
func (h *UniverseHandlers) HandleSetSkip(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "Invalid security id", http.StatusBadRequest)
		return
	}

	var req struct {
		Skip *bool `json:"skip"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Skip == nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.securities.SetSkip(id, *req.Skip); err != nil {
		if errors.Is(err, universe.ErrNotFound) {
			http.Error(w, "Security not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Int64("id", int64(id)).Msg("Failed to update skip marker")
		http.Error(w, "Failed to update security", http.StatusInternalServerError)
		return
	}

	h.log.Info().Int64("id", int64(id)).Bool("skip", *req.Skip).Msg("Skip marker updated")
	h.writeData(w, map[string]interface{}{
		"security_id": id,
		"skip":        *req.Skip,
	})
}

func summarize(rec *universe.Record) SecuritySummary {
	return SecuritySummary{
		SecurityID:    rec.ID(),
		Name:          rec.Name(),
		Price:         rec.Price(),
		MarketCapital: rec.MarketCapital(),
		Skip:          rec.Skip(),
		Facts:         len(rec.Facts()),
	}
}

func parseID(raw string) (domain.SecurityID, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return domain.SecurityID(id), true
}

func (h *UniverseHandlers) writeData(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	err := json.NewEncoder(w).Encode(map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

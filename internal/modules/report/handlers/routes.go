package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers all report routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/securities", func(r chi.Router) {
		r.Get("/", h.HandleGetSecurities)
		r.Get("/{id}", h.HandleGetSecurity)
	})

	r.Route("/runs", func(r chi.Router) {
		r.Get("/", h.HandleListRuns)
		r.Get("/latest", h.HandleGetLatestRun)
	})

	r.Get("/charts/{chart}/{id}", h.HandleGetChart)
	r.Post("/rescore", h.HandleRescore)
}

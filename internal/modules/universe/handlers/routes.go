package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers all universe routes
func (h *UniverseHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/universe", func(r chi.Router) {
		r.Get("/", h.HandleGetSecurities)
		r.Get("/{id}", h.HandleGetSecurity)
		r.Put("/{id}/skip", h.HandleSetSkip)
	})
}

// internal/app/features/library/routes.go
package library

import "github.com/go-chi/chi/v5"

// MountRoutes registers the library search and detail endpoints. Identity
// middleware is applied upstream in bootstrap; the handlers only read the
// owner already placed on the request context.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/library/search", h.ServeSearch)
	r.Post("/library/search/retry", h.HandleRetry)
	r.Get("/library/resources/{id}", h.ServeDetail)
	r.Post("/library/resources/close", h.HandleDetailClose)
}

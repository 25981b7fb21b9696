// internal/app/features/links/routes.go
package links

import "github.com/go-chi/chi/v5"

// MountRoutes registers the link-health lookup endpoint.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/links/status", h.ServeStatus)
}

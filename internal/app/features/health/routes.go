// internal/app/features/health/routes.go
package health

import "github.com/go-chi/chi/v5"

// MountRoutes registers GET /health on the supplied router.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/health", h.Serve)
}

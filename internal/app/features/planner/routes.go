// internal/app/features/planner/routes.go
package planner

import "github.com/go-chi/chi/v5"

// MountRoutes registers the planner endpoints under /planner. Identity
// middleware is applied upstream in bootstrap.
func MountRoutes(r chi.Router, h *Handler) {
	r.Route("/planner/draft", func(pr chi.Router) {
		pr.Get("/", h.ServeDraft)
		pr.Post("/meta", h.HandleMeta)

		pr.Post("/steps", h.HandleAddStep)
		pr.Post("/steps/reorder", h.HandleReorder)
		pr.Post("/steps/{id}", h.HandlePatchStep)
		pr.Post("/steps/{id}/duplicate", h.HandleDuplicateStep)
		pr.Post("/steps/{id}/delete", h.HandleDeleteStep)
		pr.Post("/steps/{id}/resources", h.HandleAttachResource)
		pr.Post("/steps/{id}/resources/{lid}/delete", h.HandleDetachResource)

		pr.Get("/savestate", h.ServeSaveState)
		pr.Post("/flush", h.HandleFlush)
		pr.Get("/export/teacher", h.ServeExportTeacher)
		pr.Get("/export/student", h.ServeExportStudent)
	})
}

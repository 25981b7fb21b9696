// internal/app/features/planner/export.go
package planner

import (
	"fmt"
	"net/http"

	"github.com/dalemusser/lessondesk/internal/app/system/export"
	"github.com/dalemusser/lessondesk/internal/app/system/linkhealth"
	"go.uber.org/zap"
)

// ServeExportTeacher handles GET /planner/draft/export/teacher. The teacher
// copy includes per-step notes and a link warnings section built from the
// health index; a lookup failure degrades to no warnings rather than
// blocking the download.
func (h *Handler) ServeExportTeacher(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	d := s.snapshot()

	statuses, err := h.health.Lookup(r.Context(), linkhealth.DraftURLs(d))
	if err != nil {
		h.Log.Warn("planner: link status lookup failed for export", zap.Error(err))
		statuses = nil
	}

	serveDownload(w, export.FileName(d.Title, "teacher"), export.Teacher(d, statuses))
}

// ServeExportStudent handles GET /planner/draft/export/student. The student
// copy omits notes and link warnings.
func (h *Handler) ServeExportStudent(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	d := s.snapshot()
	serveDownload(w, export.FileName(d.Title, "student"), export.Student(d, nil))
}

func serveDownload(w http.ResponseWriter, filename, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write([]byte(body))
}

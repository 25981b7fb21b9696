// internal/app/features/planner/draft.go
package planner

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/lessondesk/internal/app/system/identity"
	"github.com/dalemusser/lessondesk/internal/domain/models"
	"go.uber.org/zap"
)

// ServeDraft handles GET /planner/draft. The first request for an identity
// loads the most recent draft or seeds a new one with a single empty step.
func (h *Handler) ServeDraft(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	writeDraft(w, s.snapshot())
}

// requireSession resolves the identity and its editor session, writing the
// error response itself when either is unavailable.
func (h *Handler) requireSession(w http.ResponseWriter, r *http.Request) (*editorSession, bool) {
	owner, ok := identity.Owner(r)
	if !ok {
		http.Error(w, "identity required", http.StatusUnauthorized)
		return nil, false
	}
	s, err := h.session(r.Context(), owner)
	if err != nil {
		h.Log.Error("planner: session load failed", zap.Error(err))
		http.Error(w, "failed to load draft", http.StatusInternalServerError)
		return nil, false
	}
	return s, true
}

func writeDraft(w http.ResponseWriter, d models.Draft) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(d)
}

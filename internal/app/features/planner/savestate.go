// internal/app/features/planner/savestate.go
package planner

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// saveStateResponse is the JSON shape the editor polls for its save badge.
type saveStateResponse struct {
	State     string     `json:"state"`
	LastSaved *time.Time `json:"last_saved,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

func saveState(s *editorSession) saveStateResponse {
	resp := saveStateResponse{State: string(s.saver.State())}
	if t := s.saver.LastSaved(); !t.IsZero() {
		resp.LastSaved = &t
	}
	if err := s.saver.LastError(); err != nil {
		resp.LastError = err.Error()
	}
	return resp
}

// ServeSaveState handles GET /planner/draft/savestate.
func (h *Handler) ServeSaveState(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(saveState(s))
}

// HandleFlush handles POST /planner/draft/flush: force any pending debounce
// to save now. Used before navigation away and by tests.
func (h *Handler) HandleFlush(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	if err := s.saver.Flush(r.Context()); err != nil {
		h.Log.Warn("planner: flush failed", zap.Error(err))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(saveState(s))
}

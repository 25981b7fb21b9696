// internal/app/features/library/detail.go
package library

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/lessondesk/internal/app/system/discovery"
	"github.com/dalemusser/lessondesk/internal/app/system/identity"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeDetail handles GET /library/resources/{id}.
//
// The detail panel caches fetched records for a bounded TTL, so repeatedly
// opening the same resource does not refetch. Opening a different resource
// repoints the panel; a fetch that completes after a repoint is discarded
// and reported as a conflict.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity.Owner(r)
	if !ok {
		http.Error(w, "identity required", http.StatusUnauthorized)
		return
	}
	_, detail, err := h.src.Search(r.Context(), owner)
	if err != nil {
		h.Log.Error("library: session load failed", zap.Error(err))
		http.Error(w, "failed to open search session", http.StatusInternalServerError)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid resource id", http.StatusBadRequest)
		return
	}

	res, err := detail.Open(r.Context(), id)
	switch {
	case errors.Is(err, discovery.ErrPanelMoved):
		http.Error(w, "detail panel moved", http.StatusConflict)
		return
	case errors.Is(err, mongo.ErrNoDocuments):
		http.Error(w, "resource not found", http.StatusNotFound)
		return
	case err != nil:
		h.Log.Error("library: detail fetch failed", zap.Error(err))
		http.Error(w, "failed to load resource", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

// HandleDetailClose handles POST /library/resources/close. Closing the panel
// drops any in-flight fetch result.
func (h *Handler) HandleDetailClose(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity.Owner(r)
	if !ok {
		http.Error(w, "identity required", http.StatusUnauthorized)
		return
	}
	_, detail, err := h.src.Search(r.Context(), owner)
	if err != nil {
		h.Log.Error("library: session load failed", zap.Error(err))
		http.Error(w, "failed to open search session", http.StatusInternalServerError)
		return
	}
	detail.Close()
	w.WriteHeader(http.StatusNoContent)
}

// internal/app/features/links/handler.go
package links

import (
	"encoding/json"
	"net/http"

	linkstatusstore "github.com/dalemusser/lessondesk/internal/app/store/linkstatus"
	"github.com/dalemusser/lessondesk/internal/app/system/linkhealth"
	"github.com/dalemusser/lessondesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves batch link-health lookups against the status index the
// background checker maintains.
type Handler struct {
	Log    *zap.Logger
	health *linkhealth.Service
}

// NewHandler constructs a links Handler bound to the given Mongo database
// and logger.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Log:    logger,
		health: linkhealth.New(linkstatusstore.New(db)),
	}
}

// ServeStatus handles GET /links/status?url=...&url=...
//
// The response maps each requested URL to its status row. URLs the checker
// has not visited yet come back healthy; unknown is not a warning state.
func (h *Handler) ServeStatus(w http.ResponseWriter, r *http.Request) {
	urls := r.URL.Query()["url"]

	statuses, err := h.health.Lookup(r.Context(), urls)
	if err != nil {
		h.Log.Error("links: status lookup failed", zap.Error(err))
		http.Error(w, "failed to load link status", http.StatusInternalServerError)
		return
	}

	out := make(map[string]models.LinkStatus, len(urls))
	for _, u := range urls {
		out[u] = linkhealth.StatusFor(statuses, u)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

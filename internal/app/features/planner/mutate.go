// internal/app/features/planner/mutate.go
package planner

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/lessondesk/internal/app/system/draftops"
	"github.com/dalemusser/lessondesk/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleMeta handles POST /planner/draft/meta: a shallow merge of the
// draft-level fields (title, objective, stage, subject, lesson date, logo).
func (h *Handler) HandleMeta(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	var p draftops.MetaPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid patch body", http.StatusBadRequest)
		return
	}
	// Empty clears the field; anything else must be a known stage.
	if p.Stage != nil && *p.Stage != "" && !models.IsValidStage(*p.Stage) {
		http.Error(w, "unknown stage", http.StatusBadRequest)
		return
	}
	writeDraft(w, s.apply(func(d models.Draft) models.Draft {
		return draftops.PatchMeta(d, p)
	}))
}

// HandleAddStep handles POST /planner/draft/steps.
func (h *Handler) HandleAddStep(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	writeDraft(w, s.apply(draftops.AddStep))
}

// HandleDuplicateStep handles POST /planner/draft/steps/{id}/duplicate.
// An unknown step id is a no-op that still returns the current draft.
func (h *Handler) HandleDuplicateStep(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	stepID := chi.URLParam(r, "id")
	writeDraft(w, s.apply(func(d models.Draft) models.Draft {
		return draftops.DuplicateStep(d, stepID)
	}))
}

// HandleDeleteStep handles POST /planner/draft/steps/{id}/delete. Removing
// the last step re-seeds one empty step so the editor never shows an empty
// plan.
func (h *Handler) HandleDeleteStep(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	stepID := chi.URLParam(r, "id")
	writeDraft(w, s.apply(func(d models.Draft) models.Draft {
		d = draftops.RemoveStep(d, stepID)
		if len(d.Steps) == 0 {
			d = draftops.AddStep(d)
		}
		return d
	}))
}

type reorderRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// HandleReorder handles POST /planner/draft/steps/reorder with body
// {"from": stepID, "to": stepID}: the dragged step lands at the target
// step's position.
func (h *Handler) HandleReorder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid reorder body", http.StatusBadRequest)
		return
	}
	writeDraft(w, s.apply(func(d models.Draft) models.Draft {
		return draftops.ReorderSteps(d, req.From, req.To)
	}))
}

// HandlePatchStep handles POST /planner/draft/steps/{id}: shallow merge of
// step fields.
func (h *Handler) HandlePatchStep(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	stepID := chi.URLParam(r, "id")
	var p draftops.StepPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid patch body", http.StatusBadRequest)
		return
	}
	if p.Grouping != nil && *p.Grouping != "" && !models.IsValidGrouping(*p.Grouping) {
		http.Error(w, "unknown grouping", http.StatusBadRequest)
		return
	}
	if p.DeliveryMode != nil && *p.DeliveryMode != "" && !models.IsValidDeliveryMode(*p.DeliveryMode) {
		http.Error(w, "unknown delivery mode", http.StatusBadRequest)
		return
	}
	writeDraft(w, s.apply(func(d models.Draft) models.Draft {
		return draftops.PatchStep(d, stepID, p)
	}))
}

type attachRequest struct {
	ResourceID string `json:"resource_id"`
}

// HandleAttachResource handles POST /planner/draft/steps/{id}/resources.
// The library record is fetched fresh so the link carries the resource's
// current metadata. Attaching a resource already on the step replaces its
// link.
func (h *Handler) HandleAttachResource(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	stepID := chi.URLParam(r, "id")

	var req attachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid attach body", http.StatusBadRequest)
		return
	}
	resID, err := primitive.ObjectIDFromHex(req.ResourceID)
	if err != nil {
		http.Error(w, "invalid resource id", http.StatusBadRequest)
		return
	}

	res, err := h.resources.GetByID(r.Context(), resID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, "resource not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Log.Error("planner: resource fetch failed", zap.Error(err))
		http.Error(w, "failed to load resource", http.StatusInternalServerError)
		return
	}

	writeDraft(w, s.apply(func(d models.Draft) models.Draft {
		return draftops.AttachResource(d, stepID, res)
	}))
}

// HandleDetachResource handles
// POST /planner/draft/steps/{id}/resources/{lid}/delete.
func (h *Handler) HandleDetachResource(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	stepID := chi.URLParam(r, "id")
	linkID := chi.URLParam(r, "lid")
	writeDraft(w, s.apply(func(d models.Draft) models.Draft {
		return draftops.DetachResource(d, stepID, linkID)
	}))
}

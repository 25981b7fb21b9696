// internal/app/features/library/search.go
package library

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dalemusser/lessondesk/internal/app/system/discovery"
	"github.com/dalemusser/lessondesk/internal/app/system/identity"
	"github.com/dalemusser/lessondesk/internal/domain/models"
	"go.uber.org/zap"
)

// ServeSearch handles GET /library/search.
//
// Query parameters:
//
//	q         free-text search (debounced inside the session)
//	types     comma-separated resource types
//	subjects  comma-separated subjects
//	stages    comma-separated stages
//	tags      comma-separated tags
//	page      minimum page depth to have loaded (default 1)
//	visible   last visible row index; triggers the near-end auto-load
//
// The handler reconciles the request's filter against the session's current
// one: structural changes refresh page 1 immediately, a text-only change
// goes through the debounce, and an unchanged filter just reads. The
// response is the session's aggregated view after it settles, so a store
// failure shows up as an inline error on the view rather than a bare 500.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity.Owner(r)
	if !ok {
		http.Error(w, "identity required", http.StatusUnauthorized)
		return
	}
	ctx := r.Context()
	search, _, err := h.src.Search(ctx, owner)
	if err != nil {
		h.Log.Error("library: session load failed", zap.Error(err))
		http.Error(w, "failed to open search session", http.StatusInternalServerError)
		return
	}

	want := filterFromQuery(r.URL.Query())
	cur := search.Filter()
	v := search.Snapshot()

	switch {
	case want.IsZero() && !cur.IsZero():
		if err := search.Clear(ctx); err != nil && !errors.Is(err, discovery.ErrSuperseded) {
			h.Log.Warn("library: clear failed", zap.Error(err))
		}
	case v.Page == 0 && !v.Loading, !structuralEqual(want, cur):
		if err := search.SetFilter(ctx, want); err != nil && !errors.Is(err, discovery.ErrSuperseded) {
			h.Log.Warn("library: filter refresh failed", zap.Error(err))
		}
	case want.Search != cur.Search:
		search.SetSearch(want.Search)
	}

	if err := search.WaitSettled(ctx); err != nil {
		// Client went away mid-debounce; nothing useful to write.
		return
	}

	if raw := r.URL.Query().Get("visible"); raw != "" {
		if last, err := strconv.Atoi(raw); err == nil {
			if err := search.MaybeLoadMore(ctx, last); err != nil && !errors.Is(err, discovery.ErrSuperseded) {
				h.Log.Warn("library: auto-load failed", zap.Error(err))
			}
			_ = search.WaitSettled(ctx)
		}
	}

	if wantPage, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && wantPage > 1 {
		for {
			v := search.Snapshot()
			if v.Page >= wantPage || !v.HasMore || v.Err != "" {
				break
			}
			if err := search.LoadMore(ctx); err != nil && !errors.Is(err, discovery.ErrSuperseded) {
				h.Log.Warn("library: load more failed", zap.Error(err))
				break
			}
			if err := search.WaitSettled(ctx); err != nil {
				return
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(search.Snapshot())
}

// HandleRetry handles POST /library/search/retry: re-issues the request that
// last failed and returns the settled view.
func (h *Handler) HandleRetry(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity.Owner(r)
	if !ok {
		http.Error(w, "identity required", http.StatusUnauthorized)
		return
	}
	search, _, err := h.src.Search(r.Context(), owner)
	if err != nil {
		h.Log.Error("library: session load failed", zap.Error(err))
		http.Error(w, "failed to open search session", http.StatusInternalServerError)
		return
	}

	if err := search.Retry(r.Context()); err != nil && !errors.Is(err, discovery.ErrSuperseded) {
		h.Log.Warn("library: retry failed", zap.Error(err))
	}
	if err := search.WaitSettled(r.Context()); err != nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(search.Snapshot())
}

func filterFromQuery(q url.Values) models.FilterState {
	return models.FilterState{
		Search:   strings.TrimSpace(q.Get("q")),
		Types:    splitCSV(q.Get("types")),
		Subjects: splitCSV(q.Get("subjects")),
		Stages:   splitCSV(q.Get("stages")),
		Tags:     splitCSV(q.Get("tags")),
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// structuralEqual ignores the free-text field; text changes debounce while
// structural ones refresh immediately.
func structuralEqual(a, b models.FilterState) bool {
	return eqStrings(a.Types, b.Types) &&
		eqStrings(a.Subjects, b.Subjects) &&
		eqStrings(a.Stages, b.Stages) &&
		eqStrings(a.Tags, b.Tags)
}

func eqStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// internal/app/features/planner/session.go
package planner

import (
	"context"
	"errors"
	"sync"

	"github.com/dalemusser/lessondesk/internal/app/system/autosave"
	"github.com/dalemusser/lessondesk/internal/app/system/discovery"
	"github.com/dalemusser/lessondesk/internal/app/system/draftops"
	"github.com/dalemusser/lessondesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// editorSession is the single writer for one identity's draft. The draft is
// only ever mutated here, through the pure mutation functions, and every
// mutation feeds the autosave coordinator. The session also owns the
// library search state so the picker's filters survive close/reopen within
// one editing session.
type editorSession struct {
	mu     sync.Mutex
	draft  models.Draft
	saver  *autosave.Coordinator
	search *discovery.Session
	detail *discovery.DetailPanel
}

// session returns the editor session for an owner, creating it on first
// use. Creation loads the owner's most recent draft, or seeds a fresh one
// with a single empty step. The freshly loaded snapshot hydrates the
// autosave coordinator without triggering a save.
func (h *Handler) session(ctx context.Context, owner string) (*editorSession, error) {
	h.mu.Lock()
	if s, ok := h.sessions[owner]; ok {
		h.mu.Unlock()
		return s, nil
	}
	h.mu.Unlock()

	d, err := h.drafts.GetLatestByOwner(ctx, owner)
	if errors.Is(err, mongo.ErrNoDocuments) {
		d = newDraft(owner)
	} else if err != nil {
		return nil, err
	}

	s := &editorSession{
		draft:  d,
		saver:  autosave.New(h.drafts, h.links, h.Log, h.saveOpts),
		search: discovery.NewSession(h.index, h.Log, h.searchOpts),
		detail: discovery.NewDetailPanel(h.index, h.detailTTL),
	}
	s.saver.Notify(d)

	h.mu.Lock()
	defer h.mu.Unlock()
	if prior, ok := h.sessions[owner]; ok {
		// Lost the race; discard ours.
		s.saver.Close()
		s.search.Close()
		return prior, nil
	}
	h.sessions[owner] = s
	return s, nil
}

func newDraft(owner string) models.Draft {
	d := models.Draft{
		ID:    primitive.NewObjectID(),
		Owner: owner,
	}
	return draftops.AddStep(d)
}

// apply runs one mutation under the session lock and notifies autosave with
// the result. It returns the post-mutation draft snapshot.
func (s *editorSession) apply(mut func(models.Draft) models.Draft) models.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = mut(s.draft)
	s.saver.Notify(s.draft)
	return s.draft
}

// snapshot returns the current draft without mutating it.
func (s *editorSession) snapshot() models.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// close flushes any pending save and tears the session down.
func (s *editorSession) close(ctx context.Context) error {
	err := s.saver.Flush(ctx)
	s.saver.Close()
	s.search.Close()
	return err
}

// internal/app/features/planner/handler.go
package planner

import (
	"context"
	"sync"
	"time"

	draftstore "github.com/dalemusser/lessondesk/internal/app/store/drafts"
	draftlinkstore "github.com/dalemusser/lessondesk/internal/app/store/draftlinks"
	librarystore "github.com/dalemusser/lessondesk/internal/app/store/library"
	linkstatusstore "github.com/dalemusser/lessondesk/internal/app/store/linkstatus"
	"github.com/dalemusser/lessondesk/internal/app/system/autosave"
	"github.com/dalemusser/lessondesk/internal/app/system/discovery"
	"github.com/dalemusser/lessondesk/internal/app/system/linkhealth"
	"github.com/dalemusser/lessondesk/internal/app/system/linksync"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the lesson planner endpoints: draft load, mutations,
// save-state, flush, and exports. One editorSession per identity carries
// the draft, its autosave coordinator, and the library search state.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger

	drafts    *draftstore.Store
	resources *librarystore.Store
	health    *linkhealth.Service
	links     *linksync.Service
	index     discovery.Index

	saveOpts   autosave.Options
	searchOpts discovery.Options
	detailTTL  time.Duration

	mu       sync.Mutex
	sessions map[string]*editorSession
}

// Options carries the tunables bootstrap reads from config.
type Options struct {
	Autosave  autosave.Options
	Search    discovery.Options
	DetailTTL time.Duration
}

// NewHandler constructs a planner Handler bound to the given Mongo database
// and logger. index is the library search boundary the editor sessions
// browse through.
func NewHandler(db *mongo.Database, index discovery.Index, logger *zap.Logger, opts Options) *Handler {
	ttl := opts.DetailTTL
	if ttl <= 0 {
		ttl = discovery.DefaultDetailTTL
	}
	return &Handler{
		DB:         db,
		Log:        logger,
		drafts:     draftstore.New(db),
		resources:  librarystore.New(db),
		health:     linkhealth.New(linkstatusstore.New(db)),
		links:      linksync.New(draftlinkstore.New(db), logger),
		index:      index,
		saveOpts:   opts.Autosave,
		searchOpts: opts.Search,
		detailTTL:  ttl,
		sessions:   make(map[string]*editorSession),
	}
}

// Search implements the library feature's session source: the editing
// session owns the picker's filter memory and detail panel.
func (h *Handler) Search(ctx context.Context, owner string) (*discovery.Session, *discovery.DetailPanel, error) {
	s, err := h.session(ctx, owner)
	if err != nil {
		return nil, nil, err
	}
	return s.search, s.detail, nil
}

// Close flushes and tears down every editor session. Called on shutdown.
func (h *Handler) Close(ctx context.Context) {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*editorSession)
	h.mu.Unlock()

	for owner, s := range sessions {
		if err := s.close(ctx); err != nil {
			h.Log.Warn("planner: flush on close failed",
				zap.String("owner", owner),
				zap.Error(err))
		}
	}
}

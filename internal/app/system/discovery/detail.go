package discovery

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dalemusser/lessondesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrPanelMoved reports that the detail panel was closed or repointed while
// a detail fetch was in flight; the response is discarded.
var ErrPanelMoved = errors.New("discovery: detail panel closed or repointed")

// DefaultDetailTTL is how long a fetched detail record stays fresh, so
// reopening the same detail view does not re-fetch.
const DefaultDetailTTL = 5 * time.Minute

type detailEntry struct {
	res       models.Resource
	fetchedAt time.Time
}

// DetailPanel resolves full resource records on demand for an open detail
// view, caching each id for a short window. Only the currently pointed-at
// id may commit: a fetch that outlives its panel is ignored.
type DetailPanel struct {
	index Index
	ttl   time.Duration

	mu      sync.Mutex
	current primitive.ObjectID
	open    bool
	cache   map[primitive.ObjectID]detailEntry
}

// NewDetailPanel builds a detail resolver over the index. ttl <= 0 uses
// DefaultDetailTTL.
func NewDetailPanel(index Index, ttl time.Duration) *DetailPanel {
	if ttl <= 0 {
		ttl = DefaultDetailTTL
	}
	return &DetailPanel{
		index: index,
		ttl:   ttl,
		cache: make(map[primitive.ObjectID]detailEntry),
	}
}

// Open points the panel at a resource and resolves its full record, from
// cache when fresh. If the panel is repointed or closed before the fetch
// returns, the stale response is dropped and ErrPanelMoved is returned.
func (p *DetailPanel) Open(ctx context.Context, id primitive.ObjectID) (models.Resource, error) {
	p.mu.Lock()
	p.current = id
	p.open = true
	if e, ok := p.cache[id]; ok && time.Since(e.fetchedAt) < p.ttl {
		p.mu.Unlock()
		return e.res, nil
	}
	p.mu.Unlock()

	res, err := p.index.Get(ctx, id)

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open || p.current != id {
		return models.Resource{}, ErrPanelMoved
	}
	if err != nil {
		return models.Resource{}, err
	}

	p.cache[id] = detailEntry{res: res, fetchedAt: time.Now()}
	return res, nil
}

// Close marks the panel closed; any in-flight fetch result is discarded.
// The cache survives so reopening within the TTL is instant.
func (p *DetailPanel) Close() {
	p.mu.Lock()
	p.open = false
	p.mu.Unlock()
}

// Invalidate drops a cached record, forcing the next Open to re-fetch.
func (p *DetailPanel) Invalidate(id primitive.ObjectID) {
	p.mu.Lock()
	delete(p.cache, id)
	p.mu.Unlock()
}

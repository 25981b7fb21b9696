// Package discovery runs the resource-picker search engine: filtered,
// paginated queries against the library index, aggregated for an
// infinite-scroll list, with stale responses fenced off by a generation
// counter.
//
// A Session belongs to one editing session and doubles as its "last search"
// memory: the picker reopens with the filter state it was closed with, and
// an explicit clear resets it. Nothing here is process-global.
package discovery

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dalemusser/lessondesk/internal/app/system/window"
	"github.com/dalemusser/lessondesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Page is one index result page.
type Page struct {
	Items []models.Resource
	Total int
}

// Index is the remote resource index boundary. Search must be stable by id
// for a fixed filter and anchor: an item's position never changes across
// pages loaded in the same filter session. The anchor is the moment the
// filter session began; the index pins results to it so resources inserted
// mid-session do not shift pages already fetched.
type Index interface {
	Search(ctx context.Context, f models.FilterState, page int, anchor time.Time) (Page, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Resource, error)
}

// ErrSuperseded reports that a newer filter change made this request's
// result stale before it could be committed.
var ErrSuperseded = errors.New("discovery: request superseded by a newer filter change")

// Options tune a search session. Zero values fall back to defaults.
type Options struct {
	TextDebounce time.Duration // free-text quiet period before page 1 refresh (default 300ms)
	FetchTimeout time.Duration // per-fetch context timeout (default 10s)
	LoadMargin   int           // rows from the end that trigger auto-load (default 5)
}

const (
	defaultTextDebounce = 300 * time.Millisecond
	defaultFetchTimeout = 10 * time.Second
	defaultLoadMargin   = 5
)

// View is a read-only snapshot of the aggregated result list.
type View struct {
	Filter  models.FilterState `json:"filter"`
	Items   []models.Resource  `json:"items"`
	Total   int                `json:"total"`
	Page    int                `json:"page"` // highest page loaded, 0 before the first fetch
	HasMore bool               `json:"has_more"`
	Loading bool               `json:"loading"`
	Err     string             `json:"error,omitempty"`
}

// Session aggregates search pages for one picker. Structural filter changes
// (types, subjects, stages, tags, clear) refresh page 1 immediately;
// free-text changes debounce so typing does not issue one query per
// keystroke. Every fetch carries the generation current at issue time and
// is dropped on commit if a newer change has bumped it.
type Session struct {
	index Index
	log   *zap.Logger
	opts  Options

	mu       sync.Mutex
	settled  *sync.Cond // signalled when no debounce is pending and nothing is in flight
	filter   models.FilterState
	anchor   time.Time // start of the current filter session
	items    []models.Resource
	total    int
	page     int
	gen      uint64
	inFlight bool
	debounce *time.Timer
	pendingT bool // a text debounce timer is armed
	lastErr  error
	closed   bool
}

// NewSession builds a search session over the given index.
func NewSession(index Index, logger *zap.Logger, opts Options) *Session {
	if opts.TextDebounce <= 0 {
		opts.TextDebounce = defaultTextDebounce
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	if opts.LoadMargin <= 0 {
		opts.LoadMargin = defaultLoadMargin
	}
	s := &Session{index: index, log: logger, opts: opts}
	s.settled = sync.NewCond(&s.mu)
	return s
}

// Filter returns the session's current filter state (the "last search"
// memory handed back to a reopening picker).
func (s *Session) Filter() models.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter.Clone()
}

// SetFilter replaces the structural filters (and search text) and refreshes
// page 1 immediately. Used for type/subject/stage/tag changes and for the
// explicit clear action.
func (s *Session) SetFilter(ctx context.Context, f models.FilterState) error {
	s.mu.Lock()
	s.filter = f.Clone()
	gen := s.bumpLocked()
	s.mu.Unlock()

	return s.fetchPage(ctx, gen, 1)
}

// Clear resets the filter to defaults and refreshes the unfiltered first
// page.
func (s *Session) Clear(ctx context.Context) error {
	return s.SetFilter(ctx, models.FilterState{})
}

// SetSearch updates the free-text query. The page-1 refresh is debounced:
// another call inside the quiet period restarts the timer, and only the
// final text is ever queried.
func (s *Session) SetSearch(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.filter.Search == text {
		return
	}
	s.filter.Search = text
	gen := s.bumpLocked()
	s.pendingT = true

	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.debounce = time.AfterFunc(s.opts.TextDebounce, func() {
		s.mu.Lock()
		s.pendingT = false
		stale := gen != s.gen
		s.mu.Unlock()
		if stale {
			s.signalSettled()
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.FetchTimeout)
		defer cancel()
		if err := s.fetchPage(ctx, gen, 1); err != nil && !errors.Is(err, ErrSuperseded) {
			s.log.Warn("debounced search failed", zap.Error(err))
		}
	})
}

// LoadMore fetches the next page when one exists and nothing is already in
// flight. Both conditions make it safe to call on every scroll signal.
func (s *Session) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if s.closed || s.inFlight || !s.hasMoreLocked() {
		s.mu.Unlock()
		return nil
	}
	gen := s.gen
	next := s.page + 1
	s.mu.Unlock()

	return s.fetchPage(ctx, gen, next)
}

// MaybeLoadMore is the level-triggered auto-load hook: given the index of
// the last visible row, it loads the next page when the viewport is near
// the end of what is loaded. Callers invoke it on every visibility signal,
// so a fast scroll that skips the trigger region once still loads on the
// next signal.
func (s *Session) MaybeLoadMore(ctx context.Context, lastVisible int) error {
	s.mu.Lock()
	near := window.NearEnd(lastVisible, len(s.items), s.opts.LoadMargin)
	s.mu.Unlock()
	if !near {
		return nil
	}
	return s.LoadMore(ctx)
}

// Retry re-issues the request that last failed: the page-1 refresh when
// nothing is loaded yet, the next page otherwise. A no-op unless the
// session is in a failed state.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.lastErr == nil || s.inFlight {
		s.mu.Unlock()
		return nil
	}
	gen := s.gen
	page := 1
	if s.page > 0 {
		// A later page failed; resume it without disturbing the loaded
		// aggregate or its anchor.
		page = s.page + 1
		s.lastErr = nil
	} else {
		gen = s.bumpLocked()
	}
	s.mu.Unlock()

	return s.fetchPage(ctx, gen, page)
}

// Snapshot returns the current aggregated view. An empty item list with no
// error is a valid "no matches" state, not a failure.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Filter:  s.filter.Clone(),
		Items:   append([]models.Resource(nil), s.items...),
		Total:   s.total,
		Page:    s.page,
		HasMore: s.hasMoreLocked(),
		Loading: s.inFlight || s.pendingT,
	}
	if s.lastErr != nil {
		v.Err = s.lastErr.Error()
	}
	return v
}

// WaitSettled blocks until no debounce timer is armed and no fetch is in
// flight, or the context ends. Handlers use it to respond with the result
// of a just-applied change.
func (s *Session) WaitSettled(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.mu.Lock()
		for (s.pendingT || s.inFlight) && !s.closed {
			s.settled.Wait()
		}
		s.mu.Unlock()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.signalSettled() // unblock the waiter goroutine on its next check
		return ctx.Err()
	}
}

// Close stops the debounce timer and wakes any waiters.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.pendingT = false
	s.mu.Unlock()
	s.signalSettled()
}

// bumpLocked invalidates all in-flight work and resets the aggregate for a
// fresh filter session. Caller holds s.mu.
func (s *Session) bumpLocked() uint64 {
	s.gen++
	s.anchor = time.Now().UTC()
	s.items = nil
	s.total = 0
	s.page = 0
	s.lastErr = nil
	return s.gen
}

func (s *Session) hasMoreLocked() bool {
	return s.page > 0 && len(s.items) < s.total
}

func (s *Session) signalSettled() {
	s.mu.Lock()
	s.settled.Broadcast()
	s.mu.Unlock()
}

// fetchPage runs one index query and commits it only if gen is still
// current. Page 1 replaces the aggregate; later pages append.
func (s *Session) fetchPage(ctx context.Context, gen uint64, page int) error {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return ErrSuperseded
	}
	s.inFlight = true
	filter := s.filter.Clone()
	anchor := s.anchor
	s.mu.Unlock()

	res, err := s.index.Search(ctx, filter, page, anchor)

	s.mu.Lock()
	s.inFlight = false
	defer func() {
		s.mu.Unlock()
		s.signalSettled()
	}()

	if gen != s.gen {
		// A newer filter change won the race; drop this response.
		return ErrSuperseded
	}
	if err != nil {
		s.lastErr = err
		return err
	}

	s.lastErr = nil
	s.total = res.Total
	if page == 1 {
		s.items = res.Items
	} else {
		s.items = append(s.items, res.Items...)
	}
	s.page = page
	return nil
}

package discovery_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/lessondesk/internal/app/system/discovery"
	"github.com/dalemusser/lessondesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const fakePageSize = 10

// fakeIndex serves a fixed catalog of resources, filtered by free text on
// the title, paged by fakePageSize. It can delay or fail on demand.
type fakeIndex struct {
	mu      sync.Mutex
	catalog []models.Resource
	delay   time.Duration
	err     error
	calls   int
}

func newFakeIndex(n int) *fakeIndex {
	f := &fakeIndex{}
	for i := 0; i < n; i++ {
		f.catalog = append(f.catalog, models.Resource{
			ID:    primitive.NewObjectID(),
			Title: fmt.Sprintf("Resource %02d", i),
		})
	}
	return f
}

func (f *fakeIndex) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeIndex) setDelay(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
}

func (f *fakeIndex) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeIndex) Search(ctx context.Context, q models.FilterState, page int, anchor time.Time) (discovery.Page, error) {
	f.mu.Lock()
	f.calls++
	delay, err := f.delay, f.err
	var matched []models.Resource
	for _, r := range f.catalog {
		if q.Search == "" || strings.Contains(strings.ToLower(r.Title), strings.ToLower(q.Search)) {
			matched = append(matched, r)
		}
	}
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return discovery.Page{}, ctx.Err()
		}
	}
	if err != nil {
		return discovery.Page{}, err
	}

	start := (page - 1) * fakePageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + fakePageSize
	if end > len(matched) {
		end = len(matched)
	}
	return discovery.Page{Items: matched[start:end], Total: len(matched)}, nil
}

func (f *fakeIndex) Get(ctx context.Context, id primitive.ObjectID) (models.Resource, error) {
	f.mu.Lock()
	delay, err := f.delay, f.err
	f.calls++
	catalog := f.catalog
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return models.Resource{}, ctx.Err()
		}
	}
	if err != nil {
		return models.Resource{}, err
	}
	for _, r := range catalog {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Resource{}, errors.New("not found")
}

var sessOpts = discovery.Options{
	TextDebounce: 20 * time.Millisecond,
	FetchTimeout: time.Second,
}

func TestPaginationOverThreePages(t *testing.T) {
	idx := newFakeIndex(25)
	s := discovery.NewSession(idx, zap.NewNop(), sessOpts)
	defer s.Close()
	ctx := context.Background()

	if err := s.SetFilter(ctx, models.FilterState{}); err != nil {
		t.Fatalf("initial fetch failed: %v", err)
	}
	v := s.Snapshot()
	if len(v.Items) != 10 || v.Total != 25 || !v.HasMore {
		t.Fatalf("page 1: items=%d total=%d hasMore=%v", len(v.Items), v.Total, v.HasMore)
	}

	if err := s.LoadMore(ctx); err != nil {
		t.Fatalf("load page 2 failed: %v", err)
	}
	if err := s.LoadMore(ctx); err != nil {
		t.Fatalf("load page 3 failed: %v", err)
	}

	v = s.Snapshot()
	if len(v.Items) != 25 || v.Page != 3 {
		t.Fatalf("after 3 pages: items=%d page=%d", len(v.Items), v.Page)
	}
	if v.HasMore {
		t.Error("no further page should be offered once total is loaded")
	}

	// A further LoadMore is a harmless no-op.
	calls := idx.callCount()
	if err := s.LoadMore(ctx); err != nil {
		t.Fatalf("extra load more errored: %v", err)
	}
	if idx.callCount() != calls {
		t.Error("load more past the end must not query the index")
	}
}

func TestDebouncedSearchOnlyQueriesFinalText(t *testing.T) {
	idx := newFakeIndex(25)
	s := discovery.NewSession(idx, zap.NewNop(), sessOpts)
	defer s.Close()

	if err := s.SetFilter(context.Background(), models.FilterState{}); err != nil {
		t.Fatalf("initial fetch failed: %v", err)
	}
	calls := idx.callCount()

	s.SetSearch("r")
	s.SetSearch("re")
	s.SetSearch("resource 01")

	if err := s.WaitSettled(context.Background()); err != nil {
		t.Fatalf("wait settled: %v", err)
	}
	if got := idx.callCount() - calls; got != 1 {
		t.Errorf("typing burst should issue 1 query, got %d", got)
	}

	v := s.Snapshot()
	if v.Total != 1 || len(v.Items) != 1 {
		t.Fatalf("expected the single match, got total=%d items=%d", v.Total, len(v.Items))
	}
	if v.Items[0].Title != "Resource 01" {
		t.Errorf("unexpected match %q", v.Items[0].Title)
	}
}

func TestStructuralChangeDiscardsStaleResponse(t *testing.T) {
	idx := newFakeIndex(25)
	s := discovery.NewSession(idx, zap.NewNop(), sessOpts)
	defer s.Close()
	ctx := context.Background()

	// Slow first fetch; a second filter change lands while it is in flight.
	idx.setDelay(60 * time.Millisecond)
	done := make(chan error, 1)
	go func() { done <- s.SetFilter(ctx, models.FilterState{Search: "Resource 0"}) }()
	time.Sleep(10 * time.Millisecond)

	idx.setDelay(0)
	if err := s.SetFilter(ctx, models.FilterState{Search: "Resource 12"}); err != nil {
		t.Fatalf("second filter change failed: %v", err)
	}

	if err := <-done; !errors.Is(err, discovery.ErrSuperseded) {
		t.Fatalf("stale fetch should report ErrSuperseded, got %v", err)
	}

	v := s.Snapshot()
	if len(v.Items) != 1 || v.Items[0].Title != "Resource 12" {
		t.Fatalf("view must reflect the newest filter only, got %+v", v.Items)
	}
}

func TestFilterChangeResetsAggregate(t *testing.T) {
	idx := newFakeIndex(25)
	s := discovery.NewSession(idx, zap.NewNop(), sessOpts)
	defer s.Close()
	ctx := context.Background()

	if err := s.SetFilter(ctx, models.FilterState{}); err != nil {
		t.Fatal(err)
	}
	if err := s.LoadMore(ctx); err != nil {
		t.Fatal(err)
	}
	if v := s.Snapshot(); len(v.Items) != 20 {
		t.Fatalf("setup: expected 20 items, got %d", len(v.Items))
	}

	if err := s.SetFilter(ctx, models.FilterState{Search: "Resource 1"}); err != nil {
		t.Fatal(err)
	}
	v := s.Snapshot()
	if v.Page != 1 {
		t.Errorf("filter change should restart at page 1, got %d", v.Page)
	}
	if len(v.Items) != 10 || v.Total != 10 {
		t.Errorf("aggregate from the previous filter must not survive: items=%d total=%d",
			len(v.Items), v.Total)
	}
}

func TestRetryAfterFailure(t *testing.T) {
	idx := newFakeIndex(25)
	s := discovery.NewSession(idx, zap.NewNop(), sessOpts)
	defer s.Close()
	ctx := context.Background()

	idx.setErr(errors.New("upstream 500"))
	if err := s.SetFilter(ctx, models.FilterState{}); err == nil {
		t.Fatal("expected fetch error")
	}
	v := s.Snapshot()
	if v.Err == "" {
		t.Fatal("failed fetch should surface on the view")
	}
	if len(v.Items) != 0 {
		t.Fatal("failed fetch must not leave items behind")
	}

	idx.setErr(nil)
	if err := s.Retry(ctx); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	v = s.Snapshot()
	if v.Err != "" || len(v.Items) != 10 {
		t.Fatalf("retry should recover: err=%q items=%d", v.Err, len(v.Items))
	}

	// Retry with nothing failed is a no-op.
	calls := idx.callCount()
	if err := s.Retry(ctx); err != nil {
		t.Fatal(err)
	}
	if idx.callCount() != calls {
		t.Error("retry without a failure must not query")
	}
}

func TestRetryResumesFailedLaterPage(t *testing.T) {
	idx := newFakeIndex(25)
	s := discovery.NewSession(idx, zap.NewNop(), sessOpts)
	defer s.Close()
	ctx := context.Background()

	if err := s.SetFilter(ctx, models.FilterState{}); err != nil {
		t.Fatalf("page 1 failed: %v", err)
	}
	if err := s.LoadMore(ctx); err != nil {
		t.Fatalf("page 2 failed: %v", err)
	}

	idx.setErr(errors.New("upstream 500"))
	if err := s.LoadMore(ctx); err == nil {
		t.Fatal("expected page 3 fetch error")
	}
	v := s.Snapshot()
	if v.Err == "" || len(v.Items) != 20 || v.Page != 2 {
		t.Fatalf("failed later page must keep the aggregate: err=%q items=%d page=%d", v.Err, len(v.Items), v.Page)
	}

	// Retry resumes the failed page instead of starting over at page 1.
	idx.setErr(nil)
	if err := s.Retry(ctx); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	v = s.Snapshot()
	if v.Err != "" || len(v.Items) != 25 || v.Page != 3 {
		t.Fatalf("retry should complete the aggregate: err=%q items=%d page=%d", v.Err, len(v.Items), v.Page)
	}
	if v.HasMore {
		t.Error("everything is loaded; has_more should be off")
	}
}

func TestEmptyResultIsNotAnError(t *testing.T) {
	idx := newFakeIndex(25)
	s := discovery.NewSession(idx, zap.NewNop(), sessOpts)
	defer s.Close()

	if err := s.SetFilter(context.Background(), models.FilterState{Search: "no such thing"}); err != nil {
		t.Fatalf("empty result errored: %v", err)
	}
	v := s.Snapshot()
	if v.Err != "" || v.Total != 0 || len(v.Items) != 0 || v.HasMore {
		t.Errorf("empty result should be a clean zero state: %+v", v)
	}
}

func TestMaybeLoadMoreIsLevelTriggered(t *testing.T) {
	idx := newFakeIndex(25)
	opts := sessOpts
	opts.LoadMargin = 3
	s := discovery.NewSession(idx, zap.NewNop(), opts)
	defer s.Close()
	ctx := context.Background()

	if err := s.SetFilter(ctx, models.FilterState{}); err != nil {
		t.Fatal(err)
	}

	// Far from the end: no load.
	if err := s.MaybeLoadMore(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if v := s.Snapshot(); v.Page != 1 {
		t.Fatalf("visibility far from the end must not load, page=%d", v.Page)
	}

	// Within the margin: loads the next page.
	if err := s.MaybeLoadMore(ctx, 7); err != nil {
		t.Fatal(err)
	}
	if v := s.Snapshot(); v.Page != 2 {
		t.Fatalf("visibility near the end should load page 2, page=%d", v.Page)
	}

	// Re-signaling the same visibility keeps loading while near the end.
	if err := s.MaybeLoadMore(ctx, 19); err != nil {
		t.Fatal(err)
	}
	if v := s.Snapshot(); v.Page != 3 {
		t.Fatalf("repeated signal near the new end should load page 3, page=%d", v.Page)
	}
}

func TestDetailPanelCachesWithinTTL(t *testing.T) {
	idx := newFakeIndex(5)
	p := discovery.NewDetailPanel(idx, 100*time.Millisecond)
	ctx := context.Background()
	id := idx.catalog[2].ID

	if _, err := p.Open(ctx, id); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	calls := idx.callCount()

	if _, err := p.Open(ctx, id); err != nil {
		t.Fatalf("cached open failed: %v", err)
	}
	if idx.callCount() != calls {
		t.Error("second open within TTL must hit the cache")
	}

	time.Sleep(110 * time.Millisecond)
	if _, err := p.Open(ctx, id); err != nil {
		t.Fatalf("post-TTL open failed: %v", err)
	}
	if idx.callCount() == calls {
		t.Error("open after TTL expiry should re-fetch")
	}
}

func TestDetailPanelDiscardsRepointedFetch(t *testing.T) {
	idx := newFakeIndex(5)
	p := discovery.NewDetailPanel(idx, time.Minute)
	ctx := context.Background()

	first := idx.catalog[0].ID
	second := idx.catalog[1].ID

	idx.setDelay(60 * time.Millisecond)
	done := make(chan error, 1)
	go func() {
		_, err := p.Open(ctx, first)
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)

	idx.setDelay(0)
	if _, err := p.Open(ctx, second); err != nil {
		t.Fatalf("repoint open failed: %v", err)
	}

	if err := <-done; !errors.Is(err, discovery.ErrPanelMoved) {
		t.Fatalf("stale detail fetch should report ErrPanelMoved, got %v", err)
	}
}

func TestDetailPanelCloseDiscardsInFlightFetch(t *testing.T) {
	idx := newFakeIndex(5)
	p := discovery.NewDetailPanel(idx, time.Minute)

	idx.setDelay(60 * time.Millisecond)
	done := make(chan error, 1)
	go func() {
		_, err := p.Open(context.Background(), idx.catalog[0].ID)
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	p.Close()

	if err := <-done; !errors.Is(err, discovery.ErrPanelMoved) {
		t.Fatalf("fetch completing after close should report ErrPanelMoved, got %v", err)
	}
}

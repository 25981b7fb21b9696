package autosave_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/lessondesk/internal/app/system/autosave"
	"github.com/dalemusser/lessondesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeSaver struct {
	mu     sync.Mutex
	saved  []models.Draft
	err    error
	synced []models.Draft
}

func (f *fakeSaver) Upsert(ctx context.Context, d models.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, d)
	return nil
}

func (f *fakeSaver) Sync(ctx context.Context, d models.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.synced = append(f.synced, d)
	return nil
}

func (f *fakeSaver) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func (f *fakeSaver) lastSaved() models.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved[len(f.saved)-1]
}

func (f *fakeSaver) syncCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.synced)
}

func (f *fakeSaver) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

var testOpts = autosave.Options{
	Debounce:    30 * time.Millisecond,
	SavedWindow: 50 * time.Millisecond,
	SaveTimeout: time.Second,
}

func draftTitled(title string) models.Draft {
	return models.Draft{ID: primitive.NewObjectID(), Owner: "o", Title: title}
}

// waitFor polls until cond returns true or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestHydrationSnapshotNeverSaves(t *testing.T) {
	f := &fakeSaver{}
	c := autosave.New(f, f, zap.NewNop(), testOpts)
	defer c.Close()

	c.Notify(draftTitled("hydrated"))

	time.Sleep(4 * testOpts.Debounce)
	if n := f.saveCount(); n != 0 {
		t.Fatalf("hydration snapshot must not save, got %d saves", n)
	}
	if c.State() != autosave.Idle {
		t.Errorf("expected idle after hydration, got %s", c.State())
	}
}

func TestRapidEditsCoalesceIntoOneSave(t *testing.T) {
	f := &fakeSaver{}
	c := autosave.New(f, f, zap.NewNop(), testOpts)
	defer c.Close()

	c.Notify(draftTitled("hydrated"))
	c.Notify(draftTitled("edit 1"))
	time.Sleep(testOpts.Debounce / 3)
	c.Notify(draftTitled("edit 2"))
	time.Sleep(testOpts.Debounce / 3)
	c.Notify(draftTitled("edit 3"))

	if !waitFor(t, time.Second, func() bool { return f.saveCount() > 0 }) {
		t.Fatal("debounced save never fired")
	}
	time.Sleep(2 * testOpts.Debounce)

	if n := f.saveCount(); n != 1 {
		t.Fatalf("expected exactly 1 save for the burst, got %d", n)
	}
	if got := f.lastSaved().Title; got != "edit 3" {
		t.Errorf("save must carry the final snapshot, got %q", got)
	}
	if f.syncCount() != 1 {
		t.Errorf("link sync should follow the save, got %d", f.syncCount())
	}
}

func TestSavedStateResetsToIdle(t *testing.T) {
	f := &fakeSaver{}
	c := autosave.New(f, f, zap.NewNop(), testOpts)
	defer c.Close()

	c.Notify(draftTitled("hydrated"))
	c.Notify(draftTitled("edit"))

	if !waitFor(t, time.Second, func() bool { return c.State() == autosave.Saved }) {
		t.Fatalf("expected saved state, got %s", c.State())
	}
	if c.LastSaved().IsZero() {
		t.Error("LastSaved should be set after a successful save")
	}
	if !waitFor(t, time.Second, func() bool { return c.State() == autosave.Idle }) {
		t.Errorf("saved state should decay to idle, got %s", c.State())
	}
}

func TestSaveFailureReportsErrorAndStaysOutOfSaved(t *testing.T) {
	f := &fakeSaver{}
	f.setErr(errors.New("connection reset"))
	c := autosave.New(f, f, zap.NewNop(), testOpts)
	defer c.Close()

	c.Notify(draftTitled("hydrated"))
	c.Notify(draftTitled("edit"))

	if !waitFor(t, time.Second, func() bool { return c.LastError() != nil }) {
		t.Fatal("expected LastError after a failed save")
	}
	if c.State() == autosave.Saved {
		t.Error("failed save must not report saved")
	}
	if f.syncCount() != 0 {
		t.Error("link sync must not run when the upsert failed")
	}

	// The next edit retries and a success clears the error.
	f.setErr(nil)
	c.Notify(draftTitled("edit 2"))
	if !waitFor(t, time.Second, func() bool { return f.saveCount() == 1 }) {
		t.Fatal("retry save never fired")
	}
	if !waitFor(t, time.Second, func() bool { return c.LastError() == nil }) {
		t.Error("successful save should clear LastError")
	}
}

func TestFlushSavesPendingImmediately(t *testing.T) {
	f := &fakeSaver{}
	opts := testOpts
	opts.Debounce = time.Hour // would never fire on its own
	c := autosave.New(f, f, zap.NewNop(), opts)
	defer c.Close()

	c.Notify(draftTitled("hydrated"))
	c.Notify(draftTitled("pending edit"))

	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if f.saveCount() != 1 {
		t.Fatalf("flush should save the pending snapshot, got %d saves", f.saveCount())
	}
	if got := f.lastSaved().Title; got != "pending edit" {
		t.Errorf("flush saved the wrong snapshot: %q", got)
	}

	// Flushing with nothing pending is a no-op.
	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("idle flush failed: %v", err)
	}
	if f.saveCount() != 1 {
		t.Error("idle flush must not save again")
	}
}

func TestFlushedSavedStateResetsToIdle(t *testing.T) {
	f := &fakeSaver{}
	opts := testOpts
	opts.Debounce = time.Hour
	c := autosave.New(f, f, zap.NewNop(), opts)
	defer c.Close()

	c.Notify(draftTitled("hydrated"))
	c.Notify(draftTitled("pending edit"))

	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if c.State() != autosave.Saved {
		t.Fatalf("expected saved right after flush, got %s", c.State())
	}
	// The saved badge decays after the display window, same as a
	// debounced save.
	if !waitFor(t, time.Second, func() bool { return c.State() == autosave.Idle }) {
		t.Errorf("flushed saved state should decay to idle, got %s", c.State())
	}
}

func TestDisabledCoordinatorAcceptsNoEdits(t *testing.T) {
	f := &fakeSaver{}
	c := autosave.New(f, f, zap.NewNop(), testOpts)
	defer c.Close()

	c.Notify(draftTitled("hydrated"))
	c.SetEnabled(false)
	c.Notify(draftTitled("while disabled"))

	time.Sleep(4 * testOpts.Debounce)
	if f.saveCount() != 0 {
		t.Errorf("disabled coordinator must not save, got %d", f.saveCount())
	}
}

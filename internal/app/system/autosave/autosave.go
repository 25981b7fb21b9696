// Package autosave debounces draft changes into remote writes.
//
// The coordinator watches draft snapshots handed to Notify, waits for a
// quiet period (trailing-edge debounce), and then upserts the latest
// snapshot only. A successful save triggers the link-sync side effect and
// shows a "saved" state for a short display window before returning to
// idle. Failures are logged and reported through State/LastError; the next
// edit retries via a fresh debounce cycle.
package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/lessondesk/internal/domain/models"
	"go.uber.org/zap"
)

// State is the coordinator's user-visible save state.
type State string

const (
	Idle   State = "idle"
	Saving State = "saving"
	Saved  State = "saved"
)

// Saver performs the remote draft upsert (insert-or-replace by draft id).
type Saver interface {
	Upsert(ctx context.Context, d models.Draft) error
}

// Syncer runs the resource-link synchronization side effect after a
// successful save.
type Syncer interface {
	Sync(ctx context.Context, d models.Draft) error
}

// Options tune the coordinator. Zero values fall back to defaults.
type Options struct {
	Debounce    time.Duration // quiet period before a save fires (default 800ms)
	SavedWindow time.Duration // how long "saved" is displayed (default 2s)
	SaveTimeout time.Duration // per-save context timeout (default 10s)
}

const (
	defaultDebounce    = 800 * time.Millisecond
	defaultSavedWindow = 2 * time.Second
	defaultSaveTimeout = 10 * time.Second
)

// Coordinator debounces draft snapshots into remote upserts. One coordinator
// serves one editing session (one draft, one writer).
type Coordinator struct {
	saver  Saver
	syncer Syncer
	log    *zap.Logger
	opts   Options

	mu        sync.Mutex
	enabled   bool
	hydrated  bool
	pending   *models.Draft
	timer     *time.Timer
	resetTmr  *time.Timer
	state     State
	lastSaved time.Time
	lastErr   error
	closed    bool

	wg sync.WaitGroup
}

// New builds a coordinator. The first snapshot handed to Notify is treated
// as hydration and never saved; saving starts with the first edit after it.
func New(saver Saver, syncer Syncer, logger *zap.Logger, opts Options) *Coordinator {
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.SavedWindow <= 0 {
		opts.SavedWindow = defaultSavedWindow
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = defaultSaveTimeout
	}
	return &Coordinator{
		saver:   saver,
		syncer:  syncer,
		log:     logger,
		opts:    opts,
		enabled: true,
		state:   Idle,
	}
}

// SetEnabled gates scheduling. While disabled, Notify still records the
// latest snapshot as hydration state but never arms the timer.
func (c *Coordinator) SetEnabled(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = on
}

// Notify hands the coordinator the latest draft snapshot. A snapshot
// arriving while the debounce timer is armed restarts the timer, so a burst
// of edits coalesces into a single save carrying the final state.
func (c *Coordinator) Notify(d models.Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if !c.hydrated {
		// Initial hydration after mount; never save it.
		c.hydrated = true
		return
	}
	if !c.enabled {
		return
	}

	snap := d
	c.pending = &snap

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.opts.Debounce, c.fire)
}

// fire runs on the timer goroutine when the quiet period elapses.
func (c *Coordinator) fire() {
	c.mu.Lock()
	if c.closed || c.pending == nil {
		c.mu.Unlock()
		return
	}
	snap := *c.pending
	c.pending = nil
	c.state = Saving
	c.wg.Add(1)
	c.mu.Unlock()

	defer c.wg.Done()
	c.save(snap)
}

func (c *Coordinator) save(snap models.Draft) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.SaveTimeout)
	defer cancel()

	if err := c.saver.Upsert(ctx, snap); err != nil {
		c.log.Error("autosave upsert failed",
			zap.String("draft_id", snap.ID.Hex()),
			zap.Error(err))
		c.mu.Lock()
		c.state = Idle
		c.lastErr = err
		c.mu.Unlock()
		return
	}

	if err := c.syncer.Sync(ctx, snap); err != nil {
		// The draft itself is saved; a sync failure is advisory.
		c.log.Warn("resource link sync failed",
			zap.String("draft_id", snap.ID.Hex()),
			zap.Error(err))
	}

	c.markSaved()
}

// markSaved records a successful save and arms the timer that decays the
// visible Saved state back to Idle after the display window.
func (c *Coordinator) markSaved() {
	c.mu.Lock()
	c.state = Saved
	c.lastSaved = time.Now().UTC()
	c.lastErr = nil
	if c.resetTmr != nil {
		c.resetTmr.Stop()
	}
	c.resetTmr = time.AfterFunc(c.opts.SavedWindow, func() {
		c.mu.Lock()
		if c.state == Saved {
			c.state = Idle
		}
		c.mu.Unlock()
	})
	c.mu.Unlock()
}

// Flush saves any pending snapshot immediately, bypassing the debounce.
// Used when an editing session closes.
func (c *Coordinator) Flush(ctx context.Context) error {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	if c.pending == nil {
		c.mu.Unlock()
		return nil
	}
	snap := *c.pending
	c.pending = nil
	c.state = Saving
	c.mu.Unlock()

	if err := c.saver.Upsert(ctx, snap); err != nil {
		c.mu.Lock()
		c.state = Idle
		c.lastErr = err
		c.mu.Unlock()
		return err
	}
	if err := c.syncer.Sync(ctx, snap); err != nil {
		c.log.Warn("resource link sync failed on flush",
			zap.String("draft_id", snap.ID.Hex()),
			zap.Error(err))
	}

	c.markSaved()
	return nil
}

// Close stops timers and waits for an in-flight save to finish. The
// coordinator accepts no snapshots afterwards.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
	if c.resetTmr != nil {
		c.resetTmr.Stop()
	}
	c.pending = nil
	c.mu.Unlock()
	c.wg.Wait()
}

// State returns the current save state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastSaved returns when the last successful save completed (zero if none).
func (c *Coordinator) LastSaved() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSaved
}

// LastError returns the most recent save failure, cleared by the next
// successful save.
func (c *Coordinator) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// internal/app/system/workers/linkcheck.go
package workers

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	draftlinkstore "github.com/dalemusser/lessondesk/internal/app/store/draftlinks"
	linkstatusstore "github.com/dalemusser/lessondesk/internal/app/store/linkstatus"
	"github.com/dalemusser/lessondesk/internal/domain/models"
	"go.uber.org/zap"
)

// LinkCheck is a background worker that probes every URL referenced by a
// synced draft link and records the result in the link_status collection.
// The editor and exports read those rows through the link health lookup.
type LinkCheck struct {
	links    *draftlinkstore.Store
	statuses *linkstatusstore.Store
	client   *http.Client
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewLinkCheck creates a new link check worker.
//
// Parameters:
//   - links: the draft_links store (source of URLs to probe)
//   - statuses: the link_status store (probe results)
//   - logger: zap logger for logging
//   - interval: how often to sweep (e.g., 15 minutes)
//   - probeTimeout: per-URL HTTP timeout (e.g., 10 seconds)
func NewLinkCheck(links *draftlinkstore.Store, statuses *linkstatusstore.Store, logger *zap.Logger, interval, probeTimeout time.Duration) *LinkCheck {
	return &LinkCheck{
		links:    links,
		statuses: statuses,
		client:   &http.Client{Timeout: probeTimeout},
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *LinkCheck) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("link check worker started",
		zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *LinkCheck) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("link check worker stopped")
}

func (w *LinkCheck) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Sweep(context.Background())
		}
	}
}

// Sweep probes every distinct synced URL once and upserts its status row.
// Probe failures mark the URL unhealthy; they never abort the sweep.
func (w *LinkCheck) Sweep(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	urls, err := w.links.DistinctURLs(ctx)
	if err != nil {
		w.log.Error("failed to list synced URLs", zap.Error(err))
		return
	}
	if len(urls) == 0 {
		return
	}

	var unhealthy int
	for _, url := range urls {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			w.log.Warn("link check sweep timed out", zap.Int("checked", len(urls)))
			return
		default:
		}

		row := w.probe(ctx, url)
		if !row.Healthy {
			unhealthy++
		}
		if err := w.statuses.Upsert(ctx, row); err != nil {
			w.log.Error("failed to record link status",
				zap.String("url", url),
				zap.Error(err))
		}
	}

	w.log.Info("link check sweep complete",
		zap.Int("checked", len(urls)),
		zap.Int("unhealthy", unhealthy))
}

// probe issues a HEAD request, retrying as GET for servers that reject
// HEAD, and translates the outcome into one status row.
func (w *LinkCheck) probe(ctx context.Context, url string) (row models.LinkStatus) {
	row = models.LinkStatus{URL: url, LastChecked: time.Now().UTC()}

	resp, err := w.do(ctx, http.MethodHead, url)
	if err == nil && resp.StatusCode == http.StatusMethodNotAllowed {
		resp.Body.Close()
		resp, err = w.do(ctx, http.MethodGet, url)
	}
	if err != nil {
		row.Healthy = false
		row.LastError = err.Error()
		return row
	}
	defer resp.Body.Close()

	row.StatusCode = resp.StatusCode
	row.StatusText = http.StatusText(resp.StatusCode)
	row.Healthy = resp.StatusCode < 400
	if !row.Healthy {
		row.LastError = fmt.Sprintf("%d %s", resp.StatusCode, row.StatusText)
	}
	return row
}

func (w *LinkCheck) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "lessondesk-linkcheck/1.0")
	return w.client.Do(req)
}

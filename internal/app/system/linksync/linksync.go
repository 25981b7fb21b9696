// Package linksync mirrors a draft's attached resource links into the
// draft_links collection after each successful autosave.
package linksync

import (
	"context"
	"time"

	"github.com/dalemusser/lessondesk/internal/domain/models"
	"go.uber.org/zap"
)

// LinkStore upserts one synchronized row keyed by (draft, step, url).
type LinkStore interface {
	Upsert(ctx context.Context, row models.DraftLink) error
}

// Service derives (draft, step, url) rows from a draft snapshot and upserts
// them with a refreshed sync timestamp. It never deletes rows: a debounced
// save may carry a stale snapshot, and a deletion pass driven by it could
// destroy rows a fresher save wrote. Stale rows age out by LastSynced.
type Service struct {
	links LinkStore
	log   *zap.Logger
}

// New builds the sync service.
func New(links LinkStore, logger *zap.Logger) *Service {
	return &Service{links: links, log: logger}
}

// Sync upserts one row per attached resource link across all steps. A draft
// with no links is skipped entirely (no writes, no deletes).
func (s *Service) Sync(ctx context.Context, d models.Draft) error {
	now := time.Now().UTC()

	var n int
	for _, step := range d.Steps {
		for _, link := range step.Resources {
			if link.URL == "" {
				continue
			}
			row := models.DraftLink{
				DraftID:    d.ID,
				StepID:     step.ID,
				URL:        link.URL,
				Label:      link.Title,
				LastSynced: now,
			}
			if err := s.links.Upsert(ctx, row); err != nil {
				return err
			}
			n++
		}
	}

	if n > 0 {
		s.log.Debug("synced resource links",
			zap.String("draft_id", d.ID.Hex()),
			zap.Int("count", n))
	}
	return nil
}

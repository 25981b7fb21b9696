package tasks

import (
	"context"
	"time"

	draftlinkstore "github.com/dalemusser/lessondesk/internal/app/store/draftlinks"
	"go.uber.org/zap"
)

// StaleLinkReportJob logs how many synced link rows have not been refreshed
// recently. Sync never deletes rows (a debounced save may carry a stale
// snapshot), so this report is the visibility tool for eventual cleanup.
func StaleLinkReportJob(links *draftlinkstore.Store, logger *zap.Logger, olderThan time.Duration) Job {
	return Job{
		Name:     "stale-link-report",
		Interval: 24 * time.Hour,
		Run: func(ctx context.Context) error {
			count, err := links.CountStale(ctx, time.Now().UTC().Add(-olderThan))
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info("stale synced links",
					zap.Int64("count", count),
					zap.Duration("older_than", olderThan))
			}
			return nil
		},
	}
}

// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. LessonDesk
// uses it to seed starter content into an empty resource library so a fresh
// deployment has something to search.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SeedLibrary {
		if err := seedLibrary(ctx, deps, logger); err != nil {
			return err
		}
	}
	return nil
}

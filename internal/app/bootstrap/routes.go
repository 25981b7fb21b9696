// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	healthfeature "github.com/dalemusser/lessondesk/internal/app/features/health"
	libraryfeature "github.com/dalemusser/lessondesk/internal/app/features/library"
	linksfeature "github.com/dalemusser/lessondesk/internal/app/features/links"
	plannerfeature "github.com/dalemusser/lessondesk/internal/app/features/planner"
	draftlinkstore "github.com/dalemusser/lessondesk/internal/app/store/draftlinks"
	linkstatusstore "github.com/dalemusser/lessondesk/internal/app/store/linkstatus"
	"github.com/dalemusser/lessondesk/internal/app/system/autosave"
	"github.com/dalemusser/lessondesk/internal/app/system/discovery"
	"github.com/dalemusser/lessondesk/internal/app/system/identity"
	"github.com/dalemusser/lessondesk/internal/app/system/tasks"
	"github.com/dalemusser/lessondesk/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Background pieces built in BuildHandler and torn down in Shutdown.
var (
	plannerHandler *plannerfeature.Handler
	linkChecker    *workers.LinkCheck
	taskRunner     *tasks.Runner
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. LessonDesk mounts its JSON feature
// routers behind the anonymous-identity middleware and starts the
// background link checker and maintenance jobs.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Anonymous identity cookie; secure in production mode.
	secure := coreCfg.Env == "prod"
	idMgr := identity.NewManager(appCfg.IdentityKey, appCfg.IdentityDomain, secure, logger)

	index := libraryfeature.NewIndex(deps.MongoDatabase, appCfg.SearchPageSize)

	plannerHandler = plannerfeature.NewHandler(deps.MongoDatabase, index, logger, plannerfeature.Options{
		Autosave: autosave.Options{
			Debounce:    appCfg.AutosaveDebounce,
			SavedWindow: appCfg.AutosaveSavedWindow,
		},
		Search: discovery.Options{
			TextDebounce: appCfg.SearchDebounce,
		},
		DetailTTL: appCfg.DetailTTL,
	})

	libraryHandler := libraryfeature.NewHandler(plannerHandler, logger)
	linksHandler := linksfeature.NewHandler(deps.MongoDatabase, logger)
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators; no
	// identity cookie needed.
	healthfeature.MountRoutes(r, healthHandler)

	r.Group(func(pr chi.Router) {
		pr.Use(idMgr.EnsureIdentity)
		plannerfeature.MountRoutes(pr, plannerHandler)
		libraryfeature.MountRoutes(pr, libraryHandler)
		linksfeature.MountRoutes(pr, linksHandler)
	})

	// Background link checker and maintenance jobs.
	linkChecker = workers.NewLinkCheck(
		draftlinkstore.New(deps.MongoDatabase),
		linkstatusstore.New(deps.MongoDatabase),
		logger,
		appCfg.LinkCheckInterval,
		appCfg.LinkCheckTimeout,
	)
	linkChecker.Start()

	taskRunner = tasks.NewRunner(logger,
		tasks.StaleLinkReportJob(draftlinkstore.New(deps.MongoDatabase), logger, 7*24*time.Hour),
	)
	taskRunner.Start()

	return r, nil
}

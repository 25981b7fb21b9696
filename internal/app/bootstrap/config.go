// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for LessonDesk.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, identity_key, etc.
//   - Environment variables: LESSONDESK_MONGO_URI, LESSONDESK_IDENTITY_KEY, etc.
//   - Command-line flags: --mongo_uri, --identity_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "lessondesk", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "identity_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Identity cookie signing key (must be strong in production)"},
	{Name: "identity_domain", Default: "", Desc: "Identity cookie domain (blank means current host)"},

	// Autosave tuning
	{Name: "autosave_debounce", Default: "800ms", Desc: "Quiet period after the last edit before autosave fires"},
	{Name: "autosave_saved_window", Default: "2s", Desc: "How long the saved badge lingers before returning to idle"},

	// Library search tuning
	{Name: "search_page_size", Default: 10, Desc: "Results per page in the resource picker"},
	{Name: "search_debounce", Default: "300ms", Desc: "Free-text quiet period before a search refresh"},
	{Name: "detail_ttl", Default: "5m", Desc: "Resource detail cache lifetime"},

	// Link checker worker
	{Name: "link_check_interval", Default: "1h", Desc: "Link checker sweep cadence"},
	{Name: "link_check_timeout", Default: "10s", Desc: "Per-URL probe timeout"},

	// Library seeding
	{Name: "seed_library", Default: true, Desc: "Insert starter resources into an empty library at startup"},

	// Base URL of the deployment
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL of the deployment"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, LESSONDESK_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "LESSONDESK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		IdentityKey:    appValues.String("identity_key"),
		IdentityDomain: appValues.String("identity_domain"),

		AutosaveDebounce:    appValues.Duration("autosave_debounce", 800*time.Millisecond),
		AutosaveSavedWindow: appValues.Duration("autosave_saved_window", 2*time.Second),

		SearchPageSize: appValues.Int("search_page_size"),
		SearchDebounce: appValues.Duration("search_debounce", 300*time.Millisecond),
		DetailTTL:      appValues.Duration("detail_ttl", 5*time.Minute),

		LinkCheckInterval: appValues.Duration("link_check_interval", time.Hour),
		LinkCheckTimeout:  appValues.Duration("link_check_timeout", 10*time.Second),

		SeedLibrary: appValues.Bool("seed_library"),

		BaseURL: appValues.String("base_url"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// LessonDesk validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect, and rejects tunings that
// would make the editor misbehave.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.SearchPageSize < 1 {
		return fmt.Errorf("search_page_size must be at least 1, got %d", appCfg.SearchPageSize)
	}
	if appCfg.AutosaveDebounce <= 0 {
		return fmt.Errorf("autosave_debounce must be positive, got %s", appCfg.AutosaveDebounce)
	}
	if appCfg.LinkCheckInterval <= 0 {
		return fmt.Errorf("link_check_interval must be positive, got %s", appCfg.LinkCheckInterval)
	}

	return nil
}

// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, CORS, and request limits. AppConfig is where
// everything specific to the lesson planner lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Anonymous identity cookie configuration
	IdentityKey    string // Secret key for signing the identity cookie (must be strong in production)
	IdentityDomain string // Cookie domain (blank means current host)

	// Autosave tuning
	AutosaveDebounce    time.Duration // quiet period after the last edit before a save fires
	AutosaveSavedWindow time.Duration // how long the "saved" badge lingers before returning to idle

	// Library search tuning
	SearchPageSize int           // results per page in the resource picker
	SearchDebounce time.Duration // free-text quiet period before a page-1 refresh
	DetailTTL      time.Duration // detail panel cache lifetime

	// Link checker worker
	LinkCheckInterval time.Duration // sweep cadence
	LinkCheckTimeout  time.Duration // per-URL probe timeout

	// Library seeding
	SeedLibrary bool // insert starter resources into an empty library at startup

	// Base URL of the deployment, used in logs and exports
	BaseURL string
}

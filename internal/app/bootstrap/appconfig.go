// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, log
// level, CORS, body limits). AppConfig is everything specific to Nexora:
// database connection, session cookies, OAuth credentials, and the knobs
// for report aggregation and PDF export.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // secret key for signing session cookies
	SessionName   string // cookie name (default: nexora-session)
	SessionDomain string // cookie domain (blank means current host)

	// Google OAuth configuration (blank disables the Google sign-in routes)
	GoogleClientID     string
	GoogleClientSecret string

	// BaseURL is the externally visible origin, used to build the OAuth
	// callback URL (e.g. "https://nexora.example.com").
	BaseURL string

	// Report aggregation tuning
	ReportCacheTTL time.Duration // how long assembled reports are reused
	ReportTimeout  time.Duration // budget for a full multi-facility aggregation
	RenderTimeout  time.Duration // budget for aggregation plus PDF render
}

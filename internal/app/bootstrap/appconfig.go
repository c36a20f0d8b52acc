// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers the framework-level settings (ports, TLS,
// logging, CORS, body limits). Everything specific to GuildHub lives here
// and is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: guildhub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Bearer tokens. Blank secret disables token identity.
	TokenSecret string
	TokenIssuer string

	// Bootstrap admin, created or promoted on startup when AdminEmail is set.
	AdminEmail    string
	AdminPassword string

	// Audit logging: "all", "db", "log", or "off"
	AuditLogModeration string
	AuditLogMembership string

	// Mutation rate limiting. Blank RedisAddr keeps counters in memory.
	RateLimitCount  int
	RateLimitWindow time.Duration
	RedisAddr       string

	// Moderation event stream. Blank brokers disables publishing.
	KafkaBrokers []string
	KafkaTopic   string
}

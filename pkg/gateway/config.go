package gateway

import "time"

// Config holds configuration for the gateway server
type Config struct {
	// ListenAddr is the HTTP bind address, e.g. ":6001".
	ListenAddr string

	// DatabaseDSN is the PostgreSQL DSN (pgx).
	DatabaseDSN string

	// RedisAddr enables the user-record cache when non-empty.
	RedisAddr string

	// TokenSecret is the HMAC secret for signing bearer tokens. Rotating it
	// invalidates every outstanding token.
	TokenSecret string

	// TokenTTL is the bearer-token lifetime; zero means the 24h default.
	TokenTTL time.Duration

	// NonceRatePerMinute / NonceBurst bound unauthenticated auth traffic
	// per client IP. Zero disables rate limiting.
	NonceRatePerMinute int
	NonceBurst         int
}

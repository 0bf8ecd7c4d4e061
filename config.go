package authgate

import (
	"errors"
	"time"
)

// StalenessMode selects how the gate treats a token that predates a
// forced-refresh marker.
type StalenessMode uint8

const (
	// StalenessResolve re-resolves authority from the provider and lets
	// the request proceed with the fresh role/permission set.
	StalenessResolve StalenessMode = iota
	// StalenessReject turns the same condition into a terminal
	// TOKEN_STALE rejection, forcing the client through the refresh flow.
	StalenessReject
)

// Config defines the full configuration surface of a [Gate].
//
// Config instances are intended to be configured during initialization and
// then treated as immutable.
type Config struct {
	JWT       JWTConfig
	Cache     CacheConfig
	HTTP      HTTPConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
	Staleness StalenessMode
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig carries the signing secret, issuer, and token lifetimes.
type JWTConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Leeway     time.Duration
}

/*
====================================
CACHE CONFIG
====================================
*/

// CacheConfig controls the authorization cache.
type CacheConfig struct {
	// TTL is the lifetime of cached authorization entries.
	TTL time.Duration
}

/*
====================================
HTTP CONFIG
====================================
*/

// HTTPConfig controls the request-facing surface consumed by the
// middleware package.
type HTTPConfig struct {
	// Header names the request header carrying the token.
	Header string
	// AllowList holds paths that bypass the gate entirely. An entry ending
	// in "*" matches by prefix, otherwise exactly.
	AllowList []string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process metrics system.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the baseline configuration. The signing secret and
// issuer must still be supplied by the caller.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:  2 * time.Hour,
			RefreshTTL: 8 * time.Hour,
		},
		Cache: CacheConfig{
			TTL: 24 * time.Hour,
		},
		HTTP: HTTPConfig{
			Header: DefaultHeader,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("config: JWT.Secret is required")
	}
	if c.JWT.Issuer == "" {
		return errors.New("config: JWT.Issuer is required")
	}
	if c.JWT.AccessTTL <= 0 {
		return errors.New("config: JWT.AccessTTL must be positive")
	}
	if c.JWT.RefreshTTL < c.JWT.AccessTTL {
		return errors.New("config: JWT.RefreshTTL must be >= JWT.AccessTTL")
	}
	if c.Cache.TTL <= 0 {
		return errors.New("config: Cache.TTL must be positive")
	}
	if c.HTTP.Header == "" {
		return errors.New("config: HTTP.Header is required")
	}
	return nil
}

package cavaauth

import (
	"errors"
	"time"

	"github.com/thiagomes07/cava-auth/routes"
)

// Config defines a public type used by cavaauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Cookies CookieConfig
	Locales routes.Locales
	Refresh RefreshConfig
	Session SessionConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
COOKIE CONFIG
====================================
*/

// CookieConfig names the three cookies the request-time router reads.
//
// CookieConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CookieConfig struct {
	AccessToken  string
	UserRole     string
	IndustrySlug string
}

/*
====================================
REFRESH CONFIG
====================================
*/

// RefreshConfig defines a public type used by cavaauth APIs.
//
// RefreshConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RefreshConfig struct {
	Endpoint       string
	LogoutEndpoint string
	Timeout        time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by cavaauth APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	RedisPrefix string
	TTL         time.Duration
}

// AuditConfig defines a public type used by cavaauth APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by cavaauth APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	return Config{
		Cookies: CookieConfig{
			AccessToken:  "access_token",
			UserRole:     "user_role",
			IndustrySlug: "industry_slug",
		},
		Locales: routes.DefaultLocales(),
		Refresh: RefreshConfig{
			Timeout: 10 * time.Second,
		},
		Session: SessionConfig{
			RedisPrefix: "cs",
			TTL:         7 * 24 * time.Hour,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// DefaultConfig returns the platform defaults: the access_token, user_role,
// and industry_slug cookies, pt/en/es locales, and a 7-day server-side
// session TTL.
func DefaultConfig() Config {
	return defaultConfig()
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if len(cfg.Locales.Supported) > 0 {
		out.Locales.Supported = make([]string, len(cfg.Locales.Supported))
		copy(out.Locales.Supported, cfg.Locales.Supported)
	}
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Cookies
	if c.Cookies.AccessToken == "" {
		return errors.New("Cookies AccessToken name is required")
	}
	if c.Cookies.UserRole == "" {
		return errors.New("Cookies UserRole name is required")
	}
	if c.Cookies.IndustrySlug == "" {
		return errors.New("Cookies IndustrySlug name is required")
	}
	if c.Cookies.AccessToken == c.Cookies.UserRole ||
		c.Cookies.AccessToken == c.Cookies.IndustrySlug ||
		c.Cookies.UserRole == c.Cookies.IndustrySlug {
		return errors.New("cookie names must be distinct")
	}

	// Locales
	if c.Locales.Default == "" {
		return errors.New("Locales Default is required")
	}
	if !c.Locales.Contains(c.Locales.Default) {
		return errors.New("Locales Default must be in the supported set")
	}
	seen := make(map[string]struct{}, len(c.Locales.Supported))
	for _, loc := range c.Locales.Supported {
		if loc == "" {
			return errors.New("Locales Supported must not contain empty entries")
		}
		if _, dup := seen[loc]; dup {
			return errors.New("Locales Supported must not contain duplicates")
		}
		seen[loc] = struct{}{}
	}

	// Refresh
	if c.Refresh.Timeout <= 0 {
		return errors.New("Refresh Timeout must be > 0")
	}

	// Session
	if c.Session.RedisPrefix == "" {
		return errors.New("Session RedisPrefix is required")
	}
	if c.Session.TTL <= 0 {
		return errors.New("Session TTL must be > 0")
	}

	// Audit
	if c.Audit.Enabled {
		if c.Audit.BufferSize <= 0 {
			return errors.New("Audit BufferSize must be > 0 when audit is enabled")
		}
	}

	return nil
}

package sessionguard

import (
	"errors"
	"time"
)

// Config defines a public type used by sessionguard APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Session SessionConfig
	Hijack  HijackConfig
	Limits  LimitsConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by sessionguard APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	RedisPrefix string

	// IdleTimeout is the maximum inactivity before a session expires.
	// RememberMeTimeout replaces it for remember-me sessions and must not
	// be shorter. The stored TTL always equals the applicable timeout.
	IdleTimeout       time.Duration
	RememberMeTimeout time.Duration

	// RotationInterval bounds how long one token identifies a session
	// before validation replaces it.
	RotationInterval time.Duration
}

/*
====================================
HIJACK POLICY CONFIG
====================================
*/

// HijackConfig controls the anomaly heuristics. The default asymmetry, where a
// User-Agent mismatch rejects but an IP mismatch only flags, is an intentional
// usability trade-off tolerating mobile/NAT address churn.
type HijackConfig struct {
	RejectOnUserAgentChange bool
	RejectOnIPChange        bool
}

/*
====================================
LIMITS CONFIG
====================================
*/

// LimitsConfig defines a public type used by sessionguard APIs.
//
// LimitsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LimitsConfig struct {
	// MaxSessionsPerUser caps simultaneous sessions; creation beyond the
	// cap evicts the oldest session by creation time. Zero disables the cap.
	MaxSessionsPerUser int

	// EnforceSingleSession is a cap of one expressed directly: every new
	// login displaces all of the user's existing sessions.
	EnforceSingleSession bool
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by sessionguard APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int

	// DropIfFull sheds events instead of blocking the caller when the
	// dispatch buffer is full. Dropped events are counted and exposed via
	// Engine.AuditDropped.
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by sessionguard APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			RedisPrefix:       "sg",
			IdleTimeout:       30 * time.Minute,
			RememberMeTimeout: 30 * 24 * time.Hour,
			RotationInterval:  15 * time.Minute,
		},
		Hijack: HijackConfig{
			RejectOnUserAgentChange: true,
			RejectOnIPChange:        false,
		},
		Limits: LimitsConfig{
			MaxSessionsPerUser: 5,
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

func cloneConfig(cfg Config) Config {
	// Config holds only value types; a shallow copy is a deep copy.
	return cfg
}

func validateConfig(cfg Config) error {
	if cfg.Session.IdleTimeout <= 0 {
		return errors.New("session idle timeout must be positive")
	}
	if cfg.Session.RememberMeTimeout < cfg.Session.IdleTimeout {
		return errors.New("remember-me timeout must be at least the idle timeout")
	}
	if cfg.Session.RotationInterval <= 0 {
		return errors.New("session rotation interval must be positive")
	}
	if cfg.Limits.MaxSessionsPerUser < 0 {
		return errors.New("max sessions per user must not be negative")
	}
	if cfg.Audit.Enabled && cfg.Audit.BufferSize < 0 {
		return errors.New("audit buffer size must not be negative")
	}
	return nil
}

package sessionguard

import (
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := validateConfig(defaultConfig()); err != nil {
		t.Fatalf("default config must validate, got %v", err)
	}
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero idle timeout", func(c *Config) { c.Session.IdleTimeout = 0 }},
		{"negative idle timeout", func(c *Config) { c.Session.IdleTimeout = -time.Minute }},
		{"remember-me shorter than idle", func(c *Config) {
			c.Session.IdleTimeout = time.Hour
			c.Session.RememberMeTimeout = time.Minute
		}},
		{"zero rotation interval", func(c *Config) { c.Session.RotationInterval = 0 }},
		{"negative session cap", func(c *Config) { c.Limits.MaxSessionsPerUser = -1 }},
		{"negative audit buffer", func(c *Config) {
			c.Audit.Enabled = true
			c.Audit.BufferSize = -1
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(&cfg)
			if err := validateConfig(cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestBuilderRequiresRedis(t *testing.T) {
	up := newMemoryUserProvider(User{UserID: "u1", IsActive: true})

	if _, err := New().WithUserProvider(up).Build(); err == nil {
		t.Fatal("expected error without redis client")
	}
}

func TestBuilderRequiresUserProvider(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	if _, err := New().WithRedis(rdb).Build(); err == nil {
		t.Fatal("expected error without user provider")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	builder := New().
		WithRedis(rdb).
		WithUserProvider(newMemoryUserProvider(User{UserID: "u1", IsActive: true}))

	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := builder.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestBuilderRejectsInvalidConfig(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	cfg := defaultConfig()
	cfg.Session.IdleTimeout = 0

	_, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUserProvider(newMemoryUserProvider(User{UserID: "u1", IsActive: true})).
		Build()
	if err == nil {
		t.Fatal("expected invalid config rejected")
	}
}

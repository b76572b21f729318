package cavaauth

import (
	"testing"
	"time"

	"github.com/thiagomes07/cava-auth/routes"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Cookies.AccessToken != "access_token" ||
		cfg.Cookies.UserRole != "user_role" ||
		cfg.Cookies.IndustrySlug != "industry_slug" {
		t.Fatalf("unexpected default cookie names: %+v", cfg.Cookies)
	}
	if cfg.Locales.Default != "pt" {
		t.Fatalf("default locale = %q, want pt", cfg.Locales.Default)
	}
}

func TestConfigValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{"empty access token cookie", func(cfg *Config) { cfg.Cookies.AccessToken = "" }},
		{"empty role cookie", func(cfg *Config) { cfg.Cookies.UserRole = "" }},
		{"empty slug cookie", func(cfg *Config) { cfg.Cookies.IndustrySlug = "" }},
		{"colliding cookie names", func(cfg *Config) { cfg.Cookies.UserRole = cfg.Cookies.AccessToken }},
		{"empty default locale", func(cfg *Config) { cfg.Locales.Default = "" }},
		{"default locale not supported", func(cfg *Config) { cfg.Locales.Default = "fr" }},
		{"duplicate locale", func(cfg *Config) { cfg.Locales.Supported = append(cfg.Locales.Supported, "en") }},
		{"empty locale entry", func(cfg *Config) { cfg.Locales.Supported = append(cfg.Locales.Supported, "") }},
		{"zero refresh timeout", func(cfg *Config) { cfg.Refresh.Timeout = 0 }},
		{"empty redis prefix", func(cfg *Config) { cfg.Session.RedisPrefix = "" }},
		{"zero session ttl", func(cfg *Config) { cfg.Session.TTL = 0 }},
		{"audit enabled without buffer", func(cfg *Config) {
			cfg.Audit.Enabled = true
			cfg.Audit.BufferSize = 0
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestBuilderRequiresAuthClient(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("expected build to fail without an auth client")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New().WithAuthClient(newFakeAuthClient())
	store, err := b.Build()
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	t.Cleanup(store.Close)

	if _, err := b.Build(); err == nil {
		t.Fatal("expected second build to fail")
	}
}

func TestBuilderClonesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Refresh.Timeout = 3 * time.Second

	b := New().WithConfig(cfg).WithAuthClient(newFakeAuthClient())
	cfg.Locales.Supported[0] = "zz"

	store, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(store.Close)

	if store.Locales().Supported[0] == "zz" {
		t.Fatal("builder shared the caller's locale slice")
	}
}

func TestBuilderUsesCustomMatrix(t *testing.T) {
	m := routes.NewMatrix()
	if err := m.RegisterRole(routes.RoleBroker, []string{"/deals"}); err != nil {
		t.Fatalf("register role: %v", err)
	}

	store, err := New().
		WithAuthClient(newFakeAuthClient()).
		WithMatrix(m).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(store.Close)

	if !store.Matrix().CanAccess(routes.RoleBroker, "/deals/42") {
		t.Fatal("custom matrix not in effect")
	}
	if store.Matrix().CanAccess(routes.RoleBroker, "/dashboard") {
		t.Fatal("default matrix leaked into custom build")
	}
}

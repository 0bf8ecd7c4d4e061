package authgate

import (
	"testing"
	"time"
)

func TestDefaultConfigValidatesWithSecretAndIssuer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.JWT.Secret = "s"
	cfg.JWT.Issuer = "i"

	if err := cfg.validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	if cfg.HTTP.Header != DefaultHeader {
		t.Fatalf("expected default header %q, got %q", DefaultHeader, cfg.HTTP.Header)
	}
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	base := func() Config {
		cfg := DefaultConfig()
		cfg.JWT.Secret = "s"
		cfg.JWT.Issuer = "i"
		return cfg
	}

	cases := map[string]func(*Config){
		"missing secret":       func(c *Config) { c.JWT.Secret = "" },
		"missing issuer":       func(c *Config) { c.JWT.Issuer = "" },
		"zero access ttl":      func(c *Config) { c.JWT.AccessTTL = 0 },
		"refresh below access": func(c *Config) { c.JWT.RefreshTTL = c.JWT.AccessTTL - time.Minute },
		"zero cache ttl":       func(c *Config) { c.Cache.TTL = 0 },
		"missing header":       func(c *Config) { c.HTTP.Header = "" },
	}
	for name, mutate := range cases {
		cfg := base()
		mutate(&cfg)
		if err := cfg.validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

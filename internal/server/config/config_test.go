package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if cfg.EndpointAddr != ":8080" {
		t.Errorf("unexpected default addr: %q", cfg.EndpointAddr)
	}
	if cfg.AccessTokenValidityDuration != 30*time.Minute {
		t.Errorf("unexpected access token validity: %v", cfg.AccessTokenValidityDuration)
	}
	if cfg.ResetTokenValidityDuration != 15*time.Minute {
		t.Errorf("unexpected reset token validity: %v", cfg.ResetTokenValidityDuration)
	}
	if cfg.PasswordHashCost != 10 {
		t.Errorf("unexpected bcrypt cost: %d", cfg.PasswordHashCost)
	}
	if cfg.SecretKey != "" {
		t.Errorf("secret key must have no default, got %q", cfg.SecretKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) { c.SecretKey = "k" }, false},
		{"missing secret", func(c *Config) {}, true},
		{"zero access ttl", func(c *Config) {
			c.SecretKey = "k"
			c.AccessTokenValidityDuration = 0
		}, true},
		{"negative reset ttl", func(c *Config) {
			c.SecretKey = "k"
			c.ResetTokenValidityDuration = -time.Minute
		}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.LoadDefaults()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{old[0]}, args...)
	t.Cleanup(func() { os.Args = old })
}

func TestParseJson_OverlaysValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{
		"endpoint_addr": ":9090",
		"database_dsn": "postgres://u:p@db:5432/karty",
		"secret_key": "json-secret",
		"access_token_validity_duration": "45m",
		"reset_token_validity_duration": "10m",
		"password_hash_cost": 12,
		"smtp_addr": "smtp.example.com:587",
		"mail_from": "info@example.com",
		"reset_link_base_url": "https://karty.example.com/reset"
	}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	withArgs(t, "-c", path)

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	if cfg.EndpointAddr != ":9090" {
		t.Errorf("addr not overlaid: %q", cfg.EndpointAddr)
	}
	if cfg.SecretKey != "json-secret" {
		t.Errorf("secret not overlaid: %q", cfg.SecretKey)
	}
	if cfg.AccessTokenValidityDuration != 45*time.Minute {
		t.Errorf("access ttl not overlaid: %v", cfg.AccessTokenValidityDuration)
	}
	if cfg.ResetTokenValidityDuration != 10*time.Minute {
		t.Errorf("reset ttl not overlaid: %v", cfg.ResetTokenValidityDuration)
	}
	if cfg.PasswordHashCost != 12 {
		t.Errorf("cost not overlaid: %d", cfg.PasswordHashCost)
	}
	if cfg.SMTPAddr != "smtp.example.com:587" {
		t.Errorf("smtp addr not overlaid: %q", cfg.SMTPAddr)
	}
}

func TestParseJson_NoFileFlagIsNoop(t *testing.T) {
	withArgs(t)

	cfg := &Config{}
	cfg.LoadDefaults()
	before := *cfg
	parseJson(cfg)

	if *cfg != before {
		t.Fatalf("config changed without a -c flag: %+v", cfg)
	}
}

func TestParseJson_BadFilePanics(t *testing.T) {
	withArgs(t, "-c", filepath.Join(t.TempDir(), "missing.json"))

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unreadable config file")
		}
	}()

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
}

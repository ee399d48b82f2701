package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 8710 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 8710)
	}
	if cfg.Clients.FFLogs.RateLimit != 4 {
		t.Errorf("FFLogs.RateLimit default = %d, want 4", cfg.Clients.FFLogs.RateLimit)
	}
	if !cfg.Clients.FFLogs.CacheEnabled {
		t.Error("FFLogs.CacheEnabled should default true")
	}
	if len(cfg.Clients.FFLogs.Zones) == 0 {
		t.Error("expected default zone queries")
	}
}

func TestConfig_LoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partygate.toml")
	content := `
environment = "production"

[server]
port = 9999

[clients.fflogs]
client_id = "abc"
client_secret = "def"
timeout = "5s"

[thresholds]
poll_interval = "15s"

[[thresholds.settings.thresholds]]
encounter_id = 87
name = "The Omega Protocol"
minimum_kills = 5
enabled = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("unset fields should keep defaults, got host %q", cfg.Server.Host)
	}
	if cfg.Clients.FFLogs.GetTimeout() != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.Clients.FFLogs.GetTimeout())
	}
	if cfg.Thresholds.GetPollInterval() != 15*time.Second {
		t.Errorf("poll_interval = %v, want 15s", cfg.Thresholds.GetPollInterval())
	}
	if len(cfg.Thresholds.Settings.Thresholds) != 1 || cfg.Thresholds.Settings.Thresholds[0].EncounterID != 87 {
		t.Errorf("thresholds not loaded: %+v", cfg.Thresholds.Settings.Thresholds)
	}
}

func TestConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("/does/not/exist/partygate.toml")
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Server.Port != 8710 {
		t.Errorf("expected defaults, got port %d", cfg.Server.Port)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PARTYGATE_PORT", "9090")
	t.Setenv("PARTYGATE_FFLOGS_CLIENT_ID", "env-id")
	t.Setenv("PARTYGATE_FFLOGS_CLIENT_SECRET", "env-secret")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want 9090", cfg.Server.Port)
	}
	if cfg.Clients.FFLogs.ClientID != "env-id" || cfg.Clients.FFLogs.ClientSecret != "env-secret" {
		t.Errorf("credentials not overridden: %+v", cfg.Clients.FFLogs)
	}
}

func TestThresholdsConfig_PollIntervalDisabled(t *testing.T) {
	for _, v := range []string{"", "0"} {
		cfg := ThresholdsConfig{PollInterval: v}
		if got := cfg.GetPollInterval(); got != 0 {
			t.Errorf("PollInterval %q: got %v, want 0", v, got)
		}
	}

	cfg := ThresholdsConfig{PollInterval: "garbage"}
	if got := cfg.GetPollInterval(); got != 30*time.Second {
		t.Errorf("unparsable interval should fall back to 30s, got %v", got)
	}
}

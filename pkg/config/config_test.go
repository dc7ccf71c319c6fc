package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
environment: test
server:
  port: 8080
  read_timeout: 5s
  write_timeout: 5s
  shutdown_timeout: 10s
logging:
  level: info
  format: console
  output: stdout
cache:
  enabled: true
  ttl: 15s
  memory_max_size: 500
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment != "test" {
		t.Fatalf("environment = %q, want test", cfg.Environment)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("port = %d, want 8080", cfg.Server.Port)
	}
	if !cfg.Cache.Enabled || cfg.Cache.MemoryMaxSize != 500 {
		t.Fatalf("cache section not parsed: %+v", cfg.Cache)
	}
}

func TestLoadRejectsMissingEnvironment(t *testing.T) {
	if _, err := Load(writeConfig(t, "server:\n  port: 8080\n")); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadRejectsEventsWithoutBrokers(t *testing.T) {
	body := validYAML + "events:\n  enabled: true\n  topic: regimes\n"
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected validation error for empty brokers")
	}
}

func TestLoadWithEnvOverride(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("KAFKA_TOPIC", "regime-decisions")
	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Events.Enabled || len(cfg.Events.Brokers) != 2 || cfg.Events.Topic != "regime-decisions" {
		t.Fatalf("env override not applied: %+v", cfg.Events)
	}
}

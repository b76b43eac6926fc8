package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")

	configContent := `
node:
  base_url: http://gateway.local
  registry_url: http://registry.local
  service_id: node-1

federation:
  workers: 8
  timeout_seconds: 45
  max_retries: 1

registry:
  path: /var/lib/fedsearch/federation.db

server:
  port: 5050
  base_path: /api/federation

logging:
  level: debug
  format: text
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Node.BaseURL != "http://gateway.local" {
		t.Errorf("expected base_url http://gateway.local, got %q", cfg.Node.BaseURL)
	}
	if cfg.Federation.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Federation.Workers)
	}
	if cfg.Federation.TimeoutSeconds != 45 {
		t.Errorf("expected timeout 45, got %d", cfg.Federation.TimeoutSeconds)
	}
	if cfg.Registry.Path != "/var/lib/fedsearch/federation.db" {
		t.Errorf("unexpected registry path %q", cfg.Registry.Path)
	}
	if cfg.Server.Port != 5050 {
		t.Errorf("expected port 5050, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Logging.Level)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "minimal.yaml")

	configContent := `
node:
  base_url: http://gateway.local
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Federation.Workers <= 0 {
		t.Errorf("expected a positive default worker count, got %d", cfg.Federation.Workers)
	}
	if cfg.Federation.TimeoutSeconds != 180 {
		t.Errorf("expected default timeout 180, got %d", cfg.Federation.TimeoutSeconds)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("expected default port 5000, got %d", cfg.Server.Port)
	}
	if cfg.Registry.Path != "data/federation.db" {
		t.Errorf("unexpected default registry path %q", cfg.Registry.Path)
	}
}

func TestLoadSubstitutesEnvVars(t *testing.T) {
	t.Setenv("FEDSEARCH_TEST_GATEWAY", "http://env-gateway.local")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "env.yaml")

	configContent := `
node:
  base_url: ${FEDSEARCH_TEST_GATEWAY}
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Node.BaseURL != "http://env-gateway.local" {
		t.Errorf("env var was not substituted, got %q", cfg.Node.BaseURL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/fedsearch.yaml"); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

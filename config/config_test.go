package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("expected default NATS URL nats://localhost:4222, got %s", cfg.NATS.URL)
	}
	if cfg.Subjects.Request != "enrich.request.>" {
		t.Errorf("expected default request subject enrich.request.>, got %s", cfg.Subjects.Request)
	}
	if cfg.Codec.Format != "turtle" {
		t.Errorf("expected default format turtle, got %s", cfg.Codec.Format)
	}
	if cfg.Agent.ID != "" {
		t.Errorf("expected no default agent ID, got %s", cfg.Agent.ID)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "valid agent id",
			modify:  func(c *Config) { c.Agent.ID = "3f2c7a9e-51d4-4b8a-9c0e-7d1f2a3b4c5d" },
			wantErr: false,
		},
		{
			name:    "invalid agent id",
			modify:  func(c *Config) { c.Agent.ID = "agent-7" },
			wantErr: true,
		},
		{
			name:    "missing NATS URL",
			modify:  func(c *Config) { c.NATS.URL = "" },
			wantErr: true,
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.NATS.Timeout = -time.Second },
			wantErr: true,
		},
		{
			name:    "missing request subject",
			modify:  func(c *Config) { c.Subjects.Request = "" },
			wantErr: true,
		},
		{
			name:    "unknown format",
			modify:  func(c *Config) { c.Codec.Format = "rdfxml" },
			wantErr: true,
		},
		{
			name:    "ntriples format",
			modify:  func(c *Config) { c.Codec.Format = "nt" },
			wantErr: false,
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "rule without property",
			modify:  func(c *Config) { c.Rules = []RuleConfig{{Target: "*"}} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
agent:
  id: "3f2c7a9e-51d4-4b8a-9c0e-7d1f2a3b4c5d"
  name: "builds"
nats:
  url: "nats://test:4222"
  timeout: 30s
subjects:
  request: "enrich.request.builds"
codec:
  format: ntriples
  mirror_graph: true
log:
  level: debug
rules:
  - target: "*"
    property: "https://example.org/ci#checkedBy"
    object: "https://example.org/agents/7"
    object_kind: resource
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Agent.Name != "builds" {
		t.Errorf("expected agent name builds, got %s", cfg.Agent.Name)
	}
	if cfg.NATS.URL != "nats://test:4222" {
		t.Errorf("expected NATS URL nats://test:4222, got %s", cfg.NATS.URL)
	}
	if cfg.NATS.Timeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.NATS.Timeout)
	}
	if cfg.Subjects.Request != "enrich.request.builds" {
		t.Errorf("expected request subject enrich.request.builds, got %s", cfg.Subjects.Request)
	}
	// Unset keys keep their defaults
	if cfg.Subjects.Response != "enrich.response" {
		t.Errorf("expected default response subject, got %s", cfg.Subjects.Response)
	}
	if cfg.Codec.Format != "ntriples" || !cfg.Codec.MirrorGraph {
		t.Errorf("unexpected codec config %+v", cfg.Codec)
	}
	if len(cfg.Rules) != 1 || cfg.Rules[0].ObjectKind != "resource" {
		t.Errorf("unexpected rules %+v", cfg.Rules)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("nats: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	base.Rules = []RuleConfig{{Target: "*", Property: "https://example.org/p", Object: "a"}}
	override := &Config{
		NATS: NATSConfig{
			URL: "nats://override:4222",
		},
		Codec: CodecConfig{
			MirrorGraph: true,
		},
		Rules: []RuleConfig{{Target: "https://example.org/x", Property: "https://example.org/p", Object: "b"}},
	}

	base.Merge(override)

	if base.NATS.URL != "nats://override:4222" {
		t.Errorf("expected NATS URL override, got %s", base.NATS.URL)
	}
	// Timeout should remain from base since override didn't set it
	if base.NATS.Timeout != 10*time.Second {
		t.Errorf("expected timeout to remain default, got %v", base.NATS.Timeout)
	}
	if base.Codec.Format != "turtle" || !base.Codec.MirrorGraph {
		t.Errorf("unexpected codec config %+v", base.Codec)
	}
	if len(base.Rules) != 1 || base.Rules[0].Object != "b" {
		t.Errorf("expected rules to be replaced, got %+v", base.Rules)
	}

	base.Merge(nil)
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Agent.Name = "saved-agent"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Agent.Name != "saved-agent" {
		t.Errorf("expected agent name saved-agent, got %s", loaded.Agent.Name)
	}
}

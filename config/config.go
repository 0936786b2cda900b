// Package config provides configuration loading and management for semagent.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/c360studio/semagent/graph"
	"github.com/c360studio/semagent/value"
	"gopkg.in/yaml.v3"
)

// Config represents the complete semagent configuration
type Config struct {
	Agent    AgentConfig    `yaml:"agent"`
	NATS     NATSConfig     `yaml:"nats"`
	Subjects SubjectsConfig `yaml:"subjects"`
	Codec    CodecConfig    `yaml:"codec"`
	Log      LogConfig      `yaml:"log"`
	Rules    []RuleConfig   `yaml:"rules"`
}

// AgentConfig identifies this agent on outbound messages
type AgentConfig struct {
	// ID is the agent UUID (generated at startup if empty)
	ID string `yaml:"id"`
	// Name is a human-readable label used in logs and the NATS connection name
	Name string `yaml:"name"`
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	// URL is the NATS server URL
	URL string `yaml:"url"`
	// Timeout bounds connecting and single request/reply round trips
	Timeout time.Duration `yaml:"timeout"`
}

// SubjectsConfig names the subjects the agent uses
type SubjectsConfig struct {
	// Request is the subscription subject for inbound requests (wildcards allowed)
	Request string `yaml:"request"`
	// Response is where responses go when a request has no routing key
	Response string `yaml:"response"`
}

// CodecConfig configures the wire format
type CodecConfig struct {
	// Format is turtle or ntriples
	Format string `yaml:"format"`
	// MirrorGraph publishes decoded message graphs for graph ingestion
	MirrorGraph bool `yaml:"mirror_graph"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `yaml:"level"`
}

// RuleConfig is one static enrichment rule
type RuleConfig struct {
	Target     string `yaml:"target"`
	Property   string `yaml:"property"`
	Object     string `yaml:"object"`
	ObjectKind string `yaml:"object_kind,omitempty"`
	Datatype   string `yaml:"datatype,omitempty"`
	Language   string `yaml:"language,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Name: "semagent",
		},
		NATS: NATSConfig{
			URL:     "nats://localhost:4222",
			Timeout: 10 * time.Second,
		},
		Subjects: SubjectsConfig{
			Request:  "enrich.request.>",
			Response: "enrich.response",
		},
		Codec: CodecConfig{
			Format: string(graph.FormatTurtle),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Agent.ID != "" {
		if _, err := value.ParseUUID(c.Agent.ID); err != nil {
			return fmt.Errorf("agent.id: %w", err)
		}
	}
	if c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required")
	}
	if c.NATS.Timeout < 0 {
		return fmt.Errorf("nats.timeout must be non-negative")
	}
	if c.Subjects.Request == "" {
		return fmt.Errorf("subjects.request is required")
	}
	if _, err := graph.ParseFormat(c.Codec.Format); err != nil {
		return fmt.Errorf("codec.format: %w", err)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	for i, r := range c.Rules {
		if r.Target == "" || r.Property == "" {
			return fmt.Errorf("rules[%d]: target and property are required", i)
		}
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Agent.ID != "" {
		c.Agent.ID = other.Agent.ID
	}
	if other.Agent.Name != "" {
		c.Agent.Name = other.Agent.Name
	}

	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Timeout != 0 {
		c.NATS.Timeout = other.NATS.Timeout
	}

	if other.Subjects.Request != "" {
		c.Subjects.Request = other.Subjects.Request
	}
	if other.Subjects.Response != "" {
		c.Subjects.Response = other.Subjects.Response
	}

	if other.Codec.Format != "" {
		c.Codec.Format = other.Codec.Format
	}
	if other.Codec.MirrorGraph {
		c.Codec.MirrorGraph = true
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}

	// Rules replace rather than append so a project can narrow the user set
	if len(other.Rules) > 0 {
		c.Rules = other.Rules
	}
}

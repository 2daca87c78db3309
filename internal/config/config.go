// Package config loads the weave.yml project configuration and the YAML
// request files passed to the generate command.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dyluth/weave/pkg/engine"
)

// WeaveConfig represents the top-level weave.yml configuration.
type WeaveConfig struct {
	Version   string           `yaml:"version"`
	Project   ProjectConfig    `yaml:"project"`
	Models    *ModelsConfig    `yaml:"models,omitempty"`
	Telemetry *TelemetryConfig `yaml:"telemetry,omitempty"`
	LogLevel  string           `yaml:"log_level,omitempty"`
}

// ProjectConfig identifies the project and carries its base seed. The base
// seed roots the deterministic stream pool; the name namespaces Redis keys
// and channels.
type ProjectConfig struct {
	Name string `yaml:"name"`
	Seed int64  `yaml:"seed"`
}

// ModelsConfig points at the directory holding Markov model documents.
type ModelsConfig struct {
	Dir string `yaml:"dir"`
}

// TelemetryConfig enables the Redis-backed telemetry recorder.
type TelemetryConfig struct {
	Redis *RedisConfig `yaml:"redis,omitempty"`
}

// RedisConfig specifies the Redis connection for telemetry and shared models.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// Validate performs strict validation on the configuration and applies
// defaults.
func (c *WeaveConfig) Validate() error {
	// Required: version
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	// Required: project name
	if c.Project.Name == "" {
		return fmt.Errorf("project.name is required")
	}

	// If a models directory is specified, verify it exists
	if c.Models != nil && c.Models.Dir != "" {
		info, err := os.Stat(c.Models.Dir)
		if os.IsNotExist(err) {
			return fmt.Errorf("models directory does not exist: %s", c.Models.Dir)
		}
		if err == nil && !info.IsDir() {
			return fmt.Errorf("models path is not a directory: %s", c.Models.Dir)
		}
	}

	// Telemetry requires a Redis address when enabled
	if c.Telemetry != nil && c.Telemetry.Redis != nil && c.Telemetry.Redis.Addr == "" {
		return fmt.Errorf("telemetry.redis.addr is required when telemetry.redis is set")
	}

	// Apply default log level if missing
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %s (must be 'debug', 'info', 'warn', or 'error')", c.LogLevel)
	}

	return nil
}

// Load reads and validates weave.yml from the specified path.
func Load(path string) (*WeaveConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config WeaveConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadRequest reads a YAML request file into an engine config. The document
// must be a mapping; the engine's own validation handles everything past
// that.
func LoadRequest(path string) (engine.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request: %w", err)
	}

	var request map[string]any
	if err := yaml.Unmarshal(data, &request); err != nil {
		return nil, fmt.Errorf("failed to parse request YAML: %w", err)
	}
	if request == nil {
		return nil, fmt.Errorf("request file is empty: %s", path)
	}

	return engine.Config(request), nil
}

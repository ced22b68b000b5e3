package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the litesync CLI.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Schema   SchemaConfig   `yaml:"schema"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	// Name is the logical database name. Prefix with "unbounded:" to opt
	// out of the small-size ceiling warning.
	Name string `yaml:"name"`

	// Dir is the directory holding database files.
	Dir string `yaml:"dir"`

	// Version is the expected database version; empty accepts any.
	Version string `yaml:"version"`

	// EstimatedSize is the advisory size estimate in bytes.
	EstimatedSize int64 `yaml:"estimated_size"`

	// WALMode enables Write-Ahead Logging.
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the maximum time to wait for a database lock (seconds).
	BusyTimeout int `yaml:"busy_timeout"`

	// TraceSQL logs every executed statement at debug level.
	TraceSQL bool `yaml:"trace_sql"`
}

// SchemaConfig describes the schema document to apply.
type SchemaConfig struct {
	// Source is the document locator: a file path or an http(s) URL.
	Source string `yaml:"source"`

	// TargetVersion, when set, moves the database to this version after a
	// successful synchronization.
	TargetVersion string `yaml:"target_version"`
}

// MQTTConfig contains MQTT broker connection settings for schema lifecycle
// events. Disabled by default.
type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	QoS      int    `yaml:"qos"`
}

// MetricsConfig contains InfluxDB settings for sync-phase timings.
// Disabled by default.
type MetricsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is json or text.
	Format string `yaml:"format"`

	// Output is stdout or stderr.
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: LITESYNC_SECTION_KEY
// For example: LITESYNC_DATABASE_DIR, LITESYNC_SCHEMA_SOURCE
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Name:        "litesync",
			Dir:         "./data",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Host:     "localhost",
			Port:     1883,
			ClientID: "litesync",
			QoS:      1,
		},
		Metrics: MetricsConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: LITESYNC_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("LITESYNC_DATABASE_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("LITESYNC_DATABASE_DIR"); v != "" {
		cfg.Database.Dir = v
	}
	if v := os.Getenv("LITESYNC_DATABASE_VERSION"); v != "" {
		cfg.Database.Version = v
	}

	// Schema
	if v := os.Getenv("LITESYNC_SCHEMA_SOURCE"); v != "" {
		cfg.Schema.Source = v
	}
	if v := os.Getenv("LITESYNC_SCHEMA_TARGET_VERSION"); v != "" {
		cfg.Schema.TargetVersion = v
	}

	// MQTT
	if v := os.Getenv("LITESYNC_MQTT_HOST"); v != "" {
		cfg.MQTT.Host = v
	}
	if v := os.Getenv("LITESYNC_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Username = v
	}
	if v := os.Getenv("LITESYNC_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Password = v
	}

	// Metrics
	if v := os.Getenv("LITESYNC_METRICS_TOKEN"); v != "" {
		cfg.Metrics.Token = v
	}

	// Logging
	if v := os.Getenv("LITESYNC_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Database.Name == "" {
		errs = append(errs, "database.name is required")
	}
	if c.Database.BusyTimeout < 0 {
		errs = append(errs, "database.busy_timeout must not be negative")
	}

	if c.Schema.Source == "" {
		errs = append(errs, "schema.source is required")
	}

	if c.MQTT.Enabled {
		if c.MQTT.Host == "" {
			errs = append(errs, "mqtt.host is required when mqtt is enabled")
		}
		if c.MQTT.Port < 1 || c.MQTT.Port > 65535 {
			errs = append(errs, "mqtt.port must be between 1 and 65535")
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
	}

	if c.Metrics.Enabled {
		if c.Metrics.URL == "" {
			errs = append(errs, "metrics.url is required when metrics are enabled")
		}
		if c.Metrics.Bucket == "" {
			errs = append(errs, "metrics.bucket is required when metrics are enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SourceIsHTTP reports whether the schema source is an http(s) URL rather
// than a local file path.
func (c *Config) SourceIsHTTP() bool {
	src := strings.ToLower(c.Schema.Source)
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// BrokerAddr returns the MQTT broker address as host:port.
func (c *MQTTConfig) BrokerAddr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

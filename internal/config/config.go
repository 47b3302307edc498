// Package config holds the runtime configuration of bookloop.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when none is given.
const DefaultPath = "bookloop.yaml"

// Config contains configurable parameters for bookloop.
// Use DefaultConfig() to get sensible defaults, then override as needed.
type Config struct {
	// Content generation
	GeminiAPIKey  string        `yaml:"geminiApiKey"`  // Credential for the generation service
	GeminiModel   string        `yaml:"geminiModel"`   // Model name (default: gemini-2.5-flash)
	Offline       bool          `yaml:"offline"`       // Use the built-in fixture batch instead of the service
	IngestTimeout time.Duration `yaml:"ingestTimeout"` // Bound on the one-shot load (default: 30s)
	RandomSeed    uint64        `yaml:"randomSeed"`    // Seed for synthesized fields; 0 picks one at start

	// Activity journal
	DuckDBPath          string        `yaml:"duckdbPath"`          // DSN for the journal (default: in-memory)
	DuckDBThreads       int           `yaml:"duckdbThreads"`       // DuckDB worker threads (0 = engine default)
	DuckDBMemoryLimitMB int           `yaml:"duckdbMemoryLimitMb"` // DuckDB memory cap in MB (0 = engine default)
	DuckDBTimeout       time.Duration `yaml:"duckdbTimeout"`       // Bound on opening the journal (default: 5s)

	// Lender graph; disabled while Neo4jURI is empty
	Neo4jURI      string        `yaml:"neo4jUri"`
	Neo4jUser     string        `yaml:"neo4jUser"`
	Neo4jPassword string        `yaml:"neo4jPassword"`
	Neo4jDatabase string        `yaml:"neo4jDatabase"`
	GraphTimeout  time.Duration `yaml:"graphTimeout"` // Per-sync timeout (default: 10s)

	// Terminal UI
	CarouselInterval time.Duration `yaml:"carouselInterval"` // Banner rotation (default: 5s)
	NoticeDuration   time.Duration `yaml:"noticeDuration"`   // How long notices stay up (default: 4s)

	// Logging
	LogFile string `yaml:"logFile"` // Log destination (default: bookloop.log)
	Verbose bool   `yaml:"verbose"` // Debug level logging
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		GeminiModel:   "gemini-2.5-flash",
		IngestTimeout: 30 * time.Second,

		DuckDBPath:    ":memory:",
		DuckDBTimeout: 5 * time.Second,

		Neo4jUser:     "neo4j",
		Neo4jDatabase: "neo4j",
		GraphTimeout:  10 * time.Second,

		CarouselInterval: 5 * time.Second,
		NoticeDuration:   4 * time.Second,

		LogFile: "bookloop.log",
	}
}

// WithOffline returns a copy of the config with the fixture generator enabled/disabled.
func (c Config) WithOffline(enabled bool) Config {
	c.Offline = enabled
	return c
}

// WithVerbose returns a copy of the config with debug logging enabled/disabled.
func (c Config) WithVerbose(enabled bool) Config {
	c.Verbose = enabled
	return c
}

// WithIngestTimeout returns a copy of the config with modified ingestion timeout.
func (c Config) WithIngestTimeout(d time.Duration) Config {
	c.IngestTimeout = d
	return c
}

// WithLogFile returns a copy of the config with modified log destination.
func (c Config) WithLogFile(path string) Config {
	c.LogFile = path
	return c
}

// WithDuckDBPath returns a copy of the config with modified journal DSN.
func (c Config) WithDuckDBPath(dsn string) Config {
	c.DuckDBPath = dsn
	return c
}

// GraphEnabled reports whether a Neo4j endpoint is configured.
func (c Config) GraphEnabled() bool {
	return c.Neo4jURI != ""
}

// Validate checks if the configuration is valid and returns an error if not.
func (c Config) Validate() error {
	if c.IngestTimeout <= 0 {
		return &ConfigError{Field: "IngestTimeout", Message: "must be positive"}
	}
	if !c.Offline && c.GeminiModel == "" {
		return &ConfigError{Field: "GeminiModel", Message: "must not be empty"}
	}
	if c.DuckDBPath == "" {
		return &ConfigError{Field: "DuckDBPath", Message: "must not be empty"}
	}
	if c.DuckDBThreads < 0 {
		return &ConfigError{Field: "DuckDBThreads", Message: "must not be negative"}
	}
	if c.DuckDBMemoryLimitMB < 0 {
		return &ConfigError{Field: "DuckDBMemoryLimitMB", Message: "must not be negative"}
	}
	if c.DuckDBTimeout < 0 {
		return &ConfigError{Field: "DuckDBTimeout", Message: "must not be negative"}
	}
	if c.GraphEnabled() && c.GraphTimeout <= 0 {
		return &ConfigError{Field: "GraphTimeout", Message: "must be positive"}
	}
	if c.CarouselInterval <= 0 {
		return &ConfigError{Field: "CarouselInterval", Message: "must be positive"}
	}
	if c.NoticeDuration <= 0 {
		return &ConfigError{Field: "NoticeDuration", Message: "must be positive"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + " " + e.Message
}

// Load reads the YAML file at path on top of the defaults and then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}
	if v := os.Getenv("BOOKLOOP_OFFLINE"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Offline = enabled
		}
	}
	if v := os.Getenv("BOOKLOOP_INGEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.IngestTimeout = d
		}
	}
	if v := os.Getenv("DUCKDB_PATH"); v != "" {
		cfg.DuckDBPath = v
	}
	if v := os.Getenv("DUCKDB_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DuckDBThreads = n
		}
	}
	if v := os.Getenv("DUCKDB_MEMORY_LIMIT_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DuckDBMemoryLimitMB = n
		}
	}
	if v := os.Getenv("NEO4J_URI"); v != "" {
		cfg.Neo4jURI = v
	}
	if v := os.Getenv("NEO4J_USER"); v != "" {
		cfg.Neo4jUser = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		cfg.Neo4jPassword = v
	}
	if v := os.Getenv("NEO4J_DATABASE"); v != "" {
		cfg.Neo4jDatabase = v
	}
	if v := os.Getenv("BOOKLOOP_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

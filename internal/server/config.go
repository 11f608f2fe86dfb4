package server

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

// Config contains the server configuration. Every field can be set from
// the environment.
type Config struct {
	Addr string `envconfig:"MCP_ADDR" default:":8080"`

	// Storage
	DataDir        string `envconfig:"MCP_DATA_DIR" default:"data"`
	FilesDir       string `envconfig:"MCP_FILES_DIR" default:"files"`
	DocsDir        string `envconfig:"MCP_DOCS_DIR" default:"data/docs"`
	SeedDemo       bool   `envconfig:"MCP_SEED_DEMO" default:"true"`
	MaxIngestBytes int    `envconfig:"MCP_MAX_INGEST_BYTES" default:"5242880"`

	// Timeouts
	ReadTimeout     time.Duration `envconfig:"MCP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"MCP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"MCP_SHUTDOWN_TIMEOUT" default:"10s"`
	MetricsInterval time.Duration `envconfig:"MCP_METRICS_INTERVAL" default:"15s"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`

	CORSOrigins []string `envconfig:"MCP_CORS_ORIGINS" default:"*"`
}

// DefaultConfig returns the configuration used when no variable is set.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		DataDir:         "data",
		FilesDir:        "files",
		DocsDir:         "data/docs",
		SeedDemo:        true,
		MaxIngestBytes:  5 << 20,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MetricsInterval: 15 * time.Second,
		LogLevel:        "info",
		LogFormat:       "console",
		CORSOrigins:     []string{"*"},
	}
}

// LoadConfig loads configuration from environment variables and validates it.
func LoadConfig() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("server: load config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("server: MCP_ADDR is required")
	}
	if c.DataDir == "" || c.FilesDir == "" {
		return fmt.Errorf("server: MCP_DATA_DIR and MCP_FILES_DIR are required")
	}
	if c.MaxIngestBytes <= 0 {
		return fmt.Errorf("server: MCP_MAX_INGEST_BYTES must be positive")
	}
	for name, d := range map[string]time.Duration{
		"MCP_READ_TIMEOUT":     c.ReadTimeout,
		"MCP_WRITE_TIMEOUT":    c.WriteTimeout,
		"MCP_SHUTDOWN_TIMEOUT": c.ShutdownTimeout,
		"MCP_METRICS_INTERVAL": c.MetricsInterval,
	} {
		if d <= 0 {
			return fmt.Errorf("server: %s must be positive", name)
		}
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("server: invalid LOG_LEVEL %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("server: LOG_FORMAT must be console or json, got %q", c.LogFormat)
	}
	return nil
}

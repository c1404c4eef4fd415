// Package config provides configuration types and defaults for hms.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Baselsaber10/Hospital-Management-System/internal/flags"
	"github.com/Baselsaber10/Hospital-Management-System/internal/log"
)

// Storage backends.
const (
	BackendText   = "text"
	BackendSQLite = "sqlite"
)

// Output formats for list and show commands.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// Config holds all configuration options for hms.
type Config struct {
	DataDir    string          `mapstructure:"data_dir"`
	Backend    string          `mapstructure:"backend"`     // "text" (default) or "sqlite"
	SQLitePath string          `mapstructure:"sqlite_path"` // default <data_dir>/hms.db
	Output     string          `mapstructure:"output"`      // "table" (default), "json" or "yaml"
	Debug      bool            `mapstructure:"debug"`
	LogPath    string          `mapstructure:"log_path"`
	LogLevel   string          `mapstructure:"log_level"`
	Flags      map[string]bool `mapstructure:"flags"`
	Tracing    TracingConfig   `mapstructure:"tracing"`
	Metrics    MetricsConfig   `mapstructure:"metrics"`
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/hms/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// MetricsConfig holds operation metrics configuration.
type MetricsConfig struct {
	// TextfilePath, when set, receives a Prometheus text-format dump of the
	// operation counters on exit. Empty disables the dump.
	TextfilePath string `mapstructure:"textfile_path"`
}

// ResolvedSQLitePath returns SQLitePath, or hms.db inside DataDir when unset.
func (c Config) ResolvedSQLitePath() string {
	if c.SQLitePath != "" {
		return c.SQLitePath
	}
	return filepath.Join(c.DataDir, "hms.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/hms/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hms", "traces", "traces.jsonl")
}

// ValidateBackend checks the storage backend name.
func ValidateBackend(backend string) error {
	switch backend {
	case "", BackendText, BackendSQLite:
		return nil
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", BackendText, BackendSQLite, backend)
	}
}

// ValidateOutput checks the output format name.
func ValidateOutput(output string) error {
	switch output {
	case "", OutputTable, OutputJSON, OutputYAML:
		return nil
	default:
		return fmt.Errorf("output must be %q, %q, or %q, got %q", OutputTable, OutputJSON, OutputYAML, output)
	}
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := ValidateBackend(c.Backend); err != nil {
		return err
	}
	if err := ValidateOutput(c.Output); err != nil {
		return err
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}
	return ValidateTracing(c.Tracing)
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		DataDir:  ".",
		Backend:  BackendText,
		Output:   OutputTable,
		LogPath:  "hms.log",
		LogLevel: "debug",
		Flags:    flags.Defaults(),
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Hospital Management System configuration

# Directory holding patients.txt, doctors.txt and appointments.txt
data_dir: .

# Storage backend: "text" (default, pipe-delimited files) or "sqlite"
backend: text

# SQLite database file (only used when backend is sqlite)
# sqlite_path: ./hms.db

# Output format for list and show commands: table (default), json, yaml
output: table

# Debug logging (also enabled with --debug or HMS_DEBUG=1)
debug: false
log_path: hms.log
# log_level: debug   # debug, info, warn, error

# Feature flags
flags:
  strict-load: false    # Refuse to start when any stored record is malformed
  write-through: true   # Save after every successful change

# Distributed tracing of clinic operations
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/hms/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)

# Operation metrics
# metrics:
#   textfile_path: ./hms.prom      # Prometheus text dump written on exit
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}

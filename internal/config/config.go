// Package config provides configuration loading and validation for hydradig.
//
// Configuration lives in a JSON file (default: config.json next to the
// binary, overridable via --config or HYDRADIG_CONFIG). A missing file is
// not an error: the built-in defaults are used, and any file present is
// merged field-by-field over them.
//
// Validation happens once at load time, before any lookup begins; the rest
// of the program treats a loaded Config as well-formed.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jroosing/hydradig/internal/lookup"
)

// EnvConfigPath is the environment variable naming the config file.
const EnvConfigPath = "HYDRADIG_CONFIG"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DNS: DNSConfig{
			TimeoutSeconds: 5,
			Retries:        2,
			RecordTypes:    []string{"A", "AAAA", "CNAME", "MX", "NS", "TXT", "SOA"},
		},
		Display: DisplayConfig{
			UseColors:    true,
			MaxTXTLength: 70,
			ShowProgress: true,
		},
		Export: ExportConfig{
			JSONIndent:       2,
			CSVDelimiter:     ",",
			IncludeTimestamp: true,
		},
		Logging: LoggingConfig{
			Level:            "INFO",
			StructuredFormat: "text",
			MaxSizeMB:        10,
			BackupCount:      3,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "hydradig.db",
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8053,
		},
	}
}

// ResolveConfigPath picks the config file path: the flag value wins, then
// the HYDRADIG_CONFIG environment variable, then empty (defaults only).
func ResolveConfigPath(flag string) string {
	if p := strings.TrimSpace(flag); p != "" {
		return p
	}
	return strings.TrimSpace(os.Getenv(EnvConfigPath))
}

// Load reads the config file at path, merges it over the defaults, and
// validates the result. An empty path or a missing file yields the
// validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Fall through to defaults.
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			// Unmarshal over the defaults so absent keys keep their values.
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates and normalizes the configuration.
func (cfg *Config) Validate() error {
	if cfg.DNS.TimeoutSeconds <= 0 {
		return errors.New("dns_settings.timeout must be positive")
	}
	if cfg.DNS.Retries < 0 {
		return errors.New("dns_settings.retries must not be negative")
	}
	if len(cfg.DNS.RecordTypes) == 0 {
		cfg.DNS.RecordTypes = []string{"A", "AAAA", "CNAME", "MX", "NS", "TXT", "SOA"}
	}
	if _, err := lookup.ParseRecordTypes(cfg.DNS.RecordTypes); err != nil {
		return fmt.Errorf("dns_settings.record_types: %w", err)
	}

	if cfg.Display.MaxTXTLength <= 0 {
		cfg.Display.MaxTXTLength = 70
	}

	if cfg.Export.JSONIndent < 0 {
		cfg.Export.JSONIndent = 0
	}
	if cfg.Export.CSVDelimiter == "" {
		cfg.Export.CSVDelimiter = ","
	}
	if len(cfg.Export.CSVDelimiter) != 1 {
		return errors.New("export_settings.csv_delimiter must be a single character")
	}

	// Normalize logging
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Logging.StructuredFormat == "" {
		cfg.Logging.StructuredFormat = "text"
	}
	if cfg.Logging.MaxSizeMB <= 0 {
		cfg.Logging.MaxSizeMB = 10
	}
	if cfg.Logging.BackupCount < 0 {
		cfg.Logging.BackupCount = 0
	}

	if cfg.History.Enabled && strings.TrimSpace(cfg.History.Path) == "" {
		return errors.New("history.path must be set when history is enabled")
	}

	if cfg.API.Host == "" {
		cfg.API.Host = "127.0.0.1"
	}
	if cfg.API.Port <= 0 || cfg.API.Port > 65535 {
		return errors.New("api.port must be 1..65535")
	}

	return nil
}

// DefaultTypes returns the configured default record type set, parsed.
// Validate has already checked the names, so this cannot fail after Load.
func (cfg *Config) DefaultTypes() []lookup.RecordType {
	types, err := lookup.ParseRecordTypes(cfg.DNS.RecordTypes)
	if err != nil {
		return lookup.AllRecordTypes()
	}
	return types
}

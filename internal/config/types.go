package config

// DNSConfig contains resolver settings for the lookup engine.
type DNSConfig struct {
	// TimeoutSeconds bounds each query attempt (e.g., 5).
	TimeoutSeconds int `json:"timeout"`
	// Retries is the number of additional attempts after a timeout.
	Retries int `json:"retries"`
	// Nameserver overrides the system resolver ("host" or "host:port").
	Nameserver string `json:"default_nameserver,omitempty"`
	// RecordTypes is the default ordered set queried when none are requested.
	RecordTypes []string `json:"record_types"`
}

// DisplayConfig contains terminal rendering settings.
type DisplayConfig struct {
	UseColors    bool `json:"use_colors"`
	MaxTXTLength int  `json:"max_txt_length"`
	ShowProgress bool `json:"show_progress"`
}

// ExportConfig contains JSON/CSV export settings.
type ExportConfig struct {
	JSONIndent       int    `json:"json_indent"`
	CSVDelimiter     string `json:"csv_delimiter"`
	IncludeTimestamp bool   `json:"include_timestamp"`
}

// LoggingConfig contains logging settings. When File is set, log output
// goes to a size-rotated file instead of stderr.
type LoggingConfig struct {
	Level            string            `json:"level"`
	Structured       bool              `json:"structured"`
	StructuredFormat string            `json:"structured_format"`
	File             string            `json:"file,omitempty"`
	MaxSizeMB        int               `json:"max_size_mb"`
	BackupCount      int               `json:"backup_count"`
	ExtraFields      map[string]string `json:"extra_fields,omitempty"`
}

// HistoryConfig controls the SQLite lookup history store.
type HistoryConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// APIConfig contains REST API settings for `hydradig serve`.
//
// Note: APIKey is a secret and must never appear in responses or logs.
type APIConfig struct {
	Host   string `json:"host"`
	Port   int    `json:"port"`
	APIKey string `json:"api_key,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	DNS     DNSConfig     `json:"dns_settings"`
	Display DisplayConfig `json:"display_settings"`
	Export  ExportConfig  `json:"export_settings"`
	Logging LoggingConfig `json:"logging"`
	History HistoryConfig `json:"history"`
	API     APIConfig     `json:"api"`
}

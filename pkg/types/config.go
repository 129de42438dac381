package types

import "time"

// HTTPConfig holds shared HTTP settings used when acquiring remote documents.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "findoc/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on 429 and 503 responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Pretty selects the human console writer instead of JSON lines.
	Pretty bool `json:"pretty" yaml:"pretty" mapstructure:"pretty"`
}

// SourceConfig holds settings for turning raw documents into text.
type SourceConfig struct {
	// OCRImage is the container image that runs tesseract
	// (default "tesseractshadow/tesseract4re").
	OCRImage string `json:"ocr_image" yaml:"ocr_image" mapstructure:"ocr_image"`

	// OCRLanguage is passed to tesseract -l (default "eng").
	OCRLanguage string `json:"ocr_language" yaml:"ocr_language" mapstructure:"ocr_language"`

	// Runtime selects the container runtime: docker, podman, or auto.
	Runtime string `json:"runtime" yaml:"runtime" mapstructure:"runtime"`

	// MaxPages limits how many PDF pages are read (0 = all).
	MaxPages int `json:"max_pages" yaml:"max_pages" mapstructure:"max_pages"`

	HTTP HTTPConfig `json:"http" yaml:"http" mapstructure:"http"`
}

// ExtractionConfig holds settings for the extraction stage.
type ExtractionConfig struct {
	// DataDir is the base directory (contains raw/, text/, extracted/, index/).
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// MetricsFile, when set, receives Prometheus textfile metrics after a
	// batch run.
	MetricsFile string `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty" mapstructure:"metrics_file"`

	// Force re-extracts documents whose output is newer than their text.
	Force bool `json:"force" yaml:"force" mapstructure:"force"`
}

// StoreDialect selects the SQL backend.
type StoreDialect string

const (
	DialectSQLite   StoreDialect = "sqlite"
	DialectPostgres StoreDialect = "postgres"
)

// StoreConfig holds settings for the persistence layer.
type StoreConfig struct {
	// Dialect is sqlite (default) or postgres.
	Dialect StoreDialect `json:"dialect" yaml:"dialect" mapstructure:"dialect"`

	// DataDir is the base directory; the SQLite file lives under index/.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// DSN is the Postgres connection string. Falls back to the
	// postgres-dsn secret.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty" mapstructure:"dsn"`

	// MaxResults is the default limit for summary queries (default 10).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// ReportConfig controls the human-readable report.
type ReportConfig struct {
	// CurrencySymbol prefixes monetary amounts (default "£").
	CurrencySymbol string `json:"currency_symbol" yaml:"currency_symbol" mapstructure:"currency_symbol"`
}

// Config groups all stage configurations.
type Config struct {
	DataDir    string           `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
	Source     SourceConfig     `json:"source" yaml:"source" mapstructure:"source"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
	Store      StoreConfig      `json:"store" yaml:"store" mapstructure:"store"`
	Report     ReportConfig     `json:"report" yaml:"report" mapstructure:"report"`
}

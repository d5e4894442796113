// Package config defines the process configuration and its loader.
//
// Conventions:
// - Defaults come from New(); Load layers a YAML file and env vars on top.
// - Validation uses struct tags and go-playground/validator.
// - External errors are wrapped with this package's sentinels.
package config

import "time"

// Score source kinds.
const (
	SourceCommand = "command"
	SourceFile    = "file"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// HistoryPath is the JSON file holding the score history.
	HistoryPath string `koanf:"history_path" validate:"required"`

	// Lock takes an advisory lock on HistoryPath+".lock" around an ingestion.
	Lock bool `koanf:"lock"`

	// Pretty indents the persisted history.
	Pretty bool `koanf:"pretty"`

	// AllowComments accepts comments and trailing commas in the history file.
	AllowComments bool `koanf:"allow_comments"`

	// UTC stamps new records in UTC instead of local time.
	UTC bool `koanf:"utc"`

	// Source selects where new scores come from: command or file.
	Source string `koanf:"source" validate:"oneof=command file"`

	// AzPath is the CLI executable used by the command source.
	AzPath string `koanf:"az_path" validate:"required_if=Source command"`

	// SubscriptionID is the subscription queried by the command source. It is
	// only required once an ingestion actually uses that source.
	SubscriptionID string `koanf:"subscription_id" validate:"omitempty,uuid"`

	// ScoreName is the secure score resource name.
	ScoreName string `koanf:"score_name" validate:"required"`

	// ReadingPath is the JSON reading consumed by the file source.
	ReadingPath string `koanf:"reading_path" validate:"required_if=Source file"`

	// FetchTimeout bounds a single source call.
	FetchTimeout time.Duration `koanf:"fetch_timeout" validate:"gt=0"`

	// MetricsTextfile, when set, receives a Prometheus textfile after each ingest.
	MetricsTextfile string `koanf:"metrics_textfile"`

	// Addr configures the HTTP listen address of serve, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		HistoryPath:  "secure-score-history.json",
		Lock:         true,
		Source:       SourceCommand,
		AzPath:       "az",
		ScoreName:    "ascScore",
		FetchTimeout: 60 * time.Second,
		Addr:         ":9080",
	}
}

// Package config defines the cleaning job configuration and its loader.
//
// Conventions:
// - New() returns a Config holding every default.
// - Load layers an optional YAML file and LAYOFFS_* env vars on top.
// - Validation failures wrap ErrInvalidConfig; source failures wrap ErrLoadConfig.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// InputCSV, when set, is imported into the raw table before the run.
	InputCSV string `koanf:"input_csv"`

	// OutputCSV, when set, receives the cleaned rows after the run.
	OutputCSV string `koanf:"output_csv"`

	// DBDriver is sqlite or postgres.
	DBDriver string `koanf:"db_driver"`

	// DBDSN is the driver-specific data source name.
	DBDSN string `koanf:"db_dsn"`

	// RawTable holds the dataset as imported; it is never modified by cleaning.
	RawTable string `koanf:"raw_table"`

	// StagingTable is the working copy the cleaned rows are written to.
	StagingTable string `koanf:"staging_table"`

	// DateLayout is the Go time layout of incoming dates (month/day/year by default).
	DateLayout string `koanf:"date_layout"`

	// IndustryCanonical and CountryCanonical map value prefixes to canonical values.
	IndustryCanonical map[string]string `koanf:"industry_canonical"`
	CountryCanonical  map[string]string `koanf:"country_canonical"`

	// TrimCountryPunctuation strips trailing periods from countries.
	TrimCountryPunctuation bool `koanf:"trim_country_punctuation"`

	// DedupeIncludeStage adds the funding stage to the duplicate key.
	DedupeIncludeStage bool `koanf:"dedupe_include_stage"`

	// PruneUnrecoverable drops rows missing both layoff measures.
	PruneUnrecoverable bool `koanf:"prune_unrecoverable"`

	// MetricsFile, when set, receives a Prometheus textfile at the end of the run.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		DBDriver:     "sqlite",
		DBDSN:        "layoffs.db",
		RawTable:     "layoffs",
		StagingTable: "layoffs_staging",
		DateLayout:   "1/2/2006",
		IndustryCanonical: map[string]string{
			"Crypto": "Crypto",
		},
		CountryCanonical: map[string]string{
			"United States": "United States",
		},
		TrimCountryPunctuation: true,
		PruneUnrecoverable:     true,
	}
}

package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	EnvPrefix = "LAYOFFS_"
	EnvFile   = EnvPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if LAYOFFS_CONFIG is set
//  3. env (prefix LAYOFFS_)
//
// Map-valued keys (the canonical tables) are only settable from the file,
// and a table given there replaces its default wholesale.
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// LAYOFFS_DB_DSN -> db_dsn; underscores are kept to match koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	// A canonical table in the file replaces the default one instead of
	// being merged into it.
	for key, table := range map[string]*map[string]string{
		"industry_canonical": &cfg.IndustryCanonical,
		"country_canonical":  &cfg.CountryCanonical,
	} {
		if k.Exists(key) {
			*table = nil
		}
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields a run cannot do without.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: db_driver must be sqlite or postgres, got %q", ErrInvalidConfig, c.DBDriver)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("%w: db_dsn must not be empty", ErrInvalidConfig)
	}
	if c.RawTable == "" || c.StagingTable == "" {
		return fmt.Errorf("%w: raw_table and staging_table must not be empty", ErrInvalidConfig)
	}
	if c.RawTable == c.StagingTable {
		return fmt.Errorf("%w: staging_table must differ from raw_table", ErrInvalidConfig)
	}
	if c.DateLayout == "" {
		return fmt.Errorf("%w: date_layout must not be empty", ErrInvalidConfig)
	}
	return nil
}

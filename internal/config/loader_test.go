package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/layoffs/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.DBDriver, convey.ShouldEqual, "sqlite")
				convey.So(cfg.DBDSN, convey.ShouldEqual, "layoffs.db")
				convey.So(cfg.StagingTable, convey.ShouldEqual, "layoffs_staging")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("LAYOFFS_DB_DSN", "file:test.db")
			_ = os.Setenv("LAYOFFS_INPUT_CSV", "/data/layoffs.csv")
			_ = os.Setenv("LAYOFFS_LOG_LEVEL", "debug")
			_ = os.Setenv("LAYOFFS_DEDUPE_INCLUDE_STAGE", "true")
			_ = os.Setenv("LAYOFFS_TRIM_COUNTRY_PUNCTUATION", "false")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DBDSN, convey.ShouldEqual, "file:test.db")
				convey.So(cfg.InputCSV, convey.ShouldEqual, "/data/layoffs.csv")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.DedupeIncludeStage, convey.ShouldBeTrue)
				convey.So(cfg.TrimCountryPunctuation, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
db_driver: postgres
db_dsn: "host=localhost user=etl dbname=world_layoffs"
raw_table: layoffs_raw
date_layout: "01/02/2006"
industry_canonical:
  Crypto: Crypto
  Fin: Finance
country_canonical:
  United States: United States
  UK: United Kingdom
metrics_file: /var/lib/node_exporter/layoffs.prom
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("LAYOFFS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DBDriver, convey.ShouldEqual, "postgres")
				convey.So(cfg.DBDSN, convey.ShouldEqual, "host=localhost user=etl dbname=world_layoffs")
				convey.So(cfg.RawTable, convey.ShouldEqual, "layoffs_raw")
				convey.So(cfg.StagingTable, convey.ShouldEqual, "layoffs_staging")
				convey.So(cfg.DateLayout, convey.ShouldEqual, "01/02/2006")
				convey.So(cfg.IndustryCanonical["Fin"], convey.ShouldEqual, "Finance")
				convey.So(cfg.CountryCanonical["UK"], convey.ShouldEqual, "United Kingdom")
				convey.So(cfg.MetricsFile, convey.ShouldEqual, "/var/lib/node_exporter/layoffs.prom")
			})
		})

		convey.Convey("When the YAML file sets only part of a canonical table", func() {
			yamlContent := `
industry_canonical:
  Fin: Finance
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("LAYOFFS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then that table replaces the default and the other keeps its default", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.IndustryCanonical, convey.ShouldResemble, map[string]string{"Fin": "Finance"})
				convey.So(cfg.CountryCanonical, convey.ShouldResemble, map[string]string{"United States": "United States"})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
db_dsn: from-file.db
output_csv: /tmp/from-file.csv
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("LAYOFFS_CONFIG", tmpFile)
			_ = os.Setenv("LAYOFFS_DB_DSN", "from-env.db")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DBDSN, convey.ShouldEqual, "from-env.db")
				convey.So(cfg.OutputCSV, convey.ShouldEqual, "/tmp/from-file.csv")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("LAYOFFS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("LAYOFFS_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unsupported driver", func() {
			_ = os.Setenv("LAYOFFS_DB_DRIVER", "oracle")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an invalid boolean", func() {
			_ = os.Setenv("LAYOFFS_PRUNE_UNRECOVERABLE", "sometimes")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"LAYOFFS_CONFIG",
		"LAYOFFS_DB_DSN",
		"LAYOFFS_DB_DRIVER",
		"LAYOFFS_INPUT_CSV",
		"LAYOFFS_LOG_LEVEL",
		"LAYOFFS_DEDUPE_INCLUDE_STAGE",
		"LAYOFFS_TRIM_COUNTRY_PUNCTUATION",
		"LAYOFFS_PRUNE_UNRECOVERABLE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "layoffs-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}

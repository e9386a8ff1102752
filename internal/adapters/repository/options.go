package repository

import "github.com/okian/layoffs/pkg/logger"

const defaultBatchSize = 500

// Option applies a configuration option to the GormStore.
type Option func(*GormStore)

// WithTables sets the raw and staging table names.
func WithTables(raw, staging string) Option {
	return func(s *GormStore) {
		if raw != "" {
			s.rawTable = raw
		}
		if staging != "" {
			s.stagingTable = staging
		}
	}
}

// WithBatchSize sets how many rows go into one INSERT.
func WithBatchSize(n int) Option {
	return func(s *GormStore) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithLogger sets the logger for table operations.
func WithLogger(l logger.Logger) Option {
	return func(s *GormStore) {
		if l != nil {
			s.logger = l
		}
	}
}

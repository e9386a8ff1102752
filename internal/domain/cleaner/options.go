package cleaner

import (
	"github.com/okian/layoffs/internal/domain/dedupe"
	"github.com/okian/layoffs/internal/domain/reconcile"
	"github.com/okian/layoffs/internal/domain/standardize"
	"github.com/okian/layoffs/pkg/logger"
)

// Option applies a configuration option to the Cleaner.
type Option func(*Cleaner)

// WithDeduplicator replaces the dedupe stage.
func WithDeduplicator(d *dedupe.Deduplicator) Option {
	return func(c *Cleaner) {
		if d != nil {
			c.deduplicator = d
		}
	}
}

// WithStandardizer replaces the standardize stage.
func WithStandardizer(s *standardize.Standardizer) Option {
	return func(c *Cleaner) {
		if s != nil {
			c.standardizer = s
		}
	}
}

// WithReconciler replaces the reconcile stage.
func WithReconciler(r *reconcile.Reconciler) Option {
	return func(c *Cleaner) {
		if r != nil {
			c.reconciler = r
		}
	}
}

// WithLogger sets the logger used for per-stage summaries.
func WithLogger(l logger.Logger) Option {
	return func(c *Cleaner) {
		if l != nil {
			c.logger = l
		}
	}
}

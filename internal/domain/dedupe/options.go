package dedupe

// Option applies a configuration option to the Deduplicator.
type Option func(*Deduplicator)

// WithStageInKey makes the funding stage part of the duplicate key.
func WithStageInKey(on bool) Option {
	return func(d *Deduplicator) {
		d.stageInKey = on
	}
}

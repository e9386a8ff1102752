package standardize

// Option applies a configuration option to the Standardizer.
type Option func(*Standardizer)

// WithIndustryCanonical replaces the industry prefix table.
func WithIndustryCanonical(table map[string]string) Option {
	return func(s *Standardizer) {
		if table != nil {
			s.industry = NewPrefixPolicy(table)
		}
	}
}

// WithCountryCanonical replaces the country prefix table.
func WithCountryCanonical(table map[string]string) Option {
	return func(s *Standardizer) {
		if table != nil {
			s.country = NewPrefixPolicy(table)
		}
	}
}

// WithDateLayout sets the time.Parse layout of incoming dates.
func WithDateLayout(layout string) Option {
	return func(s *Standardizer) {
		if layout != "" {
			s.dateLayout = layout
		}
	}
}

// WithTrimCountryPunctuation strips trailing periods from every country name,
// whether or not a prefix rule matches it. The strip happens before the
// prefix table is consulted.
func WithTrimCountryPunctuation(on bool) Option {
	return func(s *Standardizer) {
		s.trimCountryDots = on
	}
}

package standardize

import (
	"sort"
	"strings"
)

// rule maps every value beginning with Prefix to Canonical.
type rule struct {
	Prefix    string
	Canonical string
}

// PrefixPolicy collapses families of textual variants to a canonical value.
type PrefixPolicy struct {
	rules []rule
}

// NewPrefixPolicy builds a policy from a prefix -> canonical table. Empty
// prefixes are ignored. Longer prefixes are tried first so the most specific
// family wins; equal lengths fall back to lexical order.
func NewPrefixPolicy(table map[string]string) PrefixPolicy {
	rules := make([]rule, 0, len(table))
	for prefix, canonical := range table {
		if prefix == "" {
			continue
		}
		rules = append(rules, rule{Prefix: prefix, Canonical: canonical})
	}
	sort.Slice(rules, func(i, j int) bool {
		if len(rules[i].Prefix) != len(rules[j].Prefix) {
			return len(rules[i].Prefix) > len(rules[j].Prefix)
		}
		return rules[i].Prefix < rules[j].Prefix
	})
	return PrefixPolicy{rules: rules}
}

// Apply returns the canonical form of s and whether a rule matched.
func (p PrefixPolicy) Apply(s string) (string, bool) {
	for _, r := range p.rules {
		if strings.HasPrefix(s, r.Prefix) {
			return r.Canonical, true
		}
	}
	return s, false
}

// Len returns the number of rules.
func (p PrefixPolicy) Len() int {
	return len(p.rules)
}

package live

import (
	"slices"

	"github.com/tidwall/gjson"
)

// Matcher tests an attribute or path value.
type Matcher func(string) bool

// Equals matches exactly v.
func Equals(v string) Matcher {
	return func(s string) bool { return s == v }
}

// Filter selects context messages.
//
// A message matches when it carries every label in Labels and, for each key
// of Attributes, a non-empty attribute accepted by the matcher. Paths are
// gjson paths evaluated on the raw frame; each must exist and be accepted.
// As soon as Labels or Attributes constrain anything, messages without a
// labels array or an attributes object never match. The zero Filter
// matches every message.
type Filter struct {
	Labels     []string
	Attributes map[string]Matcher
	Paths      map[string]Matcher
}

// WithLabels is a Filter on labels only.
func WithLabels(labels ...string) Filter {
	return Filter{Labels: labels}
}

// IsZero reports whether f places no constraint.
func (f Filter) IsZero() bool {
	return len(f.Labels) == 0 && len(f.Attributes) == 0 && len(f.Paths) == 0
}

// Match reports whether m satisfies f.
func (f Filter) Match(m ContextMessage) bool {
	if len(f.Labels) > 0 || len(f.Attributes) > 0 {
		if m.Attributes == nil || m.Labels == nil {
			return false
		}
	}
	for k, match := range f.Attributes {
		v := m.Attributes[k]
		if v == "" {
			return false
		}
		if match != nil && !match(v) {
			return false
		}
	}
	for _, l := range f.Labels {
		if !slices.Contains(m.Labels, l) {
			return false
		}
	}
	for path, match := range f.Paths {
		r := gjson.GetBytes(m.Raw, path)
		if !r.Exists() {
			return false
		}
		if match != nil && !match(r.String()) {
			return false
		}
	}
	return true
}

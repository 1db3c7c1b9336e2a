package crud

import (
	"sort"
	"strings"
)

// StatusSet lists the accepted values of a status column. Membership is
// checked on write; transitions between values are not.
type StatusSet map[string]bool

func NewStatusSet(values ...string) StatusSet {
	s := make(StatusSet, len(values))
	for _, v := range values {
		s[v] = true
	}
	return s
}

// Normalize defaults an empty *v to def and rejects values outside the set.
func (s StatusSet) Normalize(field string, v *string, def string) error {
	if *v == "" {
		*v = def
		return nil
	}
	if !s[*v] {
		return Invalidf("invalid %s %q (allowed: %s)", field, *v, strings.Join(s.Values(), ", "))
	}
	return nil
}

// Values returns the members in sorted order.
func (s StatusSet) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

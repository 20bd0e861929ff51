package deck

import (
	"strings"

	"github.com/infblueocean/feello/internal/question"
)

// ThemeSet is the set of selected themes. The engine keeps it non-empty.
type ThemeSet map[question.Theme]struct{}

// AllThemesSet returns a set containing every theme.
func AllThemesSet() ThemeSet {
	s := make(ThemeSet, len(question.AllThemes()))
	for _, t := range question.AllThemes() {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether t is selected.
func (s ThemeSet) Has(t question.Theme) bool {
	_, ok := s[t]
	return ok
}

// Sorted returns the selected themes in display order.
func (s ThemeSet) Sorted() []question.Theme {
	out := make([]question.Theme, 0, len(s))
	for _, t := range question.AllThemes() {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// key identifies the selection for rebuild-trigger comparison.
func (s ThemeSet) key() string {
	sorted := s.Sorted()
	parts := make([]string, len(sorted))
	for i, t := range sorted {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

func (s ThemeSet) clone() ThemeSet {
	out := make(ThemeSet, len(s))
	for t := range s {
		out[t] = struct{}{}
	}
	return out
}

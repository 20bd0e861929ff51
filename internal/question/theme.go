package question

import (
	"fmt"
	"strings"
)

// Theme is one of the five fixed card families.
type Theme string

const (
	ThemeOrange    Theme = "orange"
	ThemeDarkGreen Theme = "dark-green"
	ThemeOlive     Theme = "olive"
	ThemePink      Theme = "pink"
	ThemePurple    Theme = "purple"
)

// ThemeInfo is the presentation data attached to a theme.
type ThemeInfo struct {
	Theme    Theme
	Color    string // hex
	Category string // default category letter
	Tagline  string // default tagline
}

// themes is in display order.
var themes = []ThemeInfo{
	{ThemeOrange, "#E68C3C", "A", "aspiration & préférence"},
	{ThemeDarkGreen, "#20473C", "E", "existence & philosophie"},
	{ThemeOlive, "#7F802F", "I", "identité & introspection"},
	{ThemePink, "#E7237F", "R", "relation & interaction"},
	{ThemePurple, "#736FAD", "R", "réflexion & expérience"},
}

// legacy theme keys used by the first version of the data set.
var themeAliases = map[string]Theme{
	"black": ThemeDarkGreen,
	"blue":  ThemePurple,
}

// AllThemes returns every theme in display order.
func AllThemes() []Theme {
	out := make([]Theme, len(themes))
	for i, t := range themes {
		out[i] = t.Theme
	}
	return out
}

// Themes returns the presentation info of every theme in display order.
func Themes() []ThemeInfo {
	out := make([]ThemeInfo, len(themes))
	copy(out, themes)
	return out
}

// Info looks up the presentation data for t.
func Info(t Theme) (ThemeInfo, bool) {
	for _, info := range themes {
		if info.Theme == t {
			return info, true
		}
	}
	return ThemeInfo{}, false
}

// Valid reports whether t is a known theme key.
func (t Theme) Valid() bool {
	_, ok := Info(t)
	return ok
}

// Color returns the hex colour of t, or a neutral grey for unknown keys.
func (t Theme) Color() string {
	if info, ok := Info(t); ok {
		return info.Color
	}
	return "#666666"
}

// ParseTheme accepts canonical keys and the legacy aliases.
func ParseTheme(s string) (Theme, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if alias, ok := themeAliases[key]; ok {
		return alias, nil
	}
	t := Theme(key)
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown theme %q", ErrInvalid, s)
	}
	return t, nil
}

// UnmarshalText lets YAML/JSON decoding accept legacy keys.
func (t *Theme) UnmarshalText(b []byte) error {
	parsed, err := ParseTheme(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

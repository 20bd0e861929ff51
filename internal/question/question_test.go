package question

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseThemeAcceptsLegacyKeys(t *testing.T) {
	cases := map[string]Theme{
		"orange":     ThemeOrange,
		" Pink ":     ThemePink,
		"dark-green": ThemeDarkGreen,
		"black":      ThemeDarkGreen,
		"blue":       ThemePurple,
	}
	for in, want := range cases {
		got, err := ParseTheme(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTheme("teal")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestAllThemesHaveDistinctColors(t *testing.T) {
	seen := map[string]Theme{}
	for _, info := range Themes() {
		if prev, ok := seen[info.Color]; ok {
			t.Fatalf("themes %s and %s share color %s", prev, info.Theme, info.Color)
		}
		seen[info.Color] = info.Theme
		assert.NotEmpty(t, info.Category)
		assert.NotEmpty(t, info.Tagline)
	}
	assert.Len(t, AllThemes(), 5)
}

func TestDraftNormalizeFillsThemeDefaults(t *testing.T) {
	d := Draft{Theme: ThemeOlive, Text: "  Quelle est ta plus grande peur ?  "}.Normalize()
	require.NoError(t, d.Validate())
	assert.Equal(t, "I", d.Category)
	assert.Equal(t, "identité & introspection", d.Tagline)
	assert.Equal(t, "Quelle est ta plus grande peur ?", d.Text)
}

func TestDraftValidate(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
	}{
		{"unknown theme", Draft{Theme: "teal", Category: "A", Text: "x"}},
		{"empty text", Draft{Theme: ThemePink, Category: "R"}},
		{"long category", Draft{Theme: ThemePink, Category: "ABCD", Text: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.draft.Validate(), ErrInvalid)
		})
	}
}

func TestPatchApplyAndValidate(t *testing.T) {
	q := Question{ID: "1", Theme: ThemePink, Category: "R", Tagline: "t", Text: "old"}

	assert.ErrorIs(t, Patch{}.Validate(), ErrInvalid)

	blank := " "
	assert.ErrorIs(t, Patch{Text: &blank}.Validate(), ErrInvalid)

	text := " new "
	theme := ThemePurple
	p := Patch{Text: &text, Theme: &theme}
	require.NoError(t, p.Validate())

	got := p.Apply(q)
	assert.Equal(t, "new", got.Text)
	assert.Equal(t, ThemePurple, got.Theme)
	assert.Equal(t, "R", got.Category)
	assert.Equal(t, "old", q.Text, "Apply must not mutate its input")
}

func TestSortNewestFirstPutsLegacyLast(t *testing.T) {
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	qs := []Question{
		{ID: "legacy-b"},
		{ID: "old", CreatedAt: &older},
		{ID: "legacy-a"},
		{ID: "new", CreatedAt: &newer},
	}

	SortNewestFirst(qs)

	ids := make([]string, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	assert.Equal(t, []string{"new", "old", "legacy-a", "legacy-b"}, ids)
}

func TestEqualComparesTimestamps(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := Question{ID: "1", Theme: ThemePink, Text: "x", CreatedAt: &ts}
	b := a
	local := ts.In(time.FixedZone("CET", 3600))
	b.CreatedAt = &local
	assert.True(t, a.Equal(b))

	b.CreatedAt = nil
	assert.False(t, a.Equal(b))
}

func TestSeedIsValid(t *testing.T) {
	qs := Seed()
	require.Len(t, qs, 13)

	byTheme := map[Theme]int{}
	for _, q := range qs {
		assert.True(t, q.Theme.Valid(), q.ID)
		assert.NotEmpty(t, q.Text, q.ID)
		assert.Nil(t, q.CreatedAt, q.ID)
		byTheme[q.Theme]++
	}
	assert.Len(t, byTheme, 5, "seed should cover every theme")

	qs[0].Text = "mutated"
	assert.NotEqual(t, "mutated", Seed()[0].Text, "Seed must return a copy")
}

func TestParseYAMLRejectsDuplicates(t *testing.T) {
	data := []byte(`
- id: "1"
  theme: pink
  text: a
- id: "1"
  theme: blue
  text: b
`)
	_, err := ParseYAML(data)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestJSONAcceptsLegacyTheme(t *testing.T) {
	var q Question
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","theme":"black","category":"E","tagline":"","text":"t"}`), &q))
	assert.Equal(t, ThemeDarkGreen, q.Theme)
}

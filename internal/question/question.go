// Package question defines the question record shared by the deck, the
// remote store and the admin CLI.
package question

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrInvalid is returned (wrapped) by Validate when a record is malformed.
var ErrInvalid = errors.New("invalid question")

// maxCategoryRunes bounds the category label. Historically a single letter.
const maxCategoryRunes = 3

// Question is one conversation prompt.
type Question struct {
	ID        string     `json:"id" yaml:"id"`
	Theme     Theme      `json:"theme" yaml:"theme"`
	Category  string     `json:"category" yaml:"category"`
	Tagline   string     `json:"tagline" yaml:"tagline"`
	Text      string     `json:"text" yaml:"text"`
	CreatedAt *time.Time `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
}

// Created returns the creation time, or the zero time for legacy records.
func (q Question) Created() time.Time {
	if q.CreatedAt == nil {
		return time.Time{}
	}
	return *q.CreatedAt
}

// Equal reports whether two records carry the same content.
func (q Question) Equal(o Question) bool {
	return q.ID == o.ID &&
		q.Theme == o.Theme &&
		q.Category == o.Category &&
		q.Tagline == o.Tagline &&
		q.Text == o.Text &&
		q.Created().Equal(o.Created())
}

// Draft is a question that has not been stored yet. The store assigns
// ID and CreatedAt.
type Draft struct {
	Theme    Theme  `json:"theme" yaml:"theme"`
	Category string `json:"category" yaml:"category"`
	Tagline  string `json:"tagline" yaml:"tagline"`
	Text     string `json:"text" yaml:"text"`
}

// Normalize trims fields and fills empty category/tagline from the theme.
func (d Draft) Normalize() Draft {
	d.Category = strings.ToUpper(strings.TrimSpace(d.Category))
	d.Tagline = strings.TrimSpace(d.Tagline)
	d.Text = strings.TrimSpace(d.Text)
	if info, ok := Info(d.Theme); ok {
		if d.Category == "" {
			d.Category = info.Category
		}
		if d.Tagline == "" {
			d.Tagline = info.Tagline
		}
	}
	return d
}

// Validate checks a normalized draft.
func (d Draft) Validate() error {
	if !d.Theme.Valid() {
		return fmt.Errorf("%w: unknown theme %q", ErrInvalid, d.Theme)
	}
	if d.Text == "" {
		return fmt.Errorf("%w: text is required", ErrInvalid)
	}
	if d.Category == "" {
		return fmt.Errorf("%w: category is required", ErrInvalid)
	}
	if utf8.RuneCountInString(d.Category) > maxCategoryRunes {
		return fmt.Errorf("%w: category %q longer than %d characters", ErrInvalid, d.Category, maxCategoryRunes)
	}
	return nil
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Theme    *Theme
	Category *string
	Tagline  *string
	Text     *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Theme == nil && p.Category == nil && p.Tagline == nil && p.Text == nil
}

// Validate checks the fields that are set.
func (p Patch) Validate() error {
	if p.Empty() {
		return fmt.Errorf("%w: empty update", ErrInvalid)
	}
	if p.Theme != nil && !p.Theme.Valid() {
		return fmt.Errorf("%w: unknown theme %q", ErrInvalid, *p.Theme)
	}
	if p.Text != nil && strings.TrimSpace(*p.Text) == "" {
		return fmt.Errorf("%w: text cannot be empty", ErrInvalid)
	}
	if p.Category != nil {
		c := strings.TrimSpace(*p.Category)
		if c == "" {
			return fmt.Errorf("%w: category cannot be empty", ErrInvalid)
		}
		if utf8.RuneCountInString(c) > maxCategoryRunes {
			return fmt.Errorf("%w: category %q longer than %d characters", ErrInvalid, c, maxCategoryRunes)
		}
	}
	return nil
}

// Apply returns q with the patch applied.
func (p Patch) Apply(q Question) Question {
	p = p.Normalize()
	if p.Theme != nil {
		q.Theme = *p.Theme
	}
	if p.Category != nil {
		q.Category = *p.Category
	}
	if p.Tagline != nil {
		q.Tagline = *p.Tagline
	}
	if p.Text != nil {
		q.Text = *p.Text
	}
	return q
}

// Normalize returns a patch with the same fields set, trimmed and with the
// category upper-cased. The receiver's strings are not modified.
func (p Patch) Normalize() Patch {
	trim := func(s *string, upper bool) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		if upper {
			v = strings.ToUpper(v)
		}
		return &v
	}
	p.Category = trim(p.Category, true)
	p.Tagline = trim(p.Tagline, false)
	p.Text = trim(p.Text, false)
	return p
}

// SortNewestFirst orders questions for the admin list: newest CreatedAt
// first, legacy records (no timestamp) last, ties broken by ID.
func SortNewestFirst(qs []Question) {
	sort.SliceStable(qs, func(i, j int) bool {
		ci, cj := qs[i].Created(), qs[j].Created()
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return qs[i].ID < qs[j].ID
	})
}

// Clone returns a copy of qs that does not share the backing array.
func Clone(qs []Question) []Question {
	if qs == nil {
		return nil
	}
	out := make([]Question, len(qs))
	copy(out, qs)
	return out
}

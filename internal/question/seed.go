package question

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

var (
	seedOnce sync.Once
	seed     []Question
	seedErr  error
)

// Seed returns the bundled question collection. The returned slice is a
// fresh copy on every call.
func Seed() []Question {
	seedOnce.Do(func() {
		seed, seedErr = ParseYAML(seedYAML)
	})
	if seedErr != nil {
		// The file is compiled in; a parse failure is a build defect.
		panic(fmt.Sprintf("question: bundled seed: %v", seedErr))
	}
	return Clone(seed)
}

// ParseYAML decodes a YAML list of questions and checks each record.
func ParseYAML(data []byte) ([]Question, error) {
	var qs []Question
	if err := yaml.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	ids := make(map[string]struct{}, len(qs))
	for i, q := range qs {
		if q.ID == "" {
			return nil, fmt.Errorf("question %d: %w: missing id", i, ErrInvalid)
		}
		if _, dup := ids[q.ID]; dup {
			return nil, fmt.Errorf("question %s: %w: duplicate id", q.ID, ErrInvalid)
		}
		ids[q.ID] = struct{}{}
		d := Draft{Theme: q.Theme, Category: q.Category, Tagline: q.Tagline, Text: q.Text}.Normalize()
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("question %s: %w", q.ID, err)
		}
		qs[i].Category, qs[i].Tagline, qs[i].Text = d.Category, d.Tagline, d.Text
	}
	return qs, nil
}

// MarshalYAML encodes qs in the same format ParseYAML reads.
func MarshalYAML(qs []Question) ([]byte, error) {
	return yaml.Marshal(qs)
}

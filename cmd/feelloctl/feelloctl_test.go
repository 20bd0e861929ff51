package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infblueocean/feello/internal/otel"
	"github.com/infblueocean/feello/internal/question"
	"github.com/infblueocean/feello/internal/remote"
)

func eventLine(t *testing.T, ev otel.Event) string {
	t.Helper()
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	return string(data)
}

func TestReadTailLinesKeepsLastMatches(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var buf strings.Builder
	for i := range 5 {
		buf.WriteString(eventLine(t, otel.Event{Time: now, Kind: otel.KindDeckRebuild, Count: i, Level: otel.LevelInfo}) + "\n")
		buf.WriteString(eventLine(t, otel.Event{Time: now, Kind: otel.KindStoreError, Level: otel.LevelError, Err: "boom"}) + "\n")
	}
	buf.WriteString("not json\n\n")

	f := eventFilter{kind: "deck"}
	lines := readTailLines(strings.NewReader(buf.String()), 2, f.match)
	require.Len(t, lines, 2)
	assert.Equal(t, 3, lines[0].ev.Count)
	assert.Equal(t, 4, lines[1].ev.Count)

	f = eventFilter{minLevel: levelRank(otel.LevelWarn)}
	lines = readTailLines(strings.NewReader(buf.String()), 50, f.match)
	assert.Len(t, lines, 5)
	for _, l := range lines {
		assert.Equal(t, otel.KindStoreError, l.ev.Kind)
	}

	assert.Empty(t, readTailLines(strings.NewReader(buf.String()), 0, f.match))
}

func TestEventFilterQuestionAndComponent(t *testing.T) {
	f := eventFilter{comp: "deck", qid: "42"}
	assert.True(t, f.match(otel.Event{Comp: "deck", QuestionID: "42"}))
	assert.False(t, f.match(otel.Event{Comp: "coord", QuestionID: "42"}))
	assert.False(t, f.match(otel.Event{Comp: "deck", QuestionID: "7"}))
}

func TestFormatEvent(t *testing.T) {
	ev := otel.Event{
		Time:   time.Date(2026, 3, 1, 9, 30, 15, 250_000_000, time.UTC),
		Level:  otel.LevelWarn,
		Kind:   otel.KindStoreTimeout,
		Comp:   "coord",
		DurMs:  4000,
		Source: "seed",
		Err:    "timeout",
	}
	got := formatEvent(ev)
	assert.True(t, strings.HasPrefix(got, "09:30:15.250 WARN  [coord ]"), got)
	assert.Contains(t, got, "(4000ms)")
	assert.Contains(t, got, "src=seed")
	assert.Contains(t, got, "err=timeout")
}

func TestWriteQuestionsJSON(t *testing.T) {
	created := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	qs := []question.Question{
		{ID: "abc", Theme: question.ThemeOlive, Category: "I", Tagline: "identité", Text: "Qui es-tu ?", CreatedAt: &created},
		{ID: "1", Theme: question.ThemePink, Category: "R", Text: "Legacy"},
	}

	var buf bytes.Buffer
	require.NoError(t, writeQuestions(&buf, qs, "json"))

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	require.Len(t, raw, 2)
	assert.Equal(t, "olive", raw[0]["theme"])
	assert.Equal(t, "2024-05-02T10:00:00Z", raw[0]["createdAt"])
	assert.NotContains(t, raw[1], "createdAt")
	assert.Contains(t, buf.String(), "identité", "HTML escaping must not mangle accents")
}

func TestWriteQuestionsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeQuestions(&buf, nil, "json"))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteQuestionsYAMLReadsBack(t *testing.T) {
	seed := question.Seed()
	var buf bytes.Buffer
	require.NoError(t, writeQuestions(&buf, seed, "yaml"))

	back, err := question.ParseYAML(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, seed, back)
}

func TestSeedStore(t *testing.T) {
	st := remote.NewMemory()
	seed := question.Seed()

	n, err := seedStore(context.Background(), st, seed)
	require.NoError(t, err)
	assert.Equal(t, len(seed), n)

	qs, err := st.List(context.Background())
	require.NoError(t, err)
	require.Len(t, qs, len(seed))

	texts := map[string]bool{}
	for _, q := range qs {
		texts[q.Text] = true
		assert.NotNil(t, q.CreatedAt, "the store stamps new records")
	}
	for _, q := range seed {
		assert.True(t, texts[q.Text], "missing %q", q.Text)
	}
}

func TestSeedStoreStopsOnFailure(t *testing.T) {
	st := remote.NewMemory()
	require.NoError(t, st.Close())

	n, err := seedStore(context.Background(), st, question.Seed())
	require.Error(t, err)
	assert.True(t, errors.Is(err, remote.ErrClosed), "got %v", err)
	assert.Zero(t, n)
}

func TestOneArg(t *testing.T) {
	_, err := oneArg(nil, "question id")
	assert.EqualError(t, err, "missing question id")

	id, err := oneArg([]string{"42"}, "question id")
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	_, err = oneArg([]string{"1", "2"}, "question id")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "court", truncate("court", 10))
	assert.Equal(t, "réfl...", truncate("réflexion faite", 7))
}

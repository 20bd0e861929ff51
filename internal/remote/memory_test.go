package remote

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infblueocean/feello/internal/question"
)

type recorder struct {
	mu    sync.Mutex
	snaps [][]question.Question
}

func (r *recorder) onChange(qs []question.Question) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, qs)
}

func (r *recorder) last() []question.Question {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return nil
	}
	return r.snaps[len(r.snaps)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func TestSubscribeDeliversImmediately(t *testing.T) {
	m := NewMemory(question.Seed()...)
	var rec recorder

	unsub, err := m.Subscribe(context.Background(), rec.onChange, nil)
	require.NoError(t, err)
	defer unsub()

	require.Equal(t, 1, rec.count())
	assert.Len(t, rec.last(), 13)
}

func TestAddAssignsIDAndTimestamp(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.Now = func() time.Time { return fixed }
	var rec recorder
	unsub, err := m.Subscribe(context.Background(), rec.onChange, nil)
	require.NoError(t, err)
	defer unsub()

	id, err := m.Add(context.Background(), question.Draft{Theme: question.ThemePink, Text: "Qui t'inspire ?"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	snap := rec.last()
	require.Len(t, snap, 1)
	assert.Equal(t, id, snap[0].ID)
	assert.Equal(t, "R", snap[0].Category)
	require.NotNil(t, snap[0].CreatedAt)
	assert.True(t, fixed.Equal(*snap[0].CreatedAt))
}

func TestAddRejectsInvalidDraft(t *testing.T) {
	m := NewMemory()
	_, err := m.Add(context.Background(), question.Draft{Theme: "teal", Text: "x"})

	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "add", se.Op)
	assert.ErrorIs(t, err, ErrRejected)
	assert.ErrorIs(t, err, question.ErrInvalid)
}

func TestUpdateAndDelete(t *testing.T) {
	m := NewMemory(question.Seed()...)
	text := "Nouvelle formulation"

	require.NoError(t, m.Update(context.Background(), "1", question.Patch{Text: &text}))
	qs, err := m.List(context.Background())
	require.NoError(t, err)
	for _, q := range qs {
		if q.ID == "1" {
			assert.Equal(t, text, q.Text)
		}
	}

	require.NoError(t, m.Delete(context.Background(), "1"))
	qs, _ = m.List(context.Background())
	assert.Len(t, qs, 12)
}

func TestMissingIDIsNotFound(t *testing.T) {
	m := NewMemory()
	text := "x"

	err := m.Update(context.Background(), "ghost", question.Patch{Text: &text})
	assert.ErrorIs(t, err, ErrNotFound)

	err = m.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "ghost", se.ID)
	assert.Equal(t, "delete ghost: remote: question not found", err.Error())
}

func TestSlowWriteTimesOut(t *testing.T) {
	m := NewMemory()
	m.Latency = time.Second
	m.Timeout = 20 * time.Millisecond

	_, err := m.Add(context.Background(), question.Draft{Theme: question.ThemeOlive, Text: "x"})
	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	qs, _ := m.List(context.Background())
	assert.Empty(t, qs, "a timed out write must not be applied")
}

func TestFailedWriteDoesNotNotify(t *testing.T) {
	m := NewMemory()
	var rec recorder
	unsub, err := m.Subscribe(context.Background(), rec.onChange, nil)
	require.NoError(t, err)
	defer unsub()

	_ = m.Delete(context.Background(), "ghost")
	assert.Equal(t, 1, rec.count())
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	m := NewMemory()
	var rec recorder
	unsub, err := m.Subscribe(context.Background(), rec.onChange, nil)
	require.NoError(t, err)

	unsub()
	unsub()
	_, err = m.Add(context.Background(), question.Draft{Theme: question.ThemePink, Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.count())
}

func TestContextCancelUnsubscribes(t *testing.T) {
	m := NewMemory()
	var rec recorder
	ctx, cancel := context.WithCancel(context.Background())
	_, err := m.Subscribe(ctx, rec.onChange, nil)
	require.NoError(t, err)

	cancel()
	require.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		return len(m.subs) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestClosedStore(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Close())

	_, err := m.Subscribe(context.Background(), func([]question.Question) {}, nil)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = m.Add(context.Background(), question.Draft{Theme: question.ThemePink, Text: "x"})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSnapshotsAreNewestFirstAndIsolated(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	m := NewMemory()
	m.Now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Minute) }

	first, err := m.Add(context.Background(), question.Draft{Theme: question.ThemePink, Text: "a"})
	require.NoError(t, err)
	second, err := m.Add(context.Background(), question.Draft{Theme: question.ThemePink, Text: "b"})
	require.NoError(t, err)

	qs, err := m.List(context.Background())
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, second, qs[0].ID)
	assert.Equal(t, first, qs[1].ID)

	qs[0].Text = "mutated"
	again, _ := m.List(context.Background())
	assert.Equal(t, "b", again[0].Text)
}

func TestWrapKeepsExistingStoreError(t *testing.T) {
	inner := &StoreError{Op: "update", ID: "1", Err: ErrNotFound}
	assert.Same(t, inner, Wrap("add", "", inner).(*StoreError))
	assert.NoError(t, Wrap("add", "", nil))

	err := Wrap("list", "", errors.New("boom"))
	assert.EqualError(t, err, "list: boom")
}

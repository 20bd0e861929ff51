package remote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/infblueocean/feello/internal/question"
)

// Memory is an in-process Store. Subscribers are notified synchronously,
// outside the lock, after each successful write.
type Memory struct {
	// Timeout bounds each write; zero means OpTimeout.
	Timeout time.Duration
	// Latency simulates a slow backend: every operation waits this long
	// (or until its context ends) before touching the data.
	Latency time.Duration
	// Now stamps CreatedAt. Defaults to time.Now.
	Now func() time.Time

	mu     sync.Mutex
	byID   map[string]question.Question
	subs   map[int]subscriber
	nextID int
	closed bool
}

type subscriber struct {
	onChange func([]question.Question)
}

var _ Store = (*Memory)(nil)

// NewMemory returns a store pre-filled with qs. Their ids and timestamps
// are kept as given.
func NewMemory(qs ...question.Question) *Memory {
	m := &Memory{
		byID: make(map[string]question.Question, len(qs)),
		subs: make(map[int]subscriber),
	}
	for _, q := range qs {
		m.byID[q.ID] = q
	}
	return m
}

func (m *Memory) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// wait applies Latency and reports ctx expiry.
func (m *Memory) wait(ctx context.Context) error {
	if m.Latency > 0 {
		t := time.NewTimer(m.Latency)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return ctx.Err()
}

func (m *Memory) snapshotLocked() []question.Question {
	out := make([]question.Question, 0, len(m.byID))
	for _, q := range m.byID {
		out = append(out, q)
	}
	question.SortNewestFirst(out)
	return out
}

// Subscribe implements Store.
func (m *Memory) Subscribe(ctx context.Context, onChange func([]question.Question), onError func(error)) (func(), error) {
	if err := m.wait(ctx); err != nil {
		return nil, Wrap("subscribe", "", err)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, Wrap("subscribe", "", ErrClosed)
	}
	id := m.nextID
	m.nextID++
	m.subs[id] = subscriber{onChange: onChange}
	snap := m.snapshotLocked()
	m.mu.Unlock()

	onChange(snap)

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
	go func() {
		<-ctx.Done()
		unsubscribe()
	}()
	return unsubscribe, nil
}

// Add implements Store.
func (m *Memory) Add(ctx context.Context, d question.Draft) (string, error) {
	ctx, cancel := Bounded(ctx, m.Timeout)
	defer cancel()

	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return "", Wrap("add", "", fmt.Errorf("%w: %w", ErrRejected, err))
	}
	if err := m.wait(ctx); err != nil {
		return "", Wrap("add", "", err)
	}

	created := m.now().UTC()
	q := question.Question{
		ID:        uuid.NewString(),
		Theme:     d.Theme,
		Category:  d.Category,
		Tagline:   d.Tagline,
		Text:      d.Text,
		CreatedAt: &created,
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return "", Wrap("add", "", ErrClosed)
	}
	m.byID[q.ID] = q
	m.mu.Unlock()

	m.publish()
	return q.ID, nil
}

// Update implements Store.
func (m *Memory) Update(ctx context.Context, id string, p question.Patch) error {
	ctx, cancel := Bounded(ctx, m.Timeout)
	defer cancel()

	if err := p.Validate(); err != nil {
		return Wrap("update", id, fmt.Errorf("%w: %w", ErrRejected, err))
	}
	if err := m.wait(ctx); err != nil {
		return Wrap("update", id, err)
	}

	m.mu.Lock()
	q, ok := m.byID[id]
	if !ok {
		m.mu.Unlock()
		return Wrap("update", id, ErrNotFound)
	}
	m.byID[id] = p.Apply(q)
	m.mu.Unlock()

	m.publish()
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(ctx context.Context, id string) error {
	ctx, cancel := Bounded(ctx, m.Timeout)
	defer cancel()

	if err := m.wait(ctx); err != nil {
		return Wrap("delete", id, err)
	}

	m.mu.Lock()
	if _, ok := m.byID[id]; !ok {
		m.mu.Unlock()
		return Wrap("delete", id, ErrNotFound)
	}
	delete(m.byID, id)
	m.mu.Unlock()

	m.publish()
	return nil
}

// List implements Store.
func (m *Memory) List(ctx context.Context) ([]question.Question, error) {
	if err := m.wait(ctx); err != nil {
		return nil, Wrap("list", "", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked(), nil
}

// Close drops every subscriber; later calls fail with ErrClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	clear(m.subs)
	return nil
}

func (m *Memory) publish() {
	m.mu.Lock()
	snap := m.snapshotLocked()
	subs := make([]subscriber, 0, len(m.subs))
	for _, s := range m.subs {
		subs = append(subs, s)
	}
	m.mu.Unlock()

	for _, s := range subs {
		s.onChange(question.Clone(snap))
	}
}

// Package deck implements the deck session state machine: it turns the
// question collection, the theme filter and the seen set into a shuffled
// working deck and tracks the player's position in it.
//
// An Engine is not safe for concurrent use. It is driven from a single
// event loop (the Bubble Tea Update goroutine); every operation is
// synchronous and runs to completion.
package deck

import (
	"math/rand/v2"

	"github.com/infblueocean/feello/internal/otel"
	"github.com/infblueocean/feello/internal/question"
)

// SeenSet is the persistent set of question ids the player has advanced
// past. Implementations persist on Mark and Clear.
type SeenSet interface {
	Has(id string) bool
	Mark(id string)
	Clear()
	Len() int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used for shuffling.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithLogger attaches an event logger.
func WithLogger(l *otel.Logger) Option {
	return func(e *Engine) { e.events = l }
}

// Engine owns the working deck and the cursor for one game session.
type Engine struct {
	all    []question.Question
	filter ThemeSet
	seen   SeenSet

	deck     []question.Question
	cursor   int
	fallback bool

	// shuffling guards BeginShuffle/CommitShuffle. Mutations that would
	// rebuild the deck are parked in deferred until the commit.
	shuffling bool
	deferred  []func()

	resetPending bool

	// Inputs the current deck was built from.
	builtSeenLen   int
	builtFilterKey string

	rng    *rand.Rand
	events *otel.Logger
}

// New creates an engine with every theme selected and an empty collection.
func New(seen SeenSet, opts ...Option) *Engine {
	e := &Engine{
		filter: AllThemesSet(),
		seen:   seen,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	e.builtSeenLen = seen.Len()
	e.builtFilterKey = e.filter.key()
	return e
}

// SetCollection replaces the full question collection. Duplicate ids keep
// their first occurrence. The deck is rebuilt only when the content
// differs from the current collection.
func (e *Engine) SetCollection(qs []question.Question) {
	if e.shuffling {
		qs = question.Clone(qs)
		e.queue("collection", func() { e.SetCollection(qs) })
		return
	}
	next := dedupe(qs)
	if sameCollection(e.all, next) {
		return
	}
	e.all = next
	e.rebuild()
}

// Collection returns a copy of the full collection.
func (e *Engine) Collection() []question.Question {
	return question.Clone(e.all)
}

// rebuild recomputes the working deck from all, filter and seen, then
// shuffles it and puts the cursor on the first card.
func (e *Engine) rebuild() {
	deck := make([]question.Question, 0, len(e.all))
	for _, q := range e.all {
		if e.seen.Has(q.ID) || !e.filter.Has(q.Theme) {
			continue
		}
		deck = append(deck, q)
	}

	e.fallback = false
	if len(deck) == 0 && len(e.all) > 0 {
		// Nothing unseen matches the filter: show the whole collection,
		// seen cards included, rather than an empty deck.
		deck = question.Clone(e.all)
		e.fallback = true
		e.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindDeckFallback, Comp: "deck", Count: len(deck)})
	}

	e.shuffle(deck)
	e.deck = deck
	e.cursor = 0
	e.builtSeenLen = e.seen.Len()
	e.builtFilterKey = e.filter.key()

	e.events.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindDeckRebuild,
		Comp:  "deck",
		Count: len(deck),
		Extra: map[string]any{"total": len(e.all), "seen": e.builtSeenLen, "themes": e.builtFilterKey},
	})
}

// sync rebuilds when the seen-set size or the filter changed since the last
// build. Marks made by Advance are folded into the baseline and never
// trigger a rebuild.
func (e *Engine) sync() {
	if e.seen.Len() != e.builtSeenLen || e.filter.key() != e.builtFilterKey {
		e.rebuild()
	}
}

// shuffle permutes qs in place (Fisher–Yates).
func (e *Engine) shuffle(qs []question.Question) {
	for i := len(qs) - 1; i > 0; i-- {
		j := e.rng.IntN(i + 1)
		qs[i], qs[j] = qs[j], qs[i]
	}
}

// Advance moves past the current card and marks it seen. No-op when the
// deck is finished or a shuffle is in flight.
func (e *Engine) Advance() bool {
	if e.shuffling || e.cursor >= len(e.deck) {
		return false
	}
	e.seen.Mark(e.deck[e.cursor].ID)
	e.builtSeenLen = e.seen.Len()
	e.cursor++
	if e.cursor == len(e.deck) {
		e.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindDeckFinished, Comp: "deck", Count: len(e.deck)})
	}
	return true
}

// Retreat moves back one card. Seen marks are kept. No-op on the first card.
func (e *Engine) Retreat() bool {
	if e.shuffling || e.cursor <= 0 {
		return false
	}
	e.cursor--
	return true
}

// JumpTo moves the cursor back into history. Only 0 <= i <= cursor is
// accepted; jumping forward would skip seen marks.
func (e *Engine) JumpTo(i int) bool {
	if e.shuffling || i < 0 || i > e.cursor {
		return false
	}
	e.cursor = i
	return true
}

// Rewind returns to the first card of the current deck without reshuffling.
func (e *Engine) Rewind() bool {
	return e.JumpTo(0)
}

// Current returns the card under the cursor.
func (e *Engine) Current() (question.Question, bool) {
	return e.at(e.cursor)
}

// Next returns the card after the cursor.
func (e *Engine) Next() (question.Question, bool) {
	return e.at(e.cursor + 1)
}

// Previous returns the card before the cursor.
func (e *Engine) Previous() (question.Question, bool) {
	return e.at(e.cursor - 1)
}

func (e *Engine) at(i int) (question.Question, bool) {
	if i < 0 || i >= len(e.deck) {
		return question.Question{}, false
	}
	return e.deck[i], true
}

// ToggleTheme selects or deselects t. Deselecting the last selected theme
// is refused. While a shuffle is in flight the toggle is queued and
// reported as accepted; the non-empty rule is checked when it is applied.
func (e *Engine) ToggleTheme(t question.Theme) bool {
	if !t.Valid() {
		return false
	}
	if e.shuffling {
		e.queue("toggle_theme", func() { e.ToggleTheme(t) })
		return true
	}
	if e.filter.Has(t) {
		if len(e.filter) == 1 {
			return false
		}
		delete(e.filter, t)
	} else {
		e.filter[t] = struct{}{}
	}
	e.sync()
	return true
}

// SelectOnly narrows the filter to t.
func (e *Engine) SelectOnly(t question.Theme) bool {
	if !t.Valid() {
		return false
	}
	if e.shuffling {
		e.queue("select_only", func() { e.SelectOnly(t) })
		return true
	}
	e.filter = ThemeSet{t: {}}
	e.sync()
	return true
}

// SelectAll selects every theme.
func (e *Engine) SelectAll() {
	if e.shuffling {
		e.queue("select_all", e.SelectAll)
		return
	}
	e.filter = AllThemesSet()
	e.sync()
}

// Filter returns a copy of the selected themes.
func (e *Engine) Filter() ThemeSet {
	return e.filter.clone()
}

// BeginShuffle starts a shuffle of the unvisited tail. It fails while
// another shuffle is in flight or when there is no card left to play.
func (e *Engine) BeginShuffle() bool {
	if e.shuffling || e.cursor >= len(e.deck) {
		return false
	}
	e.shuffling = true
	return true
}

// CommitShuffle permutes deck[cursor:], leaving history untouched, ends the
// shuffle and applies any mutation queued meanwhile, in arrival order.
func (e *Engine) CommitShuffle() bool {
	if !e.shuffling {
		return false
	}
	e.shuffle(e.deck[e.cursor:])
	e.shuffling = false
	e.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindDeckShuffle, Comp: "deck", Count: len(e.deck) - e.cursor})

	pending := e.deferred
	e.deferred = nil
	for _, apply := range pending {
		apply()
	}
	return true
}

// ShuffleRemaining is BeginShuffle followed by CommitShuffle.
func (e *Engine) ShuffleRemaining() bool {
	if !e.BeginShuffle() {
		return false
	}
	return e.CommitShuffle()
}

// Shuffling reports whether a shuffle is in flight.
func (e *Engine) Shuffling() bool {
	return e.shuffling
}

func (e *Engine) queue(what string, apply func()) {
	e.deferred = append(e.deferred, apply)
	e.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindDeckDeferred, Comp: "deck", Msg: what, Count: len(e.deferred)})
}

// RequestReset arms the reset confirmation. Nothing changes until
// ConfirmReset.
func (e *Engine) RequestReset() {
	e.resetPending = true
}

// CancelReset disarms a pending reset.
func (e *Engine) CancelReset() {
	e.resetPending = false
}

// ResetPending reports whether a reset awaits confirmation.
func (e *Engine) ResetPending() bool {
	return e.resetPending
}

// ConfirmReset clears the seen set (memory and durable copy), and rebuilds
// the deck from the first card. Without a prior RequestReset it does
// nothing. During a shuffle the reset is applied after the commit.
func (e *Engine) ConfirmReset() bool {
	if !e.resetPending {
		return false
	}
	e.resetPending = false
	if e.shuffling {
		e.queue("reset", e.reset)
		return true
	}
	e.reset()
	return true
}

func (e *Engine) reset() {
	cleared := e.seen.Len()
	e.seen.Clear()
	// Rebuild even when the seen set was already empty: a reset always
	// deals a fresh deck.
	e.rebuild()
	e.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindDeckReset, Comp: "deck", Count: cleared})
}

func dedupe(qs []question.Question) []question.Question {
	out := make([]question.Question, 0, len(qs))
	ids := make(map[string]struct{}, len(qs))
	for _, q := range qs {
		if _, dup := ids[q.ID]; dup {
			continue
		}
		ids[q.ID] = struct{}{}
		out = append(out, q)
	}
	return out
}

// sameCollection compares two collections as sets keyed by id. Order is
// irrelevant: the collection carries no game semantics in its order.
func sameCollection(a, b []question.Question) bool {
	if len(a) != len(b) {
		return false
	}
	byID := make(map[string]question.Question, len(a))
	for _, q := range a {
		byID[q.ID] = q
	}
	for _, q := range b {
		prev, ok := byID[q.ID]
		if !ok || !prev.Equal(q) {
			return false
		}
	}
	return true
}

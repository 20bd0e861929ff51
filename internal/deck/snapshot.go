package deck

import "github.com/infblueocean/feello/internal/question"

// State is the coarse session state.
type State int

const (
	// StateEmpty means there is no content at all.
	StateEmpty State = iota
	// StatePlaying means 0 <= cursor < len(deck).
	StatePlaying
	// StateFinished means cursor == len(deck).
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePlaying:
		return "playing"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Direction is the presentation layer's in-progress gesture.
type Direction int

const (
	DirNone Direction = iota
	DirForward
	DirBackward
)

// Snapshot is the derived presentation state, recomputed on every read.
type Snapshot struct {
	State State

	Current  *question.Question
	Next     *question.Question
	Previous *question.Question

	Cursor    int
	Length    int
	Remaining int // cards after the current one
	Total     int // size of the full collection
	SeenCount int

	Finished     bool
	Empty        bool
	Fallback     bool
	Shuffling    bool
	ResetPending bool

	Themes []question.Theme
}

// Terminal reports whether the end-of-deck screen should be shown. Its
// only actions are reset and a single step back.
func (s Snapshot) Terminal() bool {
	return s.Finished || s.Empty
}

// Snapshot computes the derived state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Cursor:       e.cursor,
		Length:       len(e.deck),
		Remaining:    max(0, len(e.deck)-(e.cursor+1)),
		Total:        len(e.all),
		SeenCount:    e.seen.Len(),
		Finished:     e.cursor >= len(e.deck),
		Empty:        len(e.all) == 0,
		Fallback:     e.fallback,
		Shuffling:    e.shuffling,
		ResetPending: e.resetPending,
		Themes:       e.filter.Sorted(),
	}
	switch {
	case s.Empty:
		s.State = StateEmpty
	case s.Finished:
		s.State = StateFinished
	default:
		s.State = StatePlaying
	}
	if q, ok := e.Current(); ok {
		s.Current = &q
	}
	if q, ok := e.Next(); ok {
		s.Next = &q
	}
	if q, ok := e.Previous(); ok {
		s.Previous = &q
	}
	return s
}

// State returns the coarse session state.
func (e *Engine) State() State {
	return e.Snapshot().State
}

// BackCard picks the card shown behind the front card: the previous card
// while the player drags backward, the next card otherwise.
func BackCard(s Snapshot, dir Direction) *question.Question {
	if dir == DirBackward {
		return s.Previous
	}
	return s.Next
}

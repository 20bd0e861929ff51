// Package ui provides the Bubble Tea TUI for feello.
package ui

import (
	"time"

	"github.com/infblueocean/feello/internal/question"
)

// Source tells where a collection came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceSeed   Source = "seed"
)

// QuestionsLoaded carries a full collection snapshot.
type QuestionsLoaded struct {
	Questions []question.Question
	Source    Source
}

// StoreStatus reports the health of the question store. A nil Err means
// the store is reachable again.
type StoreStatus struct {
	Err error
}

// shuffleDone ends the shuffle animation numbered seq.
type shuffleDone struct {
	seq int
}

// frameTick advances the card slide spring.
type frameTick struct {
	at time.Time
}

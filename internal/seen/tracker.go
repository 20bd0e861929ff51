// Package seen tracks which questions the player has already advanced past.
//
// The set lives in memory and is mirrored, on every mutation, into a single
// named record of the local store as a JSON array of ids.
package seen

import (
	"encoding/json"
	"errors"
	"slices"
	"sync"

	"github.com/infblueocean/feello/internal/logging"
	"github.com/infblueocean/feello/internal/otel"
	"github.com/infblueocean/feello/internal/store"
)

// RecordName is the store key holding the seen ids.
const RecordName = "seen_ids"

// Storage is the durable side of the tracker. *store.Store satisfies it.
type Storage interface {
	LoadRecord(name string) ([]byte, error)
	SaveRecord(name string, data []byte) error
}

// Tracker is the persistent seen set. It implements deck.SeenSet.
// Safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	ids     map[string]struct{}
	storage Storage
	events  *otel.Logger

	lastErr  error
	failures int
}

// Load reads the seen set from storage. A missing or unparsable record
// yields an empty set; Load itself never fails.
func Load(storage Storage, events *otel.Logger) *Tracker {
	t := &Tracker{ids: map[string]struct{}{}, storage: storage, events: events}

	data, err := storage.LoadRecord(RecordName)
	switch {
	case errors.Is(err, store.ErrNoRecord):
		// first run
	case err != nil:
		t.fail(err)
	default:
		var ids []string
		if err := json.Unmarshal(data, &ids); err != nil {
			logging.Warn("seen: corrupt record, starting empty", "err", err)
			events.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindSeenCorrupt, Comp: "seen", Err: err.Error()})
			break
		}
		for _, id := range ids {
			if id != "" {
				t.ids[id] = struct{}{}
			}
		}
	}

	events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSeenLoad, Comp: "seen", Count: len(t.ids)})
	return t
}

// Has reports whether id has been seen.
func (t *Tracker) Has(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.ids[id]
	return ok
}

// Mark adds id and persists the set. Marking an id twice writes nothing.
func (t *Tracker) Mark(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.ids[id]; ok {
		return
	}
	t.ids[id] = struct{}{}
	t.persist()
}

// Clear empties the set in memory and in storage.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids = map[string]struct{}{}
	t.persist()
}

// Len returns the number of seen ids.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ids)
}

// IDs returns the seen ids, sorted.
func (t *Tracker) IDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sortedLocked()
}

// Err returns the most recent persistence error, if any.
func (t *Tracker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

// Failures returns the number of failed writes so far.
func (t *Tracker) Failures() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failures
}

func (t *Tracker) sortedLocked() []string {
	out := make([]string, 0, len(t.ids))
	for id := range t.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// persist writes the whole set. The in-memory set stays authoritative for
// the session when the write fails.
func (t *Tracker) persist() {
	data, err := json.Marshal(t.sortedLocked())
	if err == nil {
		err = t.storage.SaveRecord(RecordName, data)
	}
	if err != nil {
		t.fail(err)
	}
}

func (t *Tracker) fail(err error) {
	t.lastErr = err
	t.failures++
	logging.Error("seen: persistence failed", "err", err, "failures", t.failures)
	t.events.Emit(otel.Event{Level: otel.LevelError, Kind: otel.KindSeenError, Comp: "seen", Err: err.Error(), Count: t.failures})
}

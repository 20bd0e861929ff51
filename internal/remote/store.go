// Package remote defines the contract of the canonical question store and
// an in-process implementation of it.
//
// The store owns the collection: it alone assigns ids and creation times.
// Readers never mutate it; they subscribe and receive full snapshots.
package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/infblueocean/feello/internal/question"
)

// OpTimeout bounds every write unless a store is configured otherwise.
const OpTimeout = 10 * time.Second

var (
	ErrTimeout  = errors.New("remote: operation timed out")
	ErrNotFound = errors.New("remote: question not found")
	ErrRejected = errors.New("remote: write rejected")
	ErrClosed   = errors.New("remote: store closed")
)

// StoreError describes a failed store operation.
type StoreError struct {
	Op  string // "add", "update", "delete", "list", "subscribe"
	ID  string // empty for add, list and subscribe
	Err error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Wrap builds a *StoreError, turning an expired deadline into ErrTimeout.
// A nil err stays nil.
func Wrap(op, id string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return &StoreError{Op: op, ID: id, Err: err}
}

// Bounded derives a context that expires after d (OpTimeout when d <= 0).
func Bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = OpTimeout
	}
	return context.WithTimeout(ctx, d)
}

// Store is the canonical question collection.
type Store interface {
	// Subscribe delivers the full collection to onChange immediately and
	// again after every change, until the returned unsubscribe func is
	// called or ctx ends. onError receives non-fatal delivery problems.
	// Callbacks run on a store goroutine and must not block for long.
	Subscribe(ctx context.Context, onChange func([]question.Question), onError func(error)) (unsubscribe func(), err error)

	// Add stores a new question and returns the id the store assigned.
	Add(ctx context.Context, d question.Draft) (string, error)
	Update(ctx context.Context, id string, p question.Patch) error
	Delete(ctx context.Context, id string) error

	// List returns the collection, newest first.
	List(ctx context.Context) ([]question.Question, error)
}

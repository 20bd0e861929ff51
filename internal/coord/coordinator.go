// Package coord bridges the question store into the Bubble Tea program.
package coord

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/infblueocean/feello/internal/logging"
	"github.com/infblueocean/feello/internal/otel"
	"github.com/infblueocean/feello/internal/question"
	"github.com/infblueocean/feello/internal/remote"
	"github.com/infblueocean/feello/internal/ui"
)

const (
	// DefaultStartupTimeout bounds the wait for the first snapshot.
	DefaultStartupTimeout = 4 * time.Second
	// DefaultRetryDelay is the pause between failed subscribe attempts.
	DefaultRetryDelay = 3 * time.Second
)

// Sender is the part of *tea.Program the coordinator needs.
type Sender interface {
	Send(msg tea.Msg)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithStartupTimeout overrides DefaultStartupTimeout.
func WithStartupTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.startupTimeout = d }
}

// WithRetryDelay overrides DefaultRetryDelay.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Coordinator) { c.retryDelay = d }
}

// WithLogger attaches an event logger.
func WithLogger(l *otel.Logger) Option {
	return func(c *Coordinator) { c.events = l }
}

// Coordinator keeps one subscription to the store open for the lifetime of
// the context passed to Start and turns every snapshot into a
// ui.QuestionsLoaded message.
// Uses context cancellation as the ONLY stop mechanism.
type Coordinator struct {
	store          remote.Store
	seed           []question.Question // IMMUTABLE after construction
	startupTimeout time.Duration
	retryDelay     time.Duration
	events         *otel.Logger

	// mu serialises sends so a late seed can never overtake a remote
	// snapshot.
	mu        sync.Mutex
	delivered bool // any collection (remote or seed) reached the UI
	remoteOK  bool // a remote snapshot reached the UI

	wg sync.WaitGroup
}

// New creates a Coordinator over store. seed is played when the store is
// empty or unreachable.
func New(store remote.Store, seed []question.Question, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:          store,
		seed:           question.Clone(seed),
		startupTimeout: DefaultStartupTimeout,
		retryDelay:     DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start subscribes in the background. Call Wait after cancelling ctx.
func (c *Coordinator) Start(ctx context.Context, s Sender) {
	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		c.watchStartup(ctx, s)
	}()
	go func() {
		defer c.wg.Done()
		c.run(ctx, s)
	}()
}

// Wait blocks until the background goroutines exit.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// watchStartup plays the seed if nothing arrived within the startup bound.
func (c *Coordinator) watchStartup(ctx context.Context, s Sender) {
	t := time.NewTimer(c.startupTimeout)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return
	case <-t.C:
	}

	err := fmt.Errorf("no snapshot after %s: %w", c.startupTimeout, remote.ErrTimeout)
	if c.fallback(s, err) {
		c.events.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindStoreTimeout, Comp: "coord", Err: err.Error(), Dur: c.startupTimeout})
		logging.Warn("store startup timed out, playing the bundled questions", "after", c.startupTimeout)
	}
}

// run subscribes, retrying until it succeeds or ctx ends, then holds the
// subscription until ctx ends.
func (c *Coordinator) run(ctx context.Context, s Sender) {
	onChange := func(qs []question.Question) { c.deliver(s, qs) }
	onError := func(err error) {
		c.logError(err)
		c.send(s, ui.StoreStatus{Err: err})
	}

	for {
		unsubscribe, err := c.store.Subscribe(ctx, onChange, onError)
		if err == nil {
			<-ctx.Done()
			unsubscribe()
			return
		}
		if ctx.Err() != nil {
			return
		}

		c.logError(err)
		if !c.fallback(s, err) {
			c.send(s, ui.StoreStatus{Err: err})
		}

		t := time.NewTimer(c.retryDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}

// deliver forwards a store snapshot. An empty store plays the seed.
func (c *Coordinator) deliver(s Sender, qs []question.Question) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.delivered = true
	c.remoteOK = true
	if len(qs) == 0 {
		c.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindStoreSeed, Comp: "coord", Count: len(c.seed), Msg: "store is empty"})
		s.Send(ui.QuestionsLoaded{Questions: question.Clone(c.seed), Source: ui.SourceSeed})
		return
	}
	c.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindStoreSnapshot, Comp: "coord", Count: len(qs), Source: string(ui.SourceRemote)})
	s.Send(ui.QuestionsLoaded{Questions: question.Clone(qs), Source: ui.SourceRemote})
}

// fallback plays the seed and reports err unless some collection is
// already on screen. It reports whether the seed was sent.
func (c *Coordinator) fallback(s Sender, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.delivered {
		return false
	}
	c.delivered = true
	c.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindStoreSeed, Comp: "coord", Count: len(c.seed), Err: err.Error()})
	s.Send(ui.QuestionsLoaded{Questions: question.Clone(c.seed), Source: ui.SourceSeed})
	s.Send(ui.StoreStatus{Err: err})
	return true
}

func (c *Coordinator) logError(err error) {
	c.events.Emit(otel.Event{Level: otel.LevelError, Kind: otel.KindStoreError, Comp: "coord", Err: err.Error()})
	logging.Error("store error", "err", err)
}

func (c *Coordinator) send(s Sender, msg tea.Msg) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s.Send(msg)
}

// RemoteDelivered reports whether a store snapshot reached the UI.
func (c *Coordinator) RemoteDelivered() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remoteOK
}

// Command feello is the terminal card game: it deals conversation
// questions from the shared store, themed and shuffled, and remembers which
// ones were already played.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/infblueocean/feello/internal/config"
	"github.com/infblueocean/feello/internal/coord"
	"github.com/infblueocean/feello/internal/deck"
	"github.com/infblueocean/feello/internal/logging"
	"github.com/infblueocean/feello/internal/otel"
	"github.com/infblueocean/feello/internal/question"
	"github.com/infblueocean/feello/internal/remote"
	"github.com/infblueocean/feello/internal/remote/postgres"
	"github.com/infblueocean/feello/internal/seen"
	"github.com/infblueocean/feello/internal/store"
	"github.com/infblueocean/feello/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "feello: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Local.DataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	if err := logging.Init(cfg.Local.DataDir, cfg.Log.Level); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	defer logging.Close()

	events, ring, closeEvents, err := openEvents(cfg)
	if err != nil {
		return err
	}
	defer closeEvents()
	events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindStartup, Comp: "main", Source: storeName(cfg)})
	logging.Info("feello starting", "data_dir", cfg.Local.DataDir, "store", storeName(cfg))

	// Seen set lives in the local SQLite database.
	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("open local database: %w", err)
	}
	defer st.Close()
	tracker := seen.Load(st, events)

	questions, closeStore, err := openRemote(cfg, events)
	if err != nil {
		return err
	}
	defer closeStore()

	engine := deck.New(tracker, deck.WithLogger(events))
	app := ui.NewApp(engine, ui.Options{
		ShuffleDuration: cfg.UI.ShuffleDuration,
		ReduceMotion:    cfg.UI.ReduceMotion,
		Events:          events,
		Ring:            ring,
	})
	program := tea.NewProgram(app, tea.WithAltScreen())

	coordinator := coord.New(questions, question.Seed(),
		coord.WithStartupTimeout(cfg.Store.StartupTimeout),
		coord.WithRetryDelay(cfg.Store.RetryDelay),
		coord.WithLogger(events),
	)
	coordinator.Start(ctx, program)

	_, runErr := program.Run()

	// Graceful shutdown
	cancel()
	coordinator.Wait()

	events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindShutdown, Comp: "main", Count: tracker.Len()})
	if err := tracker.Err(); err != nil {
		logging.Warn("seen set not saved", "failures", tracker.Failures(), "err", err)
	}
	if runErr != nil {
		events.Emit(otel.Event{Level: otel.LevelError, Kind: otel.KindError, Comp: "main", Err: runErr.Error()})
		logging.Error("Application error", "error", runErr)
		return runErr
	}
	logging.Info("feello exiting normally")
	return nil
}

// openEvents creates the JSONL event logger mirrored into the debug ring.
func openEvents(cfg *config.Config) (*otel.Logger, *otel.RingBuffer, func(), error) {
	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	if cfg.Log.NoEvents {
		l := otel.NewNullLogger()
		l.SetRingBuffer(ring)
		return l, ring, l.Close, nil
	}
	f, err := os.OpenFile(cfg.EventsPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open event log: %w", err)
	}
	l := otel.NewLogger(f)
	l.SetRingBuffer(ring)
	closeFn := func() {
		l.Close()
		_ = f.Close()
	}
	return l, ring, closeFn, nil
}

// openRemote returns the question store: PostgreSQL when a DSN is
// configured, an empty in-memory store otherwise (the coordinator then
// plays the bundled collection). Schema migrations are applied by
// feelloctl migrate.
func openRemote(cfg *config.Config, events *otel.Logger) (remote.Store, func(), error) {
	if cfg.Store.Offline() {
		m := remote.NewMemory()
		return m, func() { _ = m.Close() }, nil
	}

	// Dial does not contact the server; an unreachable database surfaces
	// through the coordinator's startup bound.
	pg, err := postgres.Dial(cfg.Store, events)
	if err != nil {
		return nil, nil, fmt.Errorf("open question store: %w", err)
	}
	return pg, pg.Close, nil
}

func storeName(cfg *config.Config) string {
	if cfg.Store.Offline() {
		return "offline"
	}
	return "postgres"
}

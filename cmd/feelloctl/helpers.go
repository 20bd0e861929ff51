package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/infblueocean/feello/internal/config"
	"github.com/infblueocean/feello/internal/remote/postgres"
)

var errNoDSN = errors.New("no database configured: set FEELLO_DATABASE_DSN or store.dsn")

// openStore loads the configuration and connects to the question store.
// The connection attempt is bounded by store.startup_timeout.
func openStore(ctx context.Context) (*postgres.Store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Store.Offline() {
		return nil, nil, errNoDSN
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Store.StartupTimeout)
	defer cancel()
	st, err := postgres.Open(connectCtx, cfg.Store, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	return st, cfg, nil
}

// oneArg returns the single positional argument of a command.
func oneArg(args []string, what string) (string, error) {
	switch len(args) {
	case 0:
		return "", fmt.Errorf("missing %s", what)
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("expected one %s, got %d arguments", what, len(args))
	}
}

// truncate shortens a string to max runes, appending "..." if truncated.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

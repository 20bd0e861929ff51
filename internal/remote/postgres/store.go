// Package postgres implements remote.Store on PostgreSQL. Changes are
// pushed to subscribers through LISTEN/NOTIFY on the questions_changed
// channel, which a statement-level trigger fires on every write.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/infblueocean/feello/internal/config"
	"github.com/infblueocean/feello/internal/otel"
	"github.com/infblueocean/feello/internal/question"
	"github.com/infblueocean/feello/internal/remote"
)

// Store is a remote.Store backed by a pgx pool.
type Store struct {
	pool   *pgxpool.Pool
	cfg    config.StoreConfig
	events *otel.Logger
}

var _ remote.Store = (*Store)(nil)

func poolConfig(cfg config.StoreConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	return poolCfg, nil
}

// NewPool parses the DSN, applies pool settings and pings the database.
func NewPool(ctx context.Context, cfg config.StoreConfig) (*pgxpool.Pool, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Open connects to the database described by cfg.
func Open(ctx context.Context, cfg config.StoreConfig, events *otel.Logger) (*Store, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(pool, cfg, events), nil
}

// Dial creates a store without contacting the server. Connections are
// opened on first use.
func Dial(cfg config.StoreConfig, events *otel.Logger) (*Store, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	return New(pool, cfg, events), nil
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool, cfg config.StoreConfig, events *otel.Logger) *Store {
	return &Store{pool: pool, cfg: cfg, events: events}
}

// Pool exposes the pool for migrations.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Close closes the pool.
func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return remote.Bounded(ctx, s.cfg.OpTimeout)
}

// List implements remote.Store.
func (s *Store) List(ctx context.Context) ([]question.Question, error) {
	return s.list(ctx, nil)
}

// ListTheme returns the questions of one theme, newest first.
func (s *Store) ListTheme(ctx context.Context, theme question.Theme) ([]question.Question, error) {
	return s.list(ctx, &theme)
}

func (s *Store) list(ctx context.Context, theme *question.Theme) ([]question.Question, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	sql, args, err := selectQuery(theme).ToSql()
	if err != nil {
		return nil, remote.Wrap("list", "", err)
	}
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError("list", "", err)
	}
	qs, err := pgx.CollectRows(rows, scanQuestion)
	if err != nil {
		return nil, mapError("list", "", err)
	}
	return qs, nil
}

func scanQuestion(row pgx.CollectableRow) (question.Question, error) {
	var (
		q     question.Question
		theme string
	)
	if err := row.Scan(&q.ID, &theme, &q.Category, &q.Tagline, &q.Text, &q.CreatedAt); err != nil {
		return q, err
	}
	t, err := question.ParseTheme(theme)
	if err != nil {
		return q, fmt.Errorf("question %s: %w", q.ID, err)
	}
	q.Theme = t
	return q, nil
}

// Add implements remote.Store.
func (s *Store) Add(ctx context.Context, d question.Draft) (string, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return "", remote.Wrap("add", "", fmt.Errorf("%w: %w", remote.ErrRejected, err))
	}

	ctx, cancel := s.bounded(ctx)
	defer cancel()

	sql, args, err := insertQuery(d).ToSql()
	if err != nil {
		return "", remote.Wrap("add", "", err)
	}
	var id string
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return "", s.writeFailed("add", "", err)
	}
	s.wrote("add", id)
	return id, nil
}

// Update implements remote.Store.
func (s *Store) Update(ctx context.Context, id string, p question.Patch) error {
	if err := p.Validate(); err != nil {
		return remote.Wrap("update", id, fmt.Errorf("%w: %w", remote.ErrRejected, err))
	}

	ctx, cancel := s.bounded(ctx)
	defer cancel()

	sql, args, err := updateQuery(id, p.Normalize()).ToSql()
	if err != nil {
		return remote.Wrap("update", id, err)
	}
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return s.writeFailed("update", id, err)
	}
	if tag.RowsAffected() == 0 {
		return remote.Wrap("update", id, remote.ErrNotFound)
	}
	s.wrote("update", id)
	return nil
}

// Delete implements remote.Store.
func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	sql, args, err := deleteQuery(id).ToSql()
	if err != nil {
		return remote.Wrap("delete", id, err)
	}
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return s.writeFailed("delete", id, err)
	}
	if tag.RowsAffected() == 0 {
		return remote.Wrap("delete", id, remote.ErrNotFound)
	}
	s.wrote("delete", id)
	return nil
}

func (s *Store) wrote(op, id string) {
	s.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindStoreWrite, Comp: "remote", QuestionID: id, Msg: op})
}

func (s *Store) writeFailed(op, id string, err error) error {
	err = mapError(op, id, err)
	s.events.Emit(otel.Event{Level: otel.LevelError, Kind: otel.KindStoreError, Comp: "remote", QuestionID: id, Msg: op, Err: err.Error()})
	return err
}

func (s *Store) retryDelay() time.Duration {
	if s.cfg.RetryDelay > 0 {
		return s.cfg.RetryDelay
	}
	return 3 * time.Second
}

func (s *Store) reloadInterval() time.Duration {
	if s.cfg.ReloadInterval > 0 {
		return s.cfg.ReloadInterval
	}
	return 250 * time.Millisecond
}

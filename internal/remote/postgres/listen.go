package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/infblueocean/feello/internal/logging"
	"github.com/infblueocean/feello/internal/otel"
	"github.com/infblueocean/feello/internal/question"
)

const channel = "questions_changed"

// Subscribe implements remote.Store. One pooled connection is held on
// LISTEN for the life of the subscription. Notifications only mark the
// snapshot dirty; a rate-limited reloader turns bursts into one List.
func (s *Store) Subscribe(ctx context.Context, onChange func([]question.Question), onError func(error)) (func(), error) {
	if onError == nil {
		onError = func(error) {}
	}
	ctx, cancel := context.WithCancel(ctx)

	conn, err := s.listen(ctx)
	if err != nil {
		cancel()
		return nil, mapError("subscribe", "", err)
	}
	snap, err := s.List(ctx)
	if err != nil {
		conn.Release()
		cancel()
		return nil, err
	}
	onChange(snap)

	dirty := make(chan struct{}, 1)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.watch(gctx, conn, dirty, onError)
		return nil
	})
	g.Go(func() error {
		s.reload(gctx, dirty, onChange, onError)
		return nil
	})

	return func() {
		cancel()
		_ = g.Wait()
	}, nil
}

func (s *Store) listen(ctx context.Context) (*pgxpool.Conn, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(ctx, "LISTEN "+channel); err != nil {
		conn.Release()
		return nil, err
	}
	return conn, nil
}

// watch waits for notifications and reconnects after a lost connection.
// A reconnect marks the snapshot dirty, since changes may have been missed.
func (s *Store) watch(ctx context.Context, conn *pgxpool.Conn, dirty chan<- struct{}, onError func(error)) {
	defer func() {
		if conn != nil {
			conn.Release()
		}
	}()

	for {
		if conn == nil {
			if !sleep(ctx, s.retryDelay()) {
				return
			}
			c, err := s.listen(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				onError(mapError("subscribe", "", err))
				continue
			}
			conn = c
			logging.Info("remote: listener reconnected")
			markDirty(dirty)
		}

		n, err := conn.Conn().WaitForNotification(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			logging.Warn("remote: listener lost", "err", err)
			s.events.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindStoreError, Comp: "remote", Msg: "listen", Err: err.Error()})
			onError(mapError("subscribe", "", err))
			// The connection is broken; Release destroys it.
			conn.Release()
			conn = nil
			continue
		}
		logging.Debug("remote: notification", "channel", n.Channel, "op", n.Payload)
		markDirty(dirty)
	}
}

// reload lists the collection whenever dirty is signalled, at most once per
// reload interval.
func (s *Store) reload(ctx context.Context, dirty <-chan struct{}, onChange func([]question.Question), onError func(error)) {
	limiter := rate.NewLimiter(rate.Every(s.reloadInterval()), 1)
	for {
		select {
		case <-ctx.Done():
			return
		case <-dirty:
		}
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		start := time.Now()
		qs, err := s.List(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			onError(err)
			continue
		}
		s.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindStoreSnapshot, Comp: "remote", Count: len(qs), Dur: time.Since(start)})
		onChange(qs)
	}
}

// markDirty never blocks: a pending signal already covers this change.
func markDirty(dirty chan<- struct{}) {
	select {
	case dirty <- struct{}{}:
	default:
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

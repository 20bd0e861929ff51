package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/infblueocean/feello/internal/remote"
)

// mapError converts pgx/pgconn errors to remote sentinel errors, wrapped in
// a *remote.StoreError. Deadline expiry becomes remote.ErrTimeout.
func mapError(op, id string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return remote.Wrap(op, id, remote.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23514", // check_violation
			"23502", // not_null_violation
			"23505", // unique_violation
			"22001": // string_data_right_truncation
			return remote.Wrap(op, id, fmt.Errorf("%w: %s", remote.ErrRejected, pgErr.Message))
		}
	}

	return remote.Wrap(op, id, err)
}

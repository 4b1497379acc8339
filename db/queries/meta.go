package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.hackfix.me/courseapi/db/types"
)

// Version returns the application version the database was initialized with.
// If the returned sql.Null value is invalid, it indicates that the database
// hasn't been initialized.
func Version(ctx context.Context, d types.Querier) (sql.Null[string], error) {
	var version sql.Null[string]

	var n int
	err := d.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = '_meta'`).
		Scan(&n)
	if err != nil {
		return version, fmt.Errorf("failed checking for the _meta table: %w", err)
	}
	if n == 0 {
		return version, nil
	}

	err = d.QueryRowContext(ctx, `SELECT version FROM _meta`).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return version, err
	}

	return version, nil
}

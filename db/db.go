package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"strings"
	"time"

	//nolint:revive,nolintlint // Idiomatic way of loading DB libraries.
	_ "github.com/glebarez/go-sqlite"

	"go.hackfix.me/courseapi/db/migrator"
	"go.hackfix.me/courseapi/db/types"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps sql.DB with additional context and migration functionality.
type DB struct {
	*sql.DB
	ctx        context.Context
	timeNow    func() time.Time
	path       string
	migrations []*migrator.Migration
}

var _ types.Querier = (*DB)(nil)

// Init creates the database schema and records the application version it was
// initialized with.
func (d *DB) Init(appVersion string, logger *slog.Logger) error {
	dblogger := logger.With("path", d.path)
	dblogger.Debug("initializing database")

	err := migrator.RunMigrations(d, d.migrations, migrator.MigrationUp, "all", logger)
	if err != nil {
		return err
	}

	_, err = d.ExecContext(d.NewContext(), `INSERT INTO _meta (version) VALUES (?)`, appVersion)
	if err != nil {
		return fmt.Errorf("failed inserting into _meta: %w", err)
	}

	dblogger.Info("database initialized")

	return nil
}

// NewContext returns the main database context. Code serving a request should
// prefer the request context, so that queries are canceled along with it.
func (d *DB) NewContext() context.Context {
	return d.ctx
}

// Open creates and configures a new SQLite database connection with migrations support.
func Open(ctx context.Context, path string, timeNow func() time.Time) (*DB, error) {
	var d *DB
	if strings.Contains(path, "mode=memory") || strings.Contains(path, ":memory:") {
		defer func() {
			if d != nil {
				// See https://github.com/mattn/go-sqlite3#faq
				d.SetMaxIdleConns(10)
				d.SetConnMaxLifetime(time.Duration(math.Inf(1)))
			}
		}()
	}

	sqliteDB, err := sql.Open("sqlite", withPragmas(path))
	if err != nil {
		return nil, fmt.Errorf("failed opening SQLite database: %w", err)
	}

	d = &DB{DB: sqliteDB, ctx: ctx, path: path, timeNow: timeNow}

	migrationsDir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed getting migrations directory: %w", err)
	}
	migrations, err := migrator.LoadMigrations(migrationsDir)
	if err != nil {
		return nil, err
	}
	d.migrations = migrations

	return d, nil
}

// Path returns the database path or DSN it was opened with.
func (d *DB) Path() string {
	return d.path
}

// TimeNow returns the current system time.
func (d *DB) TimeNow() time.Time {
	return d.timeNow()
}

// withPragmas adds connection pragmas to the DSN, so that every pooled
// connection enforces foreign keys and waits on locks instead of failing.
func withPragmas(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

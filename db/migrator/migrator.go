package migrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"regexp"
	"slices"
	"strconv"

	"go.hackfix.me/courseapi/db/types"
)

// MigrationDirection is the direction in which migrations are applied.
type MigrationDirection int

// Valid migration directions.
const (
	MigrationUp MigrationDirection = iota
	MigrationDown
)

func (d MigrationDirection) String() string {
	if d == MigrationDown {
		return "down"
	}
	return "up"
}

// Migration is a single schema change with its forward and rollback SQL.
type Migration struct {
	ID   int
	Name string
	Up   string
	Down string
}

var fileRx = regexp.MustCompile(`^(\d+)-([\w-]+)\.(up|down)\.sql$`)

// LoadMigrations reads all migration files from the root of fsys, and returns
// them sorted by ID. Every migration must have an up file; down files are
// optional.
func LoadMigrations(fsys fs.FS) ([]*Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed reading migrations directory: %w", err)
	}

	byID := map[int]*Migration{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := fileRx.FindStringSubmatch(entry.Name())
		if match == nil {
			return nil, fmt.Errorf("invalid migration file name '%s'", entry.Name())
		}

		id, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, fmt.Errorf("invalid migration ID in '%s': %w", entry.Name(), err)
		}

		data, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed reading migration file '%s': %w", entry.Name(), err)
		}

		m, ok := byID[id]
		if !ok {
			m = &Migration{ID: id, Name: match[2]}
			byID[id] = m
		} else if m.Name != match[2] {
			return nil, fmt.Errorf("conflicting names for migration %d: '%s' and '%s'", id, m.Name, match[2])
		}

		if match[3] == "up" {
			m.Up = string(data)
		} else {
			m.Down = string(data)
		}
	}

	migrations := make([]*Migration, 0, len(byID))
	for _, m := range byID {
		if m.Up == "" {
			return nil, fmt.Errorf("migration %d-%s has no up file", m.ID, m.Name)
		}
		migrations = append(migrations, m)
	}
	slices.SortFunc(migrations, func(a, b *Migration) int { return a.ID - b.ID })

	return migrations, nil
}

// RunMigrations applies migrations in the given direction. target is either
// "all", or the ID of the last migration to apply (up), or the ID of the last
// migration to roll back (down). Applied migrations are recorded in the
// _migrations table.
func RunMigrations(
	d types.Querier, migrations []*Migration, dir MigrationDirection, target string, logger *slog.Logger,
) error {
	ctx := d.NewContext()
	if err := createHistoryTable(ctx, d); err != nil {
		return err
	}

	applied, err := appliedIDs(ctx, d)
	if err != nil {
		return err
	}

	targetID := -1
	if target != "all" {
		if targetID, err = strconv.Atoi(target); err != nil {
			return fmt.Errorf("invalid migration target '%s'", target)
		}
	}

	plan := make([]*Migration, 0, len(migrations))
	switch dir {
	case MigrationUp:
		for _, m := range migrations {
			if _, ok := applied[m.ID]; !ok && (targetID < 0 || m.ID <= targetID) {
				plan = append(plan, m)
			}
		}
	case MigrationDown:
		for i := len(migrations) - 1; i >= 0; i-- {
			m := migrations[i]
			if _, ok := applied[m.ID]; ok && (targetID < 0 || m.ID >= targetID) {
				plan = append(plan, m)
			}
		}
	}

	for _, m := range plan {
		if err = runMigration(ctx, d, m, dir); err != nil {
			return err
		}
		logger.Debug("applied migration", "id", m.ID, "name", m.Name, "direction", dir.String())
	}

	return nil
}

// runMigration applies a single migration and records it in the history table
// within the same transaction.
func runMigration(ctx context.Context, d types.Querier, m *Migration, dir MigrationDirection) (rerr error) {
	stmt := m.Up
	if dir == MigrationDown {
		stmt = m.Down
		if stmt == "" {
			return fmt.Errorf("migration %d-%s can't be rolled back", m.ID, m.Name)
		}
	}

	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed starting transaction for migration %d-%s: %w", m.ID, m.Name, err)
	}
	defer func() {
		if rerr == nil {
			return
		}
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			rerr = errors.Join(rerr, fmt.Errorf("failed rolling back migration %d-%s: %w", m.ID, m.Name, err))
		}
	}()

	if _, err = tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed running migration %d-%s %s: %w", m.ID, m.Name, dir, err)
	}

	if dir == MigrationUp {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO _migrations (id, name, applied_at) VALUES (?, ?, ?)`,
			m.ID, m.Name, d.TimeNow().UTC())
	} else {
		_, err = tx.ExecContext(ctx, `DELETE FROM _migrations WHERE id = ?`, m.ID)
	}
	if err != nil {
		return fmt.Errorf("failed recording migration %d-%s: %w", m.ID, m.Name, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed committing migration %d-%s: %w", m.ID, m.Name, err)
	}

	return nil
}

func createHistoryTable(ctx context.Context, d types.Querier) error {
	_, err := d.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (
		id         INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		applied_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed creating migrations history table: %w", err)
	}
	return nil
}

func appliedIDs(ctx context.Context, d types.Querier) (ids map[int]struct{}, rerr error) {
	rows, err := d.QueryContext(ctx, `SELECT id FROM _migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed reading migrations history: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			rerr = errors.Join(rerr, fmt.Errorf("failed closing migrations rows: %w", err))
		}
	}()

	ids = map[int]struct{}{}
	for rows.Next() {
		var id int
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed scanning migration ID: %w", err)
		}
		ids[id] = struct{}{}
	}

	return ids, rows.Err()
}

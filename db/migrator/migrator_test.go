package migrator_test

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/courseapi/db"
	"go.hackfix.me/courseapi/db/migrator"
)

func TestLoadMigrations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fsys   fstest.MapFS
		expIDs []int
		expErr string
	}{
		{
			name: "ok/sorted",
			fsys: fstest.MapFS{
				"002-second.up.sql":   {Data: []byte("CREATE TABLE b (id INTEGER);")},
				"001-first.up.sql":    {Data: []byte("CREATE TABLE a (id INTEGER);")},
				"001-first.down.sql":  {Data: []byte("DROP TABLE a;")},
				"010-tenth.up.sql":    {Data: []byte("CREATE TABLE c (id INTEGER);")},
				"002-second.down.sql": {Data: []byte("DROP TABLE b;")},
			},
			expIDs: []int{1, 2, 10},
		},
		{
			name:   "ok/empty",
			fsys:   fstest.MapFS{},
			expIDs: []int{},
		},
		{
			name:   "err/invalid_name",
			fsys:   fstest.MapFS{"first.up.sql": {Data: []byte("SELECT 1;")}},
			expErr: "invalid migration file name 'first.up.sql'",
		},
		{
			name:   "err/no_up",
			fsys:   fstest.MapFS{"001-first.down.sql": {Data: []byte("SELECT 1;")}},
			expErr: "migration 1-first has no up file",
		},
		{
			name: "err/conflicting_names",
			fsys: fstest.MapFS{
				"001-first.up.sql":   {Data: []byte("SELECT 1;")},
				"001-other.down.sql": {Data: []byte("SELECT 1;")},
			},
			expErr: "conflicting names for migration 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			migrations, err := migrator.LoadMigrations(tt.fsys)
			if tt.expErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expErr)
				return
			}
			require.NoError(t, err)

			ids := make([]int, 0, len(migrations))
			for _, m := range migrations {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tt.expIDs, ids)
		})
	}
}

func TestRunMigrations(t *testing.T) {
	t.Parallel()

	rndName := make([]byte, 12)
	_, err := rand.Read(rndName)
	require.NoError(t, err)

	timeNow := func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	d, err := db.Open(t.Context(),
		fmt.Sprintf("file:migrator-%x?mode=memory&cache=shared", rndName), timeNow)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	migrations, err := migrator.LoadMigrations(fstest.MapFS{
		"001-first.up.sql":    {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"001-first.down.sql":  {Data: []byte("DROP TABLE a;")},
		"002-second.up.sql":   {Data: []byte("CREATE TABLE b (id INTEGER);")},
		"002-second.down.sql": {Data: []byte("DROP TABLE b;")},
		"003-third.up.sql":    {Data: []byte("CREATE TABLE c (id INTEGER);")},
	})
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	tables := func() []string {
		rows, qerr := d.QueryContext(t.Context(),
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('a', 'b', 'c', 'd') ORDER BY name`)
		require.NoError(t, qerr)
		defer rows.Close()

		names := []string{}
		for rows.Next() {
			var name string
			require.NoError(t, rows.Scan(&name))
			names = append(names, name)
		}
		require.NoError(t, rows.Err())

		return names
	}

	err = migrator.RunMigrations(d, migrations, migrator.MigrationUp, "2", logger)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tables())

	// Applied migrations are skipped.
	err = migrator.RunMigrations(d, migrations, migrator.MigrationUp, "all", logger)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, tables())

	err = migrator.RunMigrations(d, migrations, migrator.MigrationDown, "all", logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration 3-third can't be rolled back")

	err = migrator.RunMigrations(d, migrations[:2], migrator.MigrationDown, "2", logger)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, tables())

	// A failed migration leaves neither schema changes nor a history record.
	broken, err := migrator.LoadMigrations(fstest.MapFS{
		"004-broken.up.sql": {Data: []byte("CREATE TABLE d (id INTEGER); INSERT INTO missing VALUES (1);")},
	})
	require.NoError(t, err)
	err = migrator.RunMigrations(d, broken, migrator.MigrationUp, "all", logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed running migration 4-broken up")
	assert.Equal(t, []string{"a", "c"}, tables())

	var recorded int
	err = d.QueryRowContext(t.Context(), `SELECT COUNT(*) FROM _migrations WHERE id = 4`).Scan(&recorded)
	require.NoError(t, err)
	assert.Zero(t, recorded)

	err = migrator.RunMigrations(d, migrations, migrator.MigrationUp, "first", logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid migration target 'first'")
}

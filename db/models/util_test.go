package models_test

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.hackfix.me/courseapi/db"
	"go.hackfix.me/courseapi/db/models"
)

var timeNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func timeNowFn() time.Time {
	return timeNow
}

func newTestDB(t *testing.T) *db.DB {
	t.Helper()

	// A unique name per test, to avoid clashing of in-memory SQLite DBs.
	rndName := make([]byte, 12)
	_, err := rand.Read(rndName)
	require.NoError(t, err)

	d, err := db.Open(t.Context(),
		fmt.Sprintf("file:courseapi-%x?mode=memory&cache=shared", rndName), timeNowFn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	require.NoError(t, d.Init("test", slog.New(slog.DiscardHandler)))

	return d
}

func newTestUser(t *testing.T, d *db.DB, first, email string) *models.User {
	t.Helper()

	u, err := models.NewUser(first, "Doe", email, "password")
	require.NoError(t, err)
	require.NoError(t, u.Save(t.Context(), d, false))

	return u
}

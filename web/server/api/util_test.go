package api_test

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	actx "go.hackfix.me/courseapi/app/context"
	"go.hackfix.me/courseapi/db"
	"go.hackfix.me/courseapi/db/models"
	"go.hackfix.me/courseapi/web/server/api"
)

var timeNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func timeNowFn() time.Time {
	return timeNow
}

const testPassword = "s3cret"

type testAPI struct {
	t       *testing.T
	handler http.Handler
	appCtx  *actx.Context
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	// A unique name per test, to avoid clashing of in-memory SQLite DBs.
	rndName := make([]byte, 12)
	_, err := rand.Read(rndName)
	require.NoError(t, err)

	d, err := db.Open(t.Context(),
		fmt.Sprintf("file:courseapi-%x?mode=memory&cache=shared", rndName), timeNowFn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	logger := slog.New(slog.DiscardHandler)
	require.NoError(t, d.Init("test", logger))

	appCtx := &actx.Context{
		Ctx:     t.Context(),
		Logger:  logger,
		TimeNow: timeNowFn,
		DB:      d,
	}

	return &testAPI{t: t, handler: api.SetupHandlers(appCtx, logger, false), appCtx: appCtx}
}

func (ta *testAPI) addUser(first, last, email string) *models.User {
	ta.t.Helper()

	u, err := models.NewUser(first, last, email, testPassword)
	require.NoError(ta.t, err)
	require.NoError(ta.t, u.Save(ta.t.Context(), ta.appCtx.DB, false))

	return u
}

func (ta *testAPI) addCourse(owner *models.User, title, desc string) *models.Course {
	ta.t.Helper()

	c := &models.Course{Title: title, Description: desc, UserID: owner.ID}
	require.NoError(ta.t, c.Save(ta.t.Context(), ta.appCtx.DB, false))

	return c
}

type reqOpt func(*http.Request)

func withAuth(email, password string) reqOpt {
	return func(r *http.Request) {
		r.SetBasicAuth(email, password)
	}
}

func withContentType(ct string) reqOpt {
	return func(r *http.Request) {
		r.Header.Set("Content-Type", ct)
	}
}

func (ta *testAPI) do(method, path, body string, opts ...reqOpt) *http.Response {
	ta.t.Helper()

	var bodyR io.Reader
	if body != "" {
		bodyR = strings.NewReader(body)
	}
	req := httptest.NewRequestWithContext(ta.t.Context(), method, path, bodyR)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	ta.handler.ServeHTTP(rec, req)

	return rec.Result()
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(body)
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &v))

	return v
}

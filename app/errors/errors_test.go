package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructuredError(t *testing.T) {
	t.Parallel()

	cause := errors.New("database is locked")
	err := NewRuntimeError("failed adding user", cause, "retry later")

	assert.Equal(t, "failed adding user", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Cause())
	assert.Equal(t, map[string]any{"hint": "retry later"}, err.Metadata())

	merged := With(err, "user.email", "jane@example.com")
	assert.Equal(t, map[string]any{
		"hint": "retry later", "user.email": "jane@example.com",
	}, merged.Metadata())
	assert.Equal(t, cause, merged.Cause())

	plain := errors.New("listen tcp: address already in use")
	withAddr := With(plain, "address", ":5000")
	assert.Equal(t, plain.Error(), withAddr.Error())
	assert.ErrorIs(t, withAddr, plain)
	assert.Nil(t, withAddr.Cause())
	assert.Equal(t, map[string]any{"address": ":5000"}, withAddr.Metadata())

	newCause := errors.New("disk full")
	recaused := WithCause(merged, newCause, "hint", "free some space")
	assert.Equal(t, "failed adding user", recaused.Error())
	assert.Equal(t, newCause, recaused.Cause())
	assert.Equal(t, map[string]any{
		"hint": "free some space", "user.email": "jane@example.com",
	}, recaused.Metadata())

	assert.Panics(t, func() { With(plain, "odd") })
	assert.Panics(t, func() { With(plain, 1, "one") })

	noHint := NewRuntimeError("failed listing courses", nil, "")
	assert.Empty(t, noHint.Metadata())
	assert.Nil(t, noHint.Cause())
}

func TestLog(t *testing.T) { //nolint:paralleltest // Modifies the default logger.
	var buf bytes.Buffer
	defLogger := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(defLogger) })

	Log(NewWithCause("failed removing user", errors.New("user not found"),
		"user.email", "jane@example.com"))
	out := buf.String()
	assert.Contains(t, out, `msg="failed removing user"`)
	assert.Contains(t, out, `cause="user not found"`)
	assert.Contains(t, out, "user.email=jane@example.com")

	buf.Reset()
	Log(errors.New("plain error"))
	assert.Contains(t, buf.String(), `msg="plain error"`)
}

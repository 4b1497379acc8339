package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"go.hackfix.me/courseapi/web/server/api/util"
	"go.hackfix.me/courseapi/web/server/types"
)

// Recover handles panics raised by downstream handlers, and responds with a
// server error. If logErrors is true, the panic value and stack trace are
// logged.
func Recover(logger *slog.Logger, logErrors bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				if logErrors {
					logger.Error("unhandled error",
						"method", r.Method, "path", r.URL.Path,
						"error", fmt.Sprint(rec), "stack", string(debug.Stack()))
				}

				terr := types.NewError(http.StatusInternalServerError, fmt.Sprint(rec))
				terr.Detail = &types.ErrorDetail{}
				_ = util.WriteJSON(w, terr.StatusCode, terr)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

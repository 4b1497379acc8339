package middleware

import (
	"net/http"

	"go.hackfix.me/courseapi/web/server/api/util"
	"go.hackfix.me/courseapi/web/server/types"
)

// RouteNotFoundMsg is the message returned for requests that don't match any
// route.
const RouteNotFoundMsg = "Route Not Found"

// RouteNotFound wraps mux so that requests that don't match any of its
// patterns, either by path or by method, get a JSON 404 response instead of
// the default plain text one.
func RouteNotFound(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, pattern := mux.Handler(r); pattern == "" {
			_ = util.WriteJSON(w, http.StatusNotFound, types.NewError(http.StatusNotFound, RouteNotFoundMsg))
			return
		}
		mux.ServeHTTP(w, r)
	})
}

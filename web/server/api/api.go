package api

import (
	"log/slog"
	"net/http"

	actx "go.hackfix.me/courseapi/app/context"
	"go.hackfix.me/courseapi/web/server/handler"
	"go.hackfix.me/courseapi/web/server/middleware"
)

// Handler is the API endpoint handler.
type Handler struct {
	appCtx *actx.Context
	logger *slog.Logger
}

// SetupHandlers configures the web API handlers under the /api path, and the
// root endpoint. Errors that result in a server error response are logged only
// if logErrors is true.
func SetupHandlers(appCtx *actx.Context, logger *slog.Logger, logErrors bool) http.Handler {
	h := Handler{appCtx: appCtx, logger: logger}
	mux := http.NewServeMux()

	errLogger := logger
	if !logErrors {
		errLogger = slog.New(slog.DiscardHandler)
	}

	public := handler.NewPipeline().Serialize(handler.JSON()).Logger(errLogger)
	authed := public.Clone().
		Auth(handler.BasicAuth(appCtx.DB)).
		ProcessResponse(handler.NoStore)

	mux.HandleFunc("GET /{$}", handler.Handle(h.RootGet, public))

	mux.HandleFunc("POST /api/users", handler.Handle(h.UsersPost, public))
	mux.HandleFunc("GET /api/users", handler.Handle(h.UsersGet, authed))

	publicCourse := public.Clone().ProcessRequest(h.loadCourse(CourseGetNotFoundMsg))
	authedCourse := authed.Clone().ProcessRequest(h.loadCourse(CourseNotFoundMsg))

	mux.HandleFunc("GET /api/courses", handler.Handle(h.CoursesGet, public))
	mux.HandleFunc("GET /api/courses/{id}", handler.Handle(h.CourseGet, publicCourse))
	mux.HandleFunc("POST /api/courses", handler.Handle(h.CoursesPost, authed))
	mux.HandleFunc("PUT /api/courses/{id}", handler.Handle(h.CoursePut, authedCourse))
	mux.HandleFunc("DELETE /api/courses/{id}", handler.Handle(h.CourseDelete, authedCourse))

	return middleware.RouteNotFound(mux)
}

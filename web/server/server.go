package server

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	actx "go.hackfix.me/courseapi/app/context"
	"go.hackfix.me/courseapi/web/server/api"
	"go.hackfix.me/courseapi/web/server/middleware"
)

// Server is a wrapper around http.Server with some custom behavior.
type Server struct {
	*http.Server
	logger *slog.Logger
	mx     sync.RWMutex
}

type options struct {
	errorLogging bool
	rateLimit    float64
	rateBurst    int
}

// Option configures the web server.
type Option func(*options)

// WithErrorLogging enables logging of unhandled errors and panics raised while
// serving requests.
func WithErrorLogging(enabled bool) Option {
	return func(o *options) {
		o.errorLogging = enabled
	}
}

// WithRateLimit limits the number of requests per second each client can make.
// A reqPerSec value of 0 disables rate limiting.
func WithRateLimit(reqPerSec float64, burst int) Option {
	return func(o *options) {
		o.rateLimit = reqPerSec
		o.rateBurst = burst
	}
}

// New returns a new web Server instance that will listen on addr.
func New(appCtx *actx.Context, addr string, opts ...Option) *Server {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := appCtx.Logger.With("component", "web-server")
	srv := &Server{
		Server: &http.Server{
			Handler:           setupHandlers(appCtx, logger, o),
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		logger: logger,
	}

	return srv
}

// ListenAndServe starts the HTTP server. It stores the actual listen address,
// which is convenient when the address is dynamically determined by the system
// (e.g. ':0').
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		//nolint:wrapcheck // This is fine.
		return err
	}

	s.mx.Lock()
	s.Addr = ln.Addr().String()
	s.mx.Unlock()
	s.logger.Info("started listener", "address", ln.Addr().String())

	//nolint:wrapcheck // This is fine.
	return s.Serve(ln)
}

// ListenAddr returns the address the server is listening on, or the configured
// address if it isn't listening yet.
func (s *Server) ListenAddr() string {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.Addr
}

// setupHandlers configures the server HTTP handlers.
func setupHandlers(appCtx *actx.Context, logger *slog.Logger, o options) http.Handler {
	chain := []any{
		middleware.Logger(logger),
		middleware.Recover(logger, o.errorLogging),
	}
	if o.rateLimit > 0 {
		chain = append(chain, middleware.RateLimit(o.rateLimit, o.rateBurst, appCtx.TimeNow))
	}
	chain = append(chain, api.SetupHandlers(appCtx, logger, o.errorLogging))

	return middleware.Chain(chain...)
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	actx "go.hackfix.me/courseapi/app/context"
	aerrors "go.hackfix.me/courseapi/app/errors"
	"go.hackfix.me/courseapi/web/server"
)

// shutdownTimeout is the time in-flight requests are given to complete when
// the server is shutting down.
const shutdownTimeout = 10 * time.Second

// Serve starts the web server.
type Serve struct {
	Host string `help:"Network interface address to listen on. Default: all interfaces."`
	Port uint16 `env:"PORT" help:"TCP port to listen on. Default: 5000."`
	//nolint:lll // Long struct tags are unavoidable.
	EnableGlobalErrorLogging bool    `env:"ENABLE_GLOBAL_ERROR_LOGGING" help:"Log unhandled errors and panics raised while serving requests."`
	RateLimit                float64 `help:"Maximum number of requests per second per client. 0 disables rate limiting."`
	RateBurst                int     `help:"Number of requests a client can make at once above the rate limit. Default: 10."`
}

// Run the serve command.
func (c *Serve) Run(appCtx *actx.Context) error {
	if appCtx.VersionInit == "" {
		appCtx.Logger.Info("database not initialized, initializing")
		if err := (&Init{}).Run(appCtx); err != nil {
			return err
		}
	}

	addr := net.JoinHostPort(c.Host, strconv.FormatUint(uint64(c.Port), 10))
	srv := server.New(appCtx, addr,
		server.WithErrorLogging(c.EnableGlobalErrorLogging),
		server.WithRateLimit(c.RateLimit, c.RateBurst),
	)

	// Gracefully shutdown the server if a process signal is received, or the
	// main context is done.
	// See https://dev.to/mokiat/proper-http-shutdown-in-go-3fji
	srvDone := make(chan error)
	go func() {
		srvErr := srv.ListenAndServe()
		slog.Debug("web server shutdown")
		srvDone <- srvErr
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case s := <-sigCh:
		slog.Debug("process received signal", "signal", s)
	case <-appCtx.Ctx.Done():
		slog.Debug("app context is done")
	case srvErr := <-srvDone:
		if srvErr != nil && !errors.Is(srvErr, http.ErrServerClosed) {
			return aerrors.NewWithCause("web server error", srvErr, "address", addr)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(appCtx.Ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return aerrors.With(fmt.Errorf("failed shutting down web server: %w", err), "address", addr)
	}

	return nil
}

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"reflect"

	"go.hackfix.me/courseapi/web/server/types"
)

// Handle creates an HTTP handler function that processes requests through a
// configurable pipeline. It supports generic request/response types and handles
// authentication, request/response processing, and error handling
// automatically.
//
// It relies on reflection to create the request and response values, and on
// passing values between components using the request context.
//
//nolint:gocognit // The complexity is a bit high, but refactoring this would hurt legibility.
func Handle[Req types.Request, Resp types.Response](
	handlerFn func(context.Context, Req) (Resp, error),
	p *Pipeline,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			ctx = r.Context()
			req = createInstance[Req]()
			err error
		)
		// The response is replaced by the one returned by the handler, if any.
		var resp types.Response = createInstance[Resp]()

		req.SetHTTPRequest(r)

		handleErr := func(err error) bool {
			return errorHandler(resp, p.logger, r)(err)
		}

		// Response handling is deferred, since it should happen in both success and
		// error scenarios.
		defer func() {
			// Nothing is written if the handler panicked, so that the panic can be
			// recovered from and responded to upstream.
			if rec := recover(); rec != nil {
				panic(rec)
			}

			// Allow response handlers to modify headers.
			resp.SetHeader(w.Header())

			// 6. Response serialization (optional)
			if p.serializer != nil {
				if ctx, err = p.serializer.Serialize(ctx, resp); handleErr(err) {
					// Serialize the error instead.
					ctx, _ = p.serializer.Serialize(ctx, resp)
				}
			}

			// 7. Response processing
			for _, process := range p.responseProcessors {
				ctx, err = process(ctx, resp)
				if handleErr(err) {
					break
				}
			}

			// 8. Write the response
			if err = writeResponse(ctx, w, resp); err != nil {
				p.logger.Error("failed writing response", "error", err.Error())
			}
		}()

		// 1. Authentication (optional)
		if p.auth != nil {
			if ctx, err = p.auth(ctx, req); handleErr(err) {
				return
			}
		}

		// 2. Request deserialization (optional)
		if p.serializer != nil {
			if ctx, err = p.serializer.Deserialize(ctx, req); handleErr(err) {
				return
			}
		}

		// 3. Request validation (optional)
		if reqV, ok := any(req).(interface{ Validate() error }); ok {
			if err = reqV.Validate(); handleErr(err) {
				return
			}
		}

		// 4. Request processing
		for _, process := range p.requestProcessors {
			if ctx, err = process(ctx, req); handleErr(err) {
				return
			}
		}

		// 5. Run the handler
		handlerResp, handlerErr := handlerFn(ctx, req)
		if !isNilResponse(handlerResp) {
			resp = handlerResp
		}
		handleErr(handlerErr)
	}
}

// createInstance returns a new instance of type T.
//
//nolint:ireturn,nolintlint // Required for generic functionality.
func createInstance[T any]() T {
	var zero T
	tType := reflect.TypeOf(zero)

	if tType == nil {
		panic("cannot create instance of nil interface type")
	}

	switch tType.Kind() {
	case reflect.Ptr:
		// Create new instance of the underlying type
		return reflect.New(tType.Elem()).Interface().(T) //nolint:errcheck,forcetypeassert // It's fine.
	case reflect.Interface:
		panic("cannot create instance of interface type - need concrete type")
	default:
		// For value types, return zero value directly
		return zero
	}
}

func isNilResponse(resp types.Response) bool {
	if resp == nil {
		return true
	}
	v := reflect.ValueOf(resp)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// errorHandler returns a function that sets err as an HTTP error on resp. Any
// error that isn't already an HTTP error is treated as a server error. Server
// errors are logged, and rendered with an empty "error" object.
func errorHandler(resp types.Response, logger *slog.Logger, r *http.Request) func(error) bool {
	return func(err error) bool {
		if err == nil {
			return false
		}

		// Ensure that response handlers have a valid HTTP error and status code.
		var (
			terr       *types.Error
			statusCode = http.StatusInternalServerError
		)
		switch {
		case !errors.As(err, &terr) || terr == nil:
			terr = types.NewError(statusCode, err.Error())
		case terr.StatusCode == 0:
			terr.StatusCode = statusCode
		default:
			statusCode = terr.StatusCode
		}

		if statusCode >= http.StatusInternalServerError {
			terr.Detail = &types.ErrorDetail{}
			logger.Error("request failed",
				"method", r.Method, "path", r.URL.Path, "error", err.Error())
		}

		resp.SetStatusCode(statusCode)
		resp.SetError(terr)
		return true
	}
}

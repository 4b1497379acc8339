package handler

import (
	"context"
	"net/http"

	"go.hackfix.me/courseapi/web/server/types"
)

// ResponseProcessor processes outgoing responses and can modify the response or context.
type ResponseProcessor func(ctx context.Context, resp types.Response) (context.Context, error)

// NoStore marks the response as not cacheable. Responses to authenticated
// requests contain user data, and shouldn't be stored by intermediaries.
func NoStore(ctx context.Context, resp types.Response) (context.Context, error) {
	resp.GetHeader().Set("Cache-Control", "no-store")
	return ctx, nil
}

func writeResponse(ctx context.Context, w http.ResponseWriter, resp types.Response) error {
	data := getResponseData(ctx)

	w.WriteHeader(resp.GetStatusCode())
	if len(data) == 0 {
		return nil
	}
	_, err := w.Write(data)

	return err //nolint:wrapcheck // Wrapped by caller.
}

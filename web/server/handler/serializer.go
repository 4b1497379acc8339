package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"go.hackfix.me/courseapi/web/server/types"
)

const maxBodyReadSize = 1024 * 1024 // 1MiB

// BodyTooLargeMsg is returned for request bodies larger than 1MiB.
const BodyTooLargeMsg = "Request body too large"

// Serializer is the interface for deserializing the raw request body data into
// the typed request value, and for serializing the typed response value into
// the raw response data.
type Serializer interface {
	Deserialize(ctx context.Context, req types.Request) (context.Context, error)
	Serialize(ctx context.Context, resp types.Response) (context.Context, error)
}

// JSONSerializer implements JSON request and response serialization.
// URL-encoded form request bodies are also accepted, and decoded as if they
// were a JSON object of string values.
type JSONSerializer struct{}

var _ Serializer = (*JSONSerializer)(nil)

// JSON returns a new JSON serializer.
func JSON() JSONSerializer {
	return JSONSerializer{}
}

// Deserialize decodes the request body into the request object. An empty body
// is treated as an empty object. Bodies larger than 1MiB are rejected.
func (JSONSerializer) Deserialize(ctx context.Context, req types.Request) (context.Context, error) {
	httpReq := req.GetHTTPRequest()
	if httpReq.Body == nil || httpReq.Body == http.NoBody {
		return ctx, nil
	}

	body, err := io.ReadAll(io.LimitReader(httpReq.Body, maxBodyReadSize+1))
	if err != nil {
		return ctx, types.NewError(http.StatusBadRequest,
			fmt.Sprintf("failed reading request body: %s", err))
	}
	if len(body) > maxBodyReadSize {
		return ctx, types.NewError(http.StatusRequestEntityTooLarge, BodyTooLargeMsg)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return ctx, nil
	}

	mediaType, _, _ := mime.ParseMediaType(httpReq.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if body, err = formToJSON(body); err != nil {
			return ctx, types.NewError(http.StatusBadRequest, err.Error())
		}
	}

	if err = json.Unmarshal(body, req); err != nil {
		return ctx, types.NewError(http.StatusBadRequest,
			fmt.Sprintf("failed decoding request body: %s", err))
	}

	return ctx, nil
}

// Serialize encodes the response error or data as JSON and stores it in the
// context for writing. It sets the appropriate Content-Type header if there is
// a body to write.
func (JSONSerializer) Serialize(ctx context.Context, resp types.Response) (context.Context, error) {
	var body any
	if err := resp.GetError(); err != nil {
		body = err
	} else {
		body = resp.GetData()
	}

	if body == nil {
		return setResponseData(ctx, nil), nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return ctx, fmt.Errorf("failed marshalling response into JSON: %w", err)
	}

	ctx = setResponseData(ctx, data)

	resp.GetHeader().Set("Content-Type", "application/json; charset=utf-8")

	return ctx, nil
}

// formToJSON converts URL-encoded form data into a JSON object. Only the first
// value of each key is used.
func formToJSON(body []byte) ([]byte, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("failed decoding form data: %w", err)
	}

	obj := make(map[string]string, len(values))
	for k := range values {
		obj[k] = values.Get(k)
	}

	return json.Marshal(obj) //nolint:wrapcheck // Marshalling a map of strings can't fail.
}

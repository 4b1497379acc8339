package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	aerrors "go.hackfix.me/courseapi/app/errors"
	stypes "go.hackfix.me/courseapi/web/server/types"
)

// Client is a friendly interface over the course HTTP API.
type Client struct {
	*http.Client
	address  string
	email    string
	password string
	logger   *slog.Logger
}

// New returns a new client for the API listening on address, in host:port
// format.
func New(address string, logger *slog.Logger) *Client {
	return &Client{
		Client: &http.Client{
			Timeout: time.Minute,
		},
		address: address,
		logger:  logger.With("component", "web-client"),
	}
}

// WithCredentials returns a copy of the client that authenticates requests
// with the given email address and password.
func (c *Client) WithCredentials(email, password string) *Client {
	nc := *c
	nc.email = email
	nc.password = password
	return &nc
}

// do sends a request to the API, and decodes the JSON response body into
// respData, if it's not nil. A response with a status code other than
// expStatus is returned as an error, with the API error as the cause.
func (c *Client) do(
	ctx context.Context, method, path string, reqData, respData any, expStatus int,
) (_ http.Header, rerr error) {
	url := &url.URL{Scheme: "http", Host: c.address, Path: path}
	errFields := []any{"url", url.String(), "method", method}

	var body io.Reader
	if reqData != nil {
		reqDataJSON, err := json.Marshal(reqData)
		if err != nil {
			return nil, aerrors.NewWithCause("failed marshalling request data", err, errFields...)
		}
		body = bytes.NewReader(reqDataJSON)
	}

	req, err := http.NewRequestWithContext(ctx, method, url.String(), body)
	if err != nil {
		return nil, aerrors.NewWithCause("failed creating request", err, errFields...)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.email != "" {
		req.SetBasicAuth(c.email, c.password)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, aerrors.NewWithCause("failed sending request", err, errFields...)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			rerr = errors.Join(rerr, fmt.Errorf("failed closing response body: %w", err))
		}
	}()
	errFields = append(errFields, "status_code", resp.StatusCode, "request_id", resp.Header.Get("X-Request-Id"))
	c.logger.Debug("received response", errFields...)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, aerrors.NewWithCause("failed reading response body", err, errFields...)
	}

	if resp.StatusCode != expStatus {
		apiErr := &stypes.Error{StatusCode: resp.StatusCode, Message: resp.Status}
		if len(respBody) > 0 {
			_ = json.Unmarshal(respBody, apiErr)
		}
		return nil, aerrors.NewWithCause("request failed", apiErr, errFields...)
	}

	if respData != nil {
		if err = json.Unmarshal(respBody, respData); err != nil {
			return nil, aerrors.NewWithCause("failed unmarshalling response body", err, errFields...)
		}
	}

	return resp.Header, nil
}

package types

import "net/http"

// Response defines the interface for HTTP response wrappers.
type Response interface {
	GetStatusCode() int
	SetStatusCode(int)
	GetError() error
	SetError(error)
	GetHeader() http.Header
	SetHeader(http.Header)
	// GetData returns the value serialized as the response body. A nil value
	// results in an empty body.
	GetData() any
}

// BaseResponse provides a base implementation of Response without a body.
type BaseResponse struct {
	statusCode int
	err        error
	header     http.Header
}

var _ Response = (*BaseResponse)(nil)

// NewBaseResponse returns a new response with the specified status code and
// optional error.
func NewBaseResponse(statusCode int, err error) BaseResponse {
	return BaseResponse{statusCode: statusCode, err: err}
}

// GetStatusCode returns the HTTP status code for the response.
func (r *BaseResponse) GetStatusCode() int {
	if r.statusCode == 0 {
		return http.StatusOK
	}
	return r.statusCode
}

// SetStatusCode sets the HTTP status code for the response.
func (r *BaseResponse) SetStatusCode(code int) {
	r.statusCode = code
}

// GetError returns the response error, if any.
func (r *BaseResponse) GetError() error {
	return r.err
}

// SetError sets the response error.
func (r *BaseResponse) SetError(err error) {
	r.err = err
}

// GetHeader returns the response headers.
func (r *BaseResponse) GetHeader() http.Header {
	if r.header == nil {
		r.header = http.Header{}
	}
	return r.header
}

// SetHeader makes h the response header map, retaining any headers that were
// already set on the response.
func (r *BaseResponse) SetHeader(h http.Header) {
	for k, v := range r.header {
		h[k] = v
	}
	r.header = h
}

// GetData returns nil, since the base response has no body.
func (r *BaseResponse) GetData() any {
	return nil
}

// CreatedResponse is returned after a resource was created. It has an empty
// body, and points to the new resource with the Location header.
type CreatedResponse struct {
	BaseResponse
}

// NewCreatedResponse creates a new CreatedResponse with HTTP 201 status.
func NewCreatedResponse(location string) *CreatedResponse {
	resp := &CreatedResponse{BaseResponse: NewBaseResponse(http.StatusCreated, nil)}
	resp.GetHeader().Set("Location", location)
	return resp
}

// NoContentResponse is returned after a resource was updated or deleted.
type NoContentResponse struct {
	BaseResponse
}

// NewNoContentResponse creates a new NoContentResponse with HTTP 204 status.
func NewNoContentResponse() *NoContentResponse {
	return &NoContentResponse{BaseResponse: NewBaseResponse(http.StatusNoContent, nil)}
}

// MessageResponse is a response with a single informational message.
type MessageResponse struct {
	BaseResponse
	Message string `json:"message"`
}

// NewMessageResponse creates a new MessageResponse with HTTP 200 status.
func NewMessageResponse(msg string) *MessageResponse {
	return &MessageResponse{
		BaseResponse: NewBaseResponse(http.StatusOK, nil),
		Message:      msg,
	}
}

// GetData returns the response itself.
func (r *MessageResponse) GetData() any {
	return r
}

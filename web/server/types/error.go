package types

// Error represents an HTTP error with status code and message.
type Error struct {
	StatusCode int          `json:"-"`
	Message    string       `json:"message"`
	Detail     *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail is rendered as an empty object on server errors, so that clients
// can distinguish them from client errors by shape alone.
type ErrorDetail struct{}

// Error returns the error message string.
func (e Error) Error() string {
	return e.Message
}

// NewError creates a new Error with the specified status code and message.
func NewError(statusCode int, message string) *Error {
	return &Error{
		StatusCode: statusCode,
		Message:    message,
	}
}

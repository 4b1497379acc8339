package util

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response to the HTTP response writer.
// It sets the Content-Type header and the HTTP status code.
func WriteJSON(w http.ResponseWriter, statusCode int, resp any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	return json.NewEncoder(w).Encode(resp) //nolint:wrapcheck // Wrapped by caller.
}

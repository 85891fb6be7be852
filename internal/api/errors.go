package api

import (
	"fmt"
	"net/http"
)

// Error is returned for any non-2xx response.
type Error struct {
	StatusCode int
	RequestID  string
	Payload    ErrorPayload
	Body       []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// Unauthorized reports whether the server refused the credential.
func (e *Error) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

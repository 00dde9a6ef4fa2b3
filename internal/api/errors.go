package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrTransport wraps failures that happened before any HTTP response was
// received (DNS, connection refused, timeouts, cancelled contexts).
var ErrTransport = errors.New("upstream unreachable")

// Error is a non-2xx response.  Message is the server-supplied "error"
// field when present.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

func decodeError(resp *http.Response, method, path string) error {
	e := &Error{Method: method, Path: path, Status: resp.StatusCode}

	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(b, &body) == nil {
		e.Message = strings.TrimSpace(body.Error)
		if e.Message == "" {
			e.Message = strings.TrimSpace(body.Message)
		}
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
	}
	return e
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/vacation-portal/internal/api"
)

// ErrMissingCredentials is returned when a login is submitted without an
// identifier or password.  No request is sent and the session is untouched.
var ErrMissingCredentials = errors.New("username/email and password required")

// ValidationError is a client-side form check failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// Message converts err into the text shown in the error banner.  fallback
// is used for failures that carry no user-facing text.
func Message(err error, fallback string) string {
	var (
		verr   *ValidationError
		apiErr *api.Error
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Message
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, ErrMissingCredentials):
		return "Please enter your username/email and password"
	case errors.Is(err, context.Canceled):
		return "Request cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "The server took too long to respond"
	case errors.Is(err, api.ErrTransport):
		return "Unable to reach the server"
	}
	return fallback
}

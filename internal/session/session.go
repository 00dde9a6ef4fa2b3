// Package session holds the process-wide authentication state: who is
// logged in, whether a login is in flight, and the last auth error.
//
// State changes are expressed as events folded by Reduce.  Store wraps the
// reducer with locking, optional durable persistence of the principal and
// change notifications.
package session

import (
	"fmt"
	"strings"

	"github.com/iliyamo/vacation-portal/internal/model"
)

// Status is the position in the login state machine:
//
//	Anonymous → Authenticating → Authenticated
//	Authenticating → Anonymous (failure)
//	Authenticated → Anonymous (logout)
type Status string

const (
	StatusAnonymous      Status = "anonymous"
	StatusAuthenticating Status = "authenticating"
	StatusAuthenticated  Status = "authenticated"
)

// Persistence selects how a session survives a restart.
type Persistence string

const (
	// PersistenceCookie keeps no client copy; the upstream session cookie
	// held by the HTTP client is the only record.
	PersistenceCookie Persistence = "cookie"
	// PersistenceLocalEcho writes the principal to durable storage on
	// login and reads it back at startup.
	PersistenceLocalEcho Persistence = "localEcho"
)

// ParsePersistence accepts "cookie" or "localEcho", case-insensitively.
func ParsePersistence(s string) (Persistence, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cookie":
		return PersistenceCookie, nil
	case "localecho", "local_echo", "local-echo":
		return PersistenceLocalEcho, nil
	}
	return "", fmt.Errorf("unknown session persistence %q (want cookie or localEcho)", s)
}

// Session is a snapshot of the authentication state.  Principal is a copy;
// mutating it never affects the store.
type Session struct {
	Status        Status           `json:"status"`
	Principal     *model.Principal `json:"user"`
	Authenticated bool             `json:"isAuthenticated"`
	Loading       bool             `json:"isLoading"`
	Error         string           `json:"error,omitempty"`
}

// Anonymous is the zero session.
func Anonymous() Session {
	return Session{Status: StatusAnonymous}
}

// Role returns the principal's role, or "" when nobody is logged in.
func (s Session) Role() model.Role {
	if s.Principal == nil {
		return ""
	}
	return s.Principal.Role()
}

func (s Session) clone() Session {
	if s.Principal != nil {
		p := *s.Principal
		s.Principal = &p
	}
	return s
}

// Event is an input to Reduce.
type Event interface{ event() }

// LoginStarted is dispatched when credentials are submitted.
type LoginStarted struct{}

// LoginSucceeded carries the principal resolved by login or registration.
type LoginSucceeded struct{ Principal model.Principal }

// LoginFailed carries a displayable failure message.
type LoginFailed struct{ Message string }

// LoggedOut clears the principal.  Message is non-empty when the remote
// logout call failed; the local session is cleared regardless.
type LoggedOut struct{ Message string }

// ErrorCleared drops the recorded error.
type ErrorCleared struct{}

func (LoginStarted) event()   {}
func (LoginSucceeded) event() {}
func (LoginFailed) event()    {}
func (LoggedOut) event()      {}
func (ErrorCleared) event()   {}

// Reduce returns the session that results from applying ev to s.  It never
// mutates s.  Unknown events return s unchanged.
func Reduce(s Session, ev Event) Session {
	s = s.clone()
	switch e := ev.(type) {
	case LoginStarted:
		s.Status = StatusAuthenticating
		s.Authenticated = false
		s.Loading = true
		s.Error = ""
	case LoginSucceeded:
		p := e.Principal
		s.Status = StatusAuthenticated
		s.Principal = &p
		s.Authenticated = true
		s.Loading = false
		s.Error = ""
	case LoginFailed:
		s = Session{Status: StatusAnonymous, Error: e.Message}
	case LoggedOut:
		s = Session{Status: StatusAnonymous, Error: e.Message}
	case ErrorCleared:
		s.Error = ""
	}
	return s
}

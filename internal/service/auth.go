// Package service implements the portal's use cases on top of the session
// store and the upstream API clients.
package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/iliyamo/vacation-portal/internal/metrics"
	"github.com/iliyamo/vacation-portal/internal/model"
	"github.com/iliyamo/vacation-portal/internal/queue"
	"github.com/iliyamo/vacation-portal/internal/session"
)

const minPasswordLength = 4

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Authenticator is the slice of the upstream API the auth flow needs.
type Authenticator interface {
	Login(ctx context.Context, creds model.Credentials) (model.Principal, error)
	Register(ctx context.Context, reg model.Registration) (model.Principal, error)
	Logout(ctx context.Context) error
}

// EventPublisher receives session lifecycle events.  Implementations may
// fail; failures never affect the session.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.SessionEvent) error
}

// AuthService drives the session store through login, registration and
// logout.  Every failure is recorded in the store as a displayable message
// and returned to the caller; none escapes as a panic.
type AuthService struct {
	store  *session.Store
	api    Authenticator
	stats  Authenticator
	events EventPublisher
	log    *slog.Logger
}

// NewAuthService wires an AuthService.  events may be nil.
func NewAuthService(store *session.Store, authn Authenticator, events EventPublisher, logger *slog.Logger) *AuthService {
	if store == nil || authn == nil {
		panic("nil dependency passed to NewAuthService")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{store: store, api: authn, events: events, log: logger.With("component", "auth")}
}

// WithStatistics makes s also sign administrators in to and out of the
// statistics API, which keeps a server-side session of its own.
func (s *AuthService) WithStatistics(stats Authenticator) *AuthService {
	s.stats = stats
	return s
}

// Session returns the current session snapshot.
func (s *AuthService) Session() session.Session { return s.store.Snapshot() }

// Login authenticates creds.  Empty fields make it a no-op returning
// ErrMissingCredentials.  On success the principal is committed (and
// persisted in localEcho mode).
func (s *AuthService) Login(ctx context.Context, creds model.Credentials) (session.Session, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	creds.Username = strings.TrimSpace(creds.Username)
	if !s.store.BeginLogin(creds) {
		return s.store.Snapshot(), ErrMissingCredentials
	}

	p, err := s.api.Login(ctx, creds)
	if err != nil {
		msg := Message(err, "Login failed")
		s.store.FailLogin(msg)
		metrics.LoginTotal.WithLabelValues("login", "failure").Inc()
		s.log.InfoContext(ctx, "login failed", "identifier", creds.Identifier(), "error", err)
		s.publish(ctx, queue.NewSessionEvent(queue.EventLoginFailed, nil, msg))
		return s.store.Snapshot(), err
	}

	s.store.CompleteLogin(ctx, p)
	metrics.LoginTotal.WithLabelValues("login", "success").Inc()
	s.log.InfoContext(ctx, "login succeeded", "user_id", p.ID, "role", p.Role())
	s.publish(ctx, queue.NewSessionEvent(queue.EventLoginSucceeded, &p, ""))
	if p.Role() == model.RoleAdministrator {
		s.statsLogin(ctx, creds)
	}
	return s.store.Snapshot(), nil
}

// Register creates an account and logs the new principal in.  Required
// fields are checked before any request is sent.
func (s *AuthService) Register(ctx context.Context, reg model.Registration) (session.Session, error) {
	reg.FirstName = strings.TrimSpace(reg.FirstName)
	reg.LastName = strings.TrimSpace(reg.LastName)
	reg.Email = strings.TrimSpace(reg.Email)
	if err := validateRegistration(reg); err != nil {
		return s.store.Snapshot(), err
	}
	if !s.store.BeginLogin(model.Credentials{Email: reg.Email, Password: reg.Password}) {
		return s.store.Snapshot(), ErrMissingCredentials
	}

	p, err := s.api.Register(ctx, reg)
	if err != nil {
		msg := Message(err, "Registration failed")
		s.store.FailLogin(msg)
		metrics.LoginTotal.WithLabelValues("register", "failure").Inc()
		s.log.InfoContext(ctx, "registration failed", "email", reg.Email, "error", err)
		s.publish(ctx, queue.NewSessionEvent(queue.EventRegisterFailed, nil, msg))
		return s.store.Snapshot(), err
	}

	s.store.CompleteLogin(ctx, p)
	metrics.LoginTotal.WithLabelValues("register", "success").Inc()
	s.log.InfoContext(ctx, "registration succeeded", "user_id", p.ID)
	s.publish(ctx, queue.NewSessionEvent(queue.EventRegistered, &p, ""))
	return s.store.Snapshot(), nil
}

// Logout ends the session.  The remote call is attempted first; whatever
// its outcome, the local session is cleared and persisted state evicted,
// so Logout itself never fails.
func (s *AuthService) Logout(ctx context.Context) session.Session {
	before := s.store.Snapshot().Principal

	msg := ""
	remote := "ok"
	if err := s.api.Logout(ctx); err != nil {
		msg = Message(err, "Logout failed")
		remote = "error"
		s.log.WarnContext(ctx, "remote logout failed, clearing local session anyway", "error", err)
	}
	if s.stats != nil && before != nil && before.Role() == model.RoleAdministrator {
		if err := s.stats.Logout(ctx); err != nil {
			s.log.WarnContext(ctx, "statistics logout failed", "error", err)
		}
	}
	s.store.Logout(ctx, msg)
	metrics.LogoutTotal.WithLabelValues(remote).Inc()
	s.publish(ctx, queue.NewSessionEvent(queue.EventLoggedOut, before, msg))
	return s.store.Snapshot()
}

// ClearError drops the recorded auth error.
func (s *AuthService) ClearError() session.Session {
	s.store.ClearError()
	return s.store.Snapshot()
}

// statsLogin opens the statistics API session with the same credentials.
// A failure leaves the portal session in place; the dashboard then reports
// the statistics API's own error.
func (s *AuthService) statsLogin(ctx context.Context, creds model.Credentials) {
	if s.stats == nil {
		return
	}
	if _, err := s.stats.Login(ctx, creds); err != nil {
		metrics.LoginTotal.WithLabelValues("statistics", "failure").Inc()
		s.log.WarnContext(ctx, "statistics login failed", "identifier", creds.Identifier(), "error", err)
		return
	}
	metrics.LoginTotal.WithLabelValues("statistics", "success").Inc()
}

// publish emits ev detached from the request so a cancelled request does
// not drop the audit trail.
func (s *AuthService) publish(ctx context.Context, ev queue.SessionEvent) {
	if s.events == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	_ = s.events.Publish(pctx, ev)
}

func validateRegistration(reg model.Registration) error {
	switch {
	case reg.FirstName == "":
		return invalid("firstName", "First name is mandatory")
	case reg.LastName == "":
		return invalid("lastName", "Last name is mandatory")
	case reg.Email == "":
		return invalid("email", "Email is mandatory")
	case reg.Password == "":
		return invalid("password", "Password is mandatory")
	case !emailPattern.MatchString(reg.Email):
		return invalid("email", "Invalid email format")
	case len(reg.Password) < minPasswordLength:
		return invalid("password", "Password must be at least 4 characters")
	}
	return nil
}

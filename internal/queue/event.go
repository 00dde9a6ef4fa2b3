// Package queue defines the session lifecycle events exchanged over the
// message broker, the publisher the portal uses to emit them and the audit
// consumer that records them.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/vacation-portal/internal/model"
)

// SessionQueueName is the durable queue session events are routed to.
const SessionQueueName = "session.events"

// EventType names a session transition.
type EventType string

const (
	EventLoginSucceeded EventType = "login_succeeded"
	EventLoginFailed    EventType = "login_failed"
	EventRegistered     EventType = "registered"
	EventRegisterFailed EventType = "register_failed"
	EventLoggedOut      EventType = "logged_out"
)

// SessionEvent is published after every committed session transition.  It
// never carries a password.
type SessionEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	UserID     int64     `json:"user_id,omitempty"`
	Email      string    `json:"email,omitempty"`
	Role       string    `json:"role,omitempty"`
	Message    string    `json:"message,omitempty"`
	OccurredAt string    `json:"occurred_at"`
}

// NewSessionEvent stamps an event with a fresh id and the current time.
// p may be nil for failed logins.
func NewSessionEvent(typ EventType, p *model.Principal, message string) SessionEvent {
	ev := SessionEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		Message:    message,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if p != nil {
		ev.UserID = p.ID
		ev.Email = p.Email
		ev.Role = string(p.Role())
	}
	return ev
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iliyamo/vacation-portal/internal/model"
)

// DefaultKey is the storage key the principal is persisted under.
const DefaultKey = "auth_user"

// Options configures a Store.
type Options struct {
	Persistence Persistence
	// Storage is required for PersistenceLocalEcho and ignored otherwise.
	Storage Storage
	// Key defaults to DefaultKey.
	Key    string
	Logger *slog.Logger
}

// Store is the single source of truth for who is logged in.  All methods
// are safe for concurrent use.  Events are applied in the order they reach
// the store, so when two logins overlap the response applied last wins.
type Store struct {
	persistence Persistence
	storage     Storage
	key         string
	log         *slog.Logger

	mu     sync.Mutex
	state  Session
	subs   map[uint64]func(Session)
	nextID uint64
}

// NewStore builds a Store.  With PersistenceLocalEcho the previously
// persisted principal, if any, is loaded before NewStore returns.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	if opts.Persistence == "" {
		opts.Persistence = PersistenceCookie
	}
	if opts.Persistence != PersistenceCookie && opts.Persistence != PersistenceLocalEcho {
		return nil, fmt.Errorf("unknown session persistence %q", opts.Persistence)
	}
	if opts.Persistence == PersistenceLocalEcho && opts.Storage == nil {
		return nil, fmt.Errorf("session persistence %s requires a storage backend", opts.Persistence)
	}
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Store{
		persistence: opts.Persistence,
		storage:     opts.Storage,
		key:         opts.Key,
		log:         opts.Logger.With("component", "session"),
		state:       Anonymous(),
		subs:        make(map[uint64]func(Session)),
	}
	if s.persistence == PersistenceLocalEcho {
		s.rehydrate(ctx)
	}
	return s, nil
}

// Persistence reports the configured persistence mode.
func (s *Store) Persistence() Persistence { return s.persistence }

// rehydrate restores a persisted principal.  Unreadable or corrupt records
// are logged and leave the session anonymous.
func (s *Store) rehydrate(ctx context.Context) {
	b, err := s.storage.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.WarnContext(ctx, "failed to load persisted session", "key", s.key, "error", err)
		}
		return
	}
	var p model.Principal
	if err := json.Unmarshal(b, &p); err != nil {
		s.log.WarnContext(ctx, "discarding corrupt persisted session", "key", s.key, "error", err)
		return
	}
	s.mu.Lock()
	s.state = Reduce(s.state, LoginSucceeded{Principal: p})
	s.mu.Unlock()
	s.log.InfoContext(ctx, "session restored", "user_id", p.ID, "role", p.Role())
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to be called with the new session after every
// state change.  fn runs on the goroutine that caused the change, after the
// store lock is released.  The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Session)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// BeginLogin moves to Authenticating and clears any previous error.  It is a
// no-op returning false when the identifier or password is empty.
func (s *Store) BeginLogin(creds model.Credentials) bool {
	if !creds.Complete() {
		return false
	}
	s.apply(LoginStarted{}, nil)
	return true
}

// CompleteLogin records principal as the logged-in user and, with
// PersistenceLocalEcho, writes it to storage.  A storage failure is logged;
// the in-memory session is still committed.
func (s *Store) CompleteLogin(ctx context.Context, principal model.Principal) {
	s.apply(LoginSucceeded{Principal: principal}, func() {
		b, err := json.Marshal(principal)
		if err == nil {
			err = s.storage.Save(ctx, s.key, b)
		}
		if err != nil {
			s.log.ErrorContext(ctx, "failed to persist session", "key", s.key, "error", err)
		}
	})
}

// FailLogin moves back to Anonymous and records message for display.
func (s *Store) FailLogin(message string) {
	s.apply(LoginFailed{Message: message}, nil)
}

// Logout clears the principal and evicts the persisted record.  It always
// succeeds locally; message, when non-empty, describes a failed remote
// logout and is kept as the session error.
func (s *Store) Logout(ctx context.Context, message string) {
	s.apply(LoggedOut{Message: message}, func() {
		if err := s.storage.Delete(ctx, s.key); err != nil {
			s.log.ErrorContext(ctx, "failed to evict persisted session", "key", s.key, "error", err)
		}
	})
}

// ClearError drops the recorded error without changing authentication.
func (s *Store) ClearError() {
	s.apply(ErrorCleared{}, nil)
}

// apply reduces ev into the state and notifies subscribers.  persist runs
// under the lock, so storage always reflects the last applied event, and is
// skipped unless persistence is PersistenceLocalEcho.
func (s *Store) apply(ev Event, persist func()) {
	s.mu.Lock()
	s.state = Reduce(s.state, ev)
	if persist != nil && s.persistence == PersistenceLocalEcho {
		persist()
	}
	snap := s.state.clone()
	subs := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap.clone())
	}
}

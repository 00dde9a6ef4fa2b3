package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/vacation-portal/internal/api"
	"github.com/iliyamo/vacation-portal/internal/guard"
	"github.com/iliyamo/vacation-portal/internal/model"
	"github.com/iliyamo/vacation-portal/internal/queue"
	"github.com/iliyamo/vacation-portal/internal/session"
)

var (
	errNotFound = &api.Error{Status: http.StatusNotFound, Message: "Vacation not found"}
	errNotLiked = &api.Error{Status: http.StatusBadRequest, Message: "User has not liked this vacation"}
)

func newLocalEchoStore(t *testing.T, dir string) (*session.Store, *session.FileStorage) {
	t.Helper()
	fs, err := session.NewFileStorage(dir)
	require.NoError(t, err)
	st, err := session.NewStore(context.Background(), session.Options{Persistence: session.PersistenceLocalEcho, Storage: fs})
	require.NoError(t, err)
	return st, fs
}

func TestAuthServiceLogin(t *testing.T) {
	t.Run("successful login commits and persists principal", func(t *testing.T) {
		dir := t.TempDir()
		st, _ := newLocalEchoStore(t, dir)
		authn := new(MockAuthenticator)
		pub := &recordingPublisher{}
		principal := model.Principal{ID: 1, RoleID: 1, Email: "a@b.com", FirstName: "Ada"}
		authn.On("Login", mock.Anything, model.Credentials{Email: "a@b.com", Password: "x"}).Return(principal, nil)

		svc := NewAuthService(st, authn, pub, nil)
		snap, err := svc.Login(context.Background(), model.Credentials{Email: " a@b.com ", Password: "x"})

		require.NoError(t, err)
		assert.Equal(t, session.StatusAuthenticated, snap.Status)
		assert.True(t, guard.CanEnter(snap))
		assert.True(t, guard.Can(snap.Principal, guard.ActionCreateVacation))
		assert.Equal(t, []queue.EventType{queue.EventLoginSucceeded}, pub.types())

		reloaded, _ := newLocalEchoStore(t, dir)
		require.NotNil(t, reloaded.Snapshot().Principal)
		assert.Equal(t, principal, *reloaded.Snapshot().Principal)
		authn.AssertExpectations(t)
	})

	t.Run("empty credentials are a no-op", func(t *testing.T) {
		st, err := session.NewStore(context.Background(), session.Options{})
		require.NoError(t, err)
		authn := new(MockAuthenticator)

		svc := NewAuthService(st, authn, nil, nil)
		snap, err := svc.Login(context.Background(), model.Credentials{Email: "a@b.com"})

		assert.ErrorIs(t, err, ErrMissingCredentials)
		assert.Equal(t, session.Anonymous(), snap)
		authn.AssertNotCalled(t, "Login")
	})

	t.Run("rejected login records server message", func(t *testing.T) {
		st, err := session.NewStore(context.Background(), session.Options{})
		require.NoError(t, err)
		authn := new(MockAuthenticator)
		pub := &recordingPublisher{err: errors.New("broker down")}
		authn.On("Login", mock.Anything, mock.Anything).
			Return(model.Principal{}, &api.Error{Status: http.StatusUnauthorized, Message: "Invalid email or password"})

		svc := NewAuthService(st, authn, pub, nil)
		snap, err := svc.Login(context.Background(), model.Credentials{Username: "admin", Password: "bad"})

		assert.Error(t, err)
		assert.Equal(t, session.StatusAnonymous, snap.Status)
		assert.Equal(t, "Invalid email or password", snap.Error)
		assert.False(t, guard.CanEnter(snap))
		assert.Equal(t, []queue.EventType{queue.EventLoginFailed}, pub.types())
	})

	t.Run("transport failure gets a readable message", func(t *testing.T) {
		st, err := session.NewStore(context.Background(), session.Options{})
		require.NoError(t, err)
		authn := new(MockAuthenticator)
		authn.On("Login", mock.Anything, mock.Anything).
			Return(model.Principal{}, fmt.Errorf("%w: dial tcp: refused", api.ErrTransport))

		snap, err := NewAuthService(st, authn, nil, nil).Login(context.Background(), model.Credentials{Email: "a@b.com", Password: "x"})
		assert.ErrorIs(t, err, api.ErrTransport)
		assert.Equal(t, "Unable to reach the server", snap.Error)
	})
}

func TestAuthServiceRegister(t *testing.T) {
	t.Run("registration logs the new user in", func(t *testing.T) {
		st, err := session.NewStore(context.Background(), session.Options{})
		require.NoError(t, err)
		authn := new(MockAuthenticator)
		pub := &recordingPublisher{}
		reg := model.Registration{FirstName: "Bob", LastName: "B", Email: "bob@b.com", Password: "secret"}
		authn.On("Register", mock.Anything, reg).Return(model.Principal{ID: 5, RoleID: 2, Email: "bob@b.com"}, nil)

		snap, err := NewAuthService(st, authn, pub, nil).Register(context.Background(), reg)
		require.NoError(t, err)
		assert.Equal(t, session.StatusAuthenticated, snap.Status)
		assert.Equal(t, model.RoleMember, snap.Role())
		assert.Equal(t, []queue.EventType{queue.EventRegistered}, pub.types())
	})

	t.Run("invalid form never reaches the API", func(t *testing.T) {
		st, err := session.NewStore(context.Background(), session.Options{})
		require.NoError(t, err)
		authn := new(MockAuthenticator)
		svc := NewAuthService(st, authn, nil, nil)

		cases := map[string]model.Registration{
			"First name is mandatory":                {LastName: "B", Email: "b@b.com", Password: "pass"},
			"Last name is mandatory":                 {FirstName: "A", Email: "b@b.com", Password: "pass"},
			"Email is mandatory":                     {FirstName: "A", LastName: "B", Password: "pass"},
			"Password is mandatory":                  {FirstName: "A", LastName: "B", Email: "b@b.com"},
			"Invalid email format":                   {FirstName: "A", LastName: "B", Email: "not-an-email", Password: "pass"},
			"Password must be at least 4 characters": {FirstName: "A", LastName: "B", Email: "b@b.com", Password: "abc"},
		}
		for want, reg := range cases {
			_, err := svc.Register(context.Background(), reg)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr, want)
			assert.Equal(t, want, verr.Message)
		}
		authn.AssertNotCalled(t, "Register")
		assert.Equal(t, session.StatusAnonymous, st.Snapshot().Status)
	})

	t.Run("duplicate email is recorded", func(t *testing.T) {
		st, err := session.NewStore(context.Background(), session.Options{})
		require.NoError(t, err)
		authn := new(MockAuthenticator)
		authn.On("Register", mock.Anything, mock.Anything).
			Return(model.Principal{}, &api.Error{Status: http.StatusBadRequest, Message: "Email already exists in the system"})

		pub := &recordingPublisher{}

		snap, err := NewAuthService(st, authn, pub, nil).Register(context.Background(),
			model.Registration{FirstName: "A", LastName: "B", Email: "a@b.com", Password: "pass"})
		assert.Error(t, err)
		assert.Equal(t, "Email already exists in the system", snap.Error)
		require.Len(t, pub.events, 1)
		assert.Equal(t, queue.EventRegisterFailed, pub.events[0].Type)
		assert.Equal(t, "Email already exists in the system", pub.events[0].Message)
	})
}

func TestAuthServiceLogout(t *testing.T) {
	for name, remoteErr := range map[string]error{
		"remote success": nil,
		"remote failure": &api.Error{Status: http.StatusInternalServerError, Message: "Logout failed"},
		"remote down":    fmt.Errorf("%w: timeout", api.ErrTransport),
	} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			st, fs := newLocalEchoStore(t, dir)
			st.CompleteLogin(context.Background(), model.Principal{ID: 1, RoleID: 1})

			authn := new(MockAuthenticator)
			authn.On("Logout", mock.Anything).Return(remoteErr)
			pub := &recordingPublisher{}

			snap := NewAuthService(st, authn, pub, nil).Logout(context.Background())

			assert.Equal(t, session.StatusAnonymous, snap.Status)
			assert.Nil(t, snap.Principal)
			assert.False(t, guard.CanEnter(snap))
			_, err := fs.Load(context.Background(), session.DefaultKey)
			assert.ErrorIs(t, err, session.ErrNotFound)
			if remoteErr != nil {
				assert.NotEmpty(t, snap.Error)
			} else {
				assert.Empty(t, snap.Error)
			}
			require.Len(t, pub.events, 1)
			assert.Equal(t, int64(1), pub.events[0].UserID)
		})
	}
}

func TestAuthServiceStatisticsSession(t *testing.T) {
	admin := model.Principal{ID: 1, RoleID: 1, Email: "admin@b.com"}
	member := model.Principal{ID: 2, RoleID: 2, Email: "max@b.com"}
	adminCreds := model.Credentials{Email: "admin@b.com", Password: "x"}
	memberCreds := model.Credentials{Email: "max@b.com", Password: "x"}

	t.Run("administrator signs in to and out of both APIs", func(t *testing.T) {
		st, err := session.NewStore(context.Background(), session.Options{})
		require.NoError(t, err)
		authn, stats := new(MockAuthenticator), new(MockAuthenticator)
		authn.On("Login", mock.Anything, adminCreds).Return(admin, nil)
		authn.On("Logout", mock.Anything).Return(nil)
		stats.On("Login", mock.Anything, adminCreds).Return(admin, nil)
		stats.On("Logout", mock.Anything).Return(nil)

		svc := NewAuthService(st, authn, nil, nil).WithStatistics(stats)
		_, err = svc.Login(context.Background(), adminCreds)
		require.NoError(t, err)
		svc.Logout(context.Background())

		authn.AssertExpectations(t)
		stats.AssertExpectations(t)
	})

	t.Run("member never reaches the statistics API", func(t *testing.T) {
		st, err := session.NewStore(context.Background(), session.Options{})
		require.NoError(t, err)
		authn, stats := new(MockAuthenticator), new(MockAuthenticator)
		authn.On("Login", mock.Anything, memberCreds).Return(member, nil)
		authn.On("Logout", mock.Anything).Return(nil)

		svc := NewAuthService(st, authn, nil, nil).WithStatistics(stats)
		_, err = svc.Login(context.Background(), memberCreds)
		require.NoError(t, err)
		svc.Logout(context.Background())

		stats.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
		stats.AssertNotCalled(t, "Logout", mock.Anything)
	})

	t.Run("statistics failures leave the portal session alone", func(t *testing.T) {
		st, err := session.NewStore(context.Background(), session.Options{})
		require.NoError(t, err)
		authn, stats := new(MockAuthenticator), new(MockAuthenticator)
		authn.On("Login", mock.Anything, adminCreds).Return(admin, nil)
		authn.On("Logout", mock.Anything).Return(nil)
		stats.On("Login", mock.Anything, adminCreds).
			Return(model.Principal{}, fmt.Errorf("%w: connection refused", api.ErrTransport))
		stats.On("Logout", mock.Anything).Return(&api.Error{Status: http.StatusUnauthorized, Message: "Authentication required"})

		svc := NewAuthService(st, authn, nil, nil).WithStatistics(stats)
		snap, err := svc.Login(context.Background(), adminCreds)
		require.NoError(t, err)
		assert.True(t, guard.CanEnter(snap))
		assert.Empty(t, snap.Error)

		snap = svc.Logout(context.Background())
		assert.Equal(t, session.StatusAnonymous, snap.Status)
		assert.Empty(t, snap.Error)
	})
}

func TestAuthServiceClearError(t *testing.T) {
	st, err := session.NewStore(context.Background(), session.Options{})
	require.NoError(t, err)
	st.FailLogin("Invalid email or password")

	snap := NewAuthService(st, new(MockAuthenticator), nil, nil).ClearError()
	assert.Empty(t, snap.Error)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil, "x"))
	assert.Equal(t, "Price must be between 0 and 10,000", Message(invalid("price", "Price must be between 0 and 10,000"), "x"))
	assert.Equal(t, "nope", Message(fmt.Errorf("wrapped: %w", &api.Error{Status: 400, Message: "nope"}), "x"))
	assert.Equal(t, "Request cancelled", Message(context.Canceled, "x"))
	assert.Equal(t, "fallback", Message(errors.New("internal"), "fallback"))
}

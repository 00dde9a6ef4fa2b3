package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-portal/internal/guard"
	"github.com/iliyamo/vacation-portal/internal/model"
	"github.com/iliyamo/vacation-portal/internal/service"
	"github.com/iliyamo/vacation-portal/internal/session"
)

// DefaultLanding is where a successful login sends the user.
const DefaultLanding = "/views/home"

// AuthHandler serves the login, signup and logout forms and exposes the
// session to the console.
type AuthHandler struct {
	Auth     *service.AuthService
	Sessions guard.Source
	Guard    guard.Guard
	Landing  string
}

func NewAuthHandler(auth *service.AuthService, sessions guard.Source, g guard.Guard) *AuthHandler {
	return &AuthHandler{Auth: auth, Sessions: sessions, Guard: g, Landing: DefaultLanding}
}

type sessionResp struct {
	Session  session.Session `json:"session"`
	Redirect string          `json:"redirect,omitempty"`
}

type errorResp struct {
	Error   string          `json:"error"`
	Session session.Session `json:"session"`
}

// Login submits the login form.  An already authenticated session is not
// re-submitted; the caller is sent straight to the landing view.  Any error
// left over from a previous attempt is cleared first.
func (h *AuthHandler) Login(c echo.Context) error {
	if cur := h.Auth.Session(); guard.CanEnter(cur) {
		return c.JSON(http.StatusOK, sessionResp{Session: cur, Redirect: h.Landing})
	}

	var creds model.Credentials
	if err := c.Bind(&creds); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	h.Auth.ClearError()

	snap, err := h.Auth.Login(c.Request().Context(), creds)
	if err != nil {
		return c.JSON(statusFor(err), errorResp{Error: service.Message(err, "Login failed"), Session: snap})
	}
	return c.JSON(http.StatusOK, sessionResp{Session: snap, Redirect: h.Landing})
}

// Signup registers a new member and logs them in.
func (h *AuthHandler) Signup(c echo.Context) error {
	var reg model.Registration
	if err := c.Bind(&reg); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	snap, err := h.Auth.Register(c.Request().Context(), reg)
	if err != nil {
		return c.JSON(statusFor(err), errorResp{Error: service.Message(err, "Registration failed"), Session: snap})
	}
	return c.JSON(http.StatusCreated, sessionResp{Session: snap, Redirect: h.Landing})
}

// Logout always succeeds locally.  A failed remote logout is reported in
// the session's error field.
func (h *AuthHandler) Logout(c echo.Context) error {
	snap := h.Auth.Logout(c.Request().Context())
	return c.JSON(http.StatusOK, sessionResp{Session: snap, Redirect: h.Guard.RedirectTo})
}

func (h *AuthHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Auth.Session())
}

func (h *AuthHandler) ClearError(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Auth.ClearError())
}

// Watch streams guard decisions for the view named by ?view= as
// server-sent events.  One event is sent on connect and one after every
// session change until the client goes away.
func (h *AuthHandler) Watch(c echo.Context) error {
	view := c.QueryParam("view")
	if view == "" {
		view = "home"
	}

	decisions := make(chan guard.Decision, 16)
	unmount := h.Guard.Watch(h.Sessions, view, func(d guard.Decision) {
		for {
			select {
			case decisions <- d:
				return
			default:
			}
			// slow reader: drop the oldest so the newest decision wins
			select {
			case <-decisions:
			default:
			}
		}
	})
	defer unmount()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case d := <-decisions:
			data, err := json.Marshal(d)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "event: decision\ndata: %s\n\n", data); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}

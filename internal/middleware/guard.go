package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-portal/internal/guard"
	"github.com/iliyamo/vacation-portal/internal/metrics"
)

// RequireSession protects view.  Browsers without a session are redirected
// with 303 See Other to the guard's anonymous view; API clients (Accept:
// application/json) get 401 with the redirect target in the body.  The
// decision is taken from the session at request time.
func RequireSession(src guard.Source, g guard.Guard, view string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := g.Decide(view, src.Snapshot())
			metrics.ObserveGuard(view, d.Allowed)
			if d.Allowed {
				return next(c)
			}
			if wantsJSON(c) {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error":    "Authentication required",
					"redirect": d.Redirect,
				})
			}
			return c.Redirect(http.StatusSeeOther, d.Redirect)
		}
	}
}

// RequireAction rejects requests whose principal may not perform action.
// It expects RequireSession to have run first; a missing principal is
// still answered with 401.
func RequireAction(src guard.Source, action guard.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := src.Snapshot()
			if !guard.CanEnter(s) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
			}
			if !guard.Can(s.Principal, action) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "You are not allowed to perform this action"})
			}
			return next(c)
		}
	}
}

func wantsJSON(c echo.Context) bool {
	accept := c.Request().Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, echo.MIMEApplicationJSON)
}

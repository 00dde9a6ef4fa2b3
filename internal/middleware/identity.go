package middleware

// identity.go exposes the current principal's id to the rest of the chain
// so the rate limiter can key on it.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-portal/internal/guard"
)

const userIDKey = "user_id"

// SessionIdentity stores the principal's id under "user_id" in the echo
// context, or "anon" when nobody is logged in.
func SessionIdentity(src guard.Source) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := "anon"
			if p := src.Snapshot().Principal; p != nil {
				id = strconv.FormatInt(p.ID, 10)
			}
			c.Set(userIDKey, id)
			return next(c)
		}
	}
}

func currentUserID(c echo.Context) string {
	if s, ok := c.Get(userIDKey).(string); ok && s != "" {
		return s
	}
	return "anon"
}

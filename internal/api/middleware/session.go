package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vamilabs/labrecords-api/internal/core/ports"
)

// SessionCookie is the name of the cookie carrying the opaque session token.
const SessionCookie = "lab_session"

// Session resolves the session cookie and injects the identity snapshot into
// the request context. Requests without a resolvable session are rejected
// with 401 before reaching any handler.
func Session(store ports.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "no session")
			}

			sess := store.Resolve(cookie.Value)
			if sess == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired or unknown")
			}

			c.Set("session_token", sess.Token)
			c.Set("user_id", sess.UserID)
			c.Set("username", sess.Username)
			c.Set("role", sess.Role)

			return next(c)
		}
	}
}

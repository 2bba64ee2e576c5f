package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/kotoba/store"
)

// Middleware resolves the acting user from the session cookie and stores it
// in the request context. Requests without a valid session pass through
// unauthenticated; handlers that require a user reject them with 401.
func Middleware(sessions *SessionManager, st *store.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			session := sessions.Get(cookie.Value)
			if session == nil {
				return next(c)
			}

			ctx := c.Request().Context()
			user, err := st.GetUser(ctx, &store.FindUser{ID: &session.UserID})
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "failed to load user")
			}
			if user == nil {
				// The account was removed while the session was live.
				sessions.Delete(session.Token)
				return next(c)
			}

			c.SetRequest(c.Request().WithContext(SetUserInContext(ctx, user)))
			return next(c)
		}
	}
}

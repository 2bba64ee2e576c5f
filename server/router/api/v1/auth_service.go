package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/kotoba/server/auth"
	"github.com/hrygo/kotoba/store"
)

type SignUpRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        int32  `json:"id"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	CreatedTs int64  `json:"createdTs"`
}

func convertUser(user *store.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Nickname:  user.Nickname,
		CreatedTs: user.CreatedTs,
	}
}

func (s *APIV1Service) SignUp(c echo.Context) error {
	ctx := c.Request().Context()

	request := &SignUpRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed signup request")
	}
	if request.Username == "" || request.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	existing, err := s.Store.GetUser(ctx, &store.FindUser{Username: &request.Username})
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "failed to check username")
	}
	if existing != nil {
		return echo.NewHTTPError(http.StatusConflict, "username already taken")
	}

	passwordHash, err := auth.HashPassword(request.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to hash password")
	}

	user, err := s.Store.CreateUser(ctx, &store.User{
		Username:     request.Username,
		Nickname:     request.Nickname,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "failed to create user")
	}

	s.setSessionCookie(c, user.ID)
	return c.JSON(http.StatusOK, convertUser(user))
}

func (s *APIV1Service) SignIn(c echo.Context) error {
	ctx := c.Request().Context()

	request := &SignInRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed signin request")
	}

	user, err := s.Store.GetUser(ctx, &store.FindUser{Username: &request.Username})
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "failed to load user")
	}
	// Same response for unknown username and wrong password.
	if user == nil || !auth.VerifyPassword(user.PasswordHash, request.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	s.setSessionCookie(c, user.ID)
	return c.JSON(http.StatusOK, convertUser(user))
}

func (s *APIV1Service) SignOut(c echo.Context) error {
	if cookie, err := c.Cookie(auth.SessionCookieName); err == nil {
		s.Sessions.Delete(cookie.Value)
	}
	c.SetCookie(&http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
	return c.NoContent(http.StatusOK)
}

func (s *APIV1Service) Me(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, convertUser(user))
}

func (s *APIV1Service) setSessionCookie(c echo.Context, userID int32) {
	session := s.Sessions.Create(userID)
	c.SetCookie(&http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !s.Profile.IsDev(),
	})
}

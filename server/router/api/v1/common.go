package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/kotoba/server/auth"
	"github.com/hrygo/kotoba/server/internal/apperrors"
	"github.com/hrygo/kotoba/store"
)

// requireUser returns the acting user, or an echo 401 error when the request
// carries no valid session.
func requireUser(c echo.Context) (*store.User, error) {
	user := auth.UserFromContext(c.Request().Context())
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return user, nil
}

// toHTTPError maps service error codes to HTTP responses. Plain errors map to
// 500 without leaking internals.
func toHTTPError(err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	switch appErr.Code {
	case apperrors.ErrCodeNotFound:
		return echo.NewHTTPError(http.StatusNotFound, appErr.Message)
	case apperrors.ErrCodeInvalidArgument:
		return echo.NewHTTPError(http.StatusBadRequest, appErr.Message)
	case apperrors.ErrCodeUnauthenticated:
		return echo.NewHTTPError(http.StatusUnauthorized, appErr.Message)
	case apperrors.ErrCodeAlreadyExists:
		return echo.NewHTTPError(http.StatusConflict, appErr.Message)
	case apperrors.ErrCodeUnavailable:
		return echo.NewHTTPError(http.StatusServiceUnavailable, appErr.Message)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

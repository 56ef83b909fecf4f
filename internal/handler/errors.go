package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/scoped-auth/internal/logging"
	"github.com/iliyamo/scoped-auth/internal/middleware"
	"github.com/iliyamo/scoped-auth/internal/service"
)

// writeError maps a service error to exactly one status code. Unrecognised
// errors are logged and reported as a generic 500.
func writeError(c echo.Context, log logging.Logger, err error) error {
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already registered"})
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthenticated):
		return middleware.Unauthorized(c, service.ErrUnauthenticated.Error())
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": service.ErrForbidden.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": service.ErrNotFound.Error()})
	default:
		log.Error(c.Request().Context(), "request failed",
			"err", err,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}

// writeLoginError is writeError with the login wording for 401: the client
// learns only that the email/password pair was not accepted.
func writeLoginError(c echo.Context, log logging.Logger, err error) error {
	if errors.Is(err, service.ErrUnauthenticated) {
		return middleware.Unauthorized(c, "incorrect email or password")
	}
	return writeError(c, log, err)
}

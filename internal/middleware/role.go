package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/scoped-auth/internal/service"
)

// RequireScope returns a middleware that lets the request through only when
// the token presented to BearerAuth granted scope. It must run after
// BearerAuth: without a Principal the request is rejected with 401, with a
// Principal lacking the scope it is rejected with 403.
func RequireScope(scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := service.Authorize(PrincipalFrom(c), scope)
			switch {
			case err == nil:
				return next(c)
			case errors.Is(err, service.ErrForbidden):
				return c.JSON(http.StatusForbidden, echo.Map{"error": service.ErrForbidden.Error()})
			default:
				return Unauthorized(c, service.ErrUnauthenticated.Error())
			}
		}
	}
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/scoped-auth/internal/logging"
	"github.com/iliyamo/scoped-auth/internal/service"
)

// Authenticator resolves a raw bearer token into a Principal.
// *service.AuthService implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*service.Principal, error)
}

// BearerAuth returns an Echo middleware that validates the Bearer access token
// and stores the resulting Principal on the context. Every authentication
// failure gets the same 401 body and a WWW-Authenticate challenge so clients
// cannot tell a bad signature from an unknown or disabled account. A positive
// timeout bounds the account lookup done by authn.
func BearerAuth(authn Authenticator, log logging.Logger, timeout time.Duration) echo.MiddlewareFunc {
	if log == nil {
		log = logging.Nop{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			p, err := authn.Authenticate(ctx, bearerToken(c.Request()))
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					log.Debug(ctx, "authentication failed", "reason", err.Error())
					return Unauthorized(c, service.ErrUnauthenticated.Error())
				}
				log.Error(ctx, "authentication error", "err", err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
			}
			SetPrincipal(c, p)
			return next(c)
		}
	}
}

// Unauthorized writes a 401 with the Bearer challenge header.
func Unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
}

// bearerToken extracts the token from "Authorization: Bearer <token>". The
// scheme is matched case-insensitively; anything else yields "".
func bearerToken(r *http.Request) string {
	auth := r.Header.Get(echo.HeaderAuthorization)
	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

package middleware

// identity.go stores and retrieves the authenticated Principal on the Echo
// context. BearerAuth sets it; RequireScope and the handlers read it.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/scoped-auth/internal/service"
)

const principalKey = "principal"

// SetPrincipal attaches p to the request context.
func SetPrincipal(c echo.Context, p *service.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the authenticated caller, or nil when the request did
// not pass through BearerAuth.
func PrincipalFrom(c echo.Context) *service.Principal {
	p, _ := c.Get(principalKey).(*service.Principal)
	return p
}

// accountID is used for log attributes; 0 means anonymous.
func accountID(c echo.Context) uint64 {
	if p := PrincipalFrom(c); p != nil && p.Account != nil {
		return p.Account.ID
	}
	return 0
}

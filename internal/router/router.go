package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/scoped-auth/internal/handler"
	"github.com/iliyamo/scoped-auth/internal/logging"
	"github.com/iliyamo/scoped-auth/internal/middleware"
	"github.com/iliyamo/scoped-auth/internal/service"
)

// New builds the Echo instance with the global middleware chain and every
// route registered.
func New(a *handler.AuthHandler, authn middleware.Authenticator, log logging.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
	}))

	RegisterRoutes(e)
	RegisterAuth(e, a, authn, log)
	return e
}

// RegisterRoutes registers routes that do not require authentication,
// including the API docs.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Root)
	e.GET("/health", handler.Health)
	e.GET("/openapi.json", handler.OpenAPI)
	e.GET("/docs", handler.Docs)
}

// RegisterAuth registers the /auth routes. Register and token are open;
// users/me needs the "user" scope and everything under /auth/admin needs the
// "admin" scope. Scope checks run after BearerAuth, so a missing or bad token
// is always 401 and a valid token without the scope is 403.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, authn middleware.Authenticator, log logging.Logger) {
	g := e.Group("/auth")
	g.POST("/register", a.Register)
	g.POST("/token", a.Login)

	bearer := middleware.BearerAuth(authn, log, a.Timeout)
	g.GET("/users/me", a.Me, bearer, middleware.RequireScope(service.ScopeUser))

	admin := g.Group("/admin", bearer, middleware.RequireScope(service.ScopeAdmin))
	admin.GET("/users", a.ListUsers)
	admin.PUT("/users/:id/toggle", a.ToggleStatus)
}

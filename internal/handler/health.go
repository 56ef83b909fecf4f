package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Root is the unauthenticated landing endpoint.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Welcome to the scoped-auth service"})
}

// Health is used by load balancers and monitoring systems to verify that the
// service is running.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "healthy"})
}

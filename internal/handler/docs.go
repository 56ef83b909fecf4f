package handler

import (
	_ "embed"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed docs/openapi.json
var openAPISpec []byte

//go:embed docs/index.html
var docsPage []byte

// OpenAPI serves the OpenAPI 3 document describing the API.
func OpenAPI(c echo.Context) error {
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, openAPISpec)
}

// Docs serves a Swagger UI page that renders /openapi.json.
func Docs(c echo.Context) error {
	return c.HTMLBlob(http.StatusOK, docsPage)
}

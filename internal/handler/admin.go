package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/scoped-auth/internal/service"
)

// ListUsers: GET /auth/admin/users?skip=0&limit=100
func (h *AuthHandler) ListUsers(c echo.Context) error {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "skip must be an integer"})
	}
	limit, err := queryInt(c, "limit", service.DefaultListLimit)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be an integer"})
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	accounts, err := h.Svc.ListAccounts(ctx, skip, limit)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	out := make([]accountResp, 0, len(accounts))
	for i := range accounts {
		out = append(out, toAccountResp(&accounts[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// ToggleStatus: PUT /auth/admin/users/:id/toggle
func (h *AuthHandler) ToggleStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	acc, err := h.Svc.ToggleActive(ctx, id)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toAccountResp(acc))
}

// queryInt reads an integer query parameter, returning def when it is absent.
func queryInt(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

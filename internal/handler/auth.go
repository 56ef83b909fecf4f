package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/scoped-auth/internal/logging"
	"github.com/iliyamo/scoped-auth/internal/middleware"
	"github.com/iliyamo/scoped-auth/internal/model"
	"github.com/iliyamo/scoped-auth/internal/service"
)

// AccountService is the part of *service.AuthService the handlers call.
type AccountService interface {
	Register(ctx context.Context, email, password string, isAdmin bool) (*model.Account, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	ListAccounts(ctx context.Context, skip, limit int) ([]model.Account, error)
	ToggleActive(ctx context.Context, id uint64) (*model.Account, error)
}

// AuthHandler bundles dependencies for the /auth endpoints.
type AuthHandler struct {
	Svc     AccountService
	Log     logging.Logger
	Timeout time.Duration // bound for store calls made by one request
}

func NewAuthHandler(svc AccountService, log logging.Logger, timeout time.Duration) *AuthHandler {
	if log == nil {
		log = logging.Nop{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AuthHandler{Svc: svc, Log: log, Timeout: timeout}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

type accountResp struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenResp struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Scopes      []string  `json:"scopes"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func toAccountResp(a *model.Account) accountResp {
	return accountResp{
		ID:        a.ID,
		Email:     a.Email,
		IsActive:  a.IsActive,
		IsAdmin:   a.IsAdmin,
		CreatedAt: a.CreatedAt.UTC(),
	}
}

func (h *AuthHandler) ctx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), h.Timeout)
}

// Register: create an account and return it (without the hash).
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	acc, err := h.Svc.Register(ctx, req.Email, req.Password, req.IsAdmin)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toAccountResp(acc))
}

// Login: OAuth2 password-style form (username, password) -> access token.
func (h *AuthHandler) Login(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	if username == "" || password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	res, err := h.Svc.Login(ctx, username, password)
	if err != nil {
		return writeLoginError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, tokenResp{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
		Scopes:      res.Scopes,
		ExpiresAt:   res.ExpiresAt,
	})
}

// Me: the authenticated account.
func (h *AuthHandler) Me(c echo.Context) error {
	p := middleware.PrincipalFrom(c)
	if p == nil || p.Account == nil {
		return middleware.Unauthorized(c, service.ErrUnauthenticated.Error())
	}
	return c.JSON(http.StatusOK, toAccountResp(p.Account))
}

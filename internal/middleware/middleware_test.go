package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/scoped-auth/internal/logging"
	"github.com/iliyamo/scoped-auth/internal/model"
	"github.com/iliyamo/scoped-auth/internal/service"
)

type fakeAuthn struct {
	principal *service.Principal
	err       error
	gotToken  string
	deadline  time.Time
}

func (f *fakeAuthn) Authenticate(ctx context.Context, raw string) (*service.Principal, error) {
	f.gotToken = raw
	f.deadline, _ = ctx.Deadline()
	if raw == "" {
		return nil, service.ErrMissingToken
	}
	return f.principal, f.err
}

func userPrincipal(scopes ...string) *service.Principal {
	return &service.Principal{Account: &model.Account{ID: 9, Email: "u@x.com", IsActive: true}, Scopes: scopes}
}

func okHandler(c echo.Context) error {
	p := PrincipalFrom(c)
	return c.JSON(http.StatusOK, echo.Map{"id": p.Account.ID})
}

func serve(e *echo.Echo, method, target, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "bearer abc", want: "abc"},
		{header: "Basic dXNlcjpwdw==", want: ""},
		{header: "Bearer", want: ""},
		{header: "", want: ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, tt.header)
		assert.Equal(t, tt.want, bearerToken(req), "header %q", tt.header)
	}
}

func TestBearerAuth(t *testing.T) {
	tests := []struct {
		name       string
		auth       string
		authn      *fakeAuthn
		wantStatus int
	}{
		{name: "no header", auth: "", authn: &fakeAuthn{}, wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", auth: "Token abc", authn: &fakeAuthn{}, wantStatus: http.StatusUnauthorized},
		{name: "rejected token", auth: "Bearer abc", authn: &fakeAuthn{err: service.ErrAccountInactive}, wantStatus: http.StatusUnauthorized},
		{name: "store outage", auth: "Bearer abc", authn: &fakeAuthn{err: errors.New("db down")}, wantStatus: http.StatusInternalServerError},
		{name: "valid", auth: "Bearer abc", authn: &fakeAuthn{principal: userPrincipal(service.ScopeUser)}, wantStatus: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/me", okHandler, BearerAuth(tt.authn, nil, 0))

			rec := serve(e, http.MethodGet, "/me", tt.auth)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
				assert.JSONEq(t, `{"error":"could not validate credentials"}`, rec.Body.String())
			}
		})
	}
}

func TestBearerAuth_BoundsLookup(t *testing.T) {
	authn := &fakeAuthn{principal: userPrincipal(service.ScopeUser)}
	e := echo.New()
	e.GET("/me", okHandler, BearerAuth(authn, nil, 2*time.Second))

	start := time.Now()
	rec := serve(e, http.MethodGet, "/me", "Bearer abc")
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, authn.deadline.IsZero(), "lookup must run with a deadline")
	assert.WithinDuration(t, start.Add(2*time.Second), authn.deadline, time.Second)

	unbounded := &fakeAuthn{principal: userPrincipal(service.ScopeUser)}
	e = echo.New()
	e.GET("/me", okHandler, BearerAuth(unbounded, nil, 0))
	serve(e, http.MethodGet, "/me", "Bearer abc")
	assert.True(t, unbounded.deadline.IsZero())
}

func TestRequireScope(t *testing.T) {
	tests := []struct {
		name       string
		principal  *service.Principal
		wantStatus int
	}{
		{name: "admin scope", principal: userPrincipal(service.ScopeUser, service.ScopeAdmin), wantStatus: http.StatusOK},
		{name: "user only", principal: userPrincipal(service.ScopeUser), wantStatus: http.StatusForbidden},
		{name: "no scopes", principal: userPrincipal(), wantStatus: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/admin", okHandler, BearerAuth(&fakeAuthn{principal: tt.principal}, nil, 0), RequireScope(service.ScopeAdmin))

			rec := serve(e, http.MethodGet, "/admin", "Bearer abc")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequireScope_WithoutBearerAuth(t *testing.T) {
	e := echo.New()
	e.GET("/admin", okHandler, RequireScope(service.ScopeAdmin))

	rec := serve(e, http.MethodGet, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	e := echo.New()
	e.Use(RequestID(), RequestLogger(log))
	e.GET("/me", okHandler, BearerAuth(&fakeAuthn{principal: userPrincipal(service.ScopeUser)}, nil, 0))

	rec := serve(e, http.MethodGet, "/me", "Bearer abc")
	require.Equal(t, http.StatusOK, rec.Code)

	reqID := rec.Header().Get(echo.HeaderXRequestID)
	require.NotEmpty(t, reqID)
	out := buf.String()
	assert.Contains(t, out, `"request_id":"`+reqID+`"`)
	assert.Contains(t, out, `"uri":"/me"`)
	assert.Contains(t, out, `"status":200`)
	assert.Contains(t, out, `"account_id":9`)
}

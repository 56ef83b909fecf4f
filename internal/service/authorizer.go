package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/scoped-auth/internal/model"
	"github.com/iliyamo/scoped-auth/internal/repository"
)

// Principal is an authenticated caller: the live account record plus the
// scopes and expiry frozen into the token it presented.
type Principal struct {
	Account   *model.Account
	Scopes    []string
	ExpiresAt time.Time
}

// HasScope reports whether the token granted scope.
func (p *Principal) HasScope(scope string) bool {
	return p != nil && hasScope(p.Scopes, scope)
}

// Authenticate verifies a raw bearer token and resolves its subject. Every
// failure (no token, bad signature, expired, malformed, unknown or inactive
// account) matches ErrUnauthenticated; only store outages are returned as
// internal errors.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*Principal, error) {
	if raw == "" {
		return nil, ErrMissingToken
	}
	claims, err := s.codec.Verify(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	acc, err := s.store.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	if !acc.IsActive {
		return nil, ErrAccountInactive
	}

	p := &Principal{Account: acc, Scopes: claims.Scopes}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}

// Authorize checks scope against the token's scopes, not the account's
// current role.
func Authorize(p *Principal, scope string) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if !p.HasScope(scope) {
		return fmt.Errorf("%w: requires scope %q", ErrForbidden, scope)
	}
	return nil
}

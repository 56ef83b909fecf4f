package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/scoped-auth/internal/model"
	"github.com/iliyamo/scoped-auth/internal/repository"
	"github.com/iliyamo/scoped-auth/internal/utils"
)

// LoginResult is what a successful login hands back to the HTTP layer.
type LoginResult struct {
	AccessToken string
	TokenType   string
	Scopes      []string
	ExpiresAt   time.Time
	Account     *model.Account
}

// Login checks the credentials and issues an access token carrying the
// account's scopes. Unknown email, wrong password and inactive account all
// fail with an error matching ErrUnauthenticated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	acc, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// spend the same bcrypt time as for a real account
			_, _ = utils.VerifyPassword(s.dummyHash, password)
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	ok, err := utils.VerifyPassword(acc.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("verify password for account %d: %w", acc.ID, err)
	}
	if !ok {
		return nil, ErrBadCredentials
	}
	if !acc.IsActive {
		return nil, ErrAccountInactive
	}

	scopes := ScopesFor(acc)
	tok, err := s.codec.IssueAccess(acc.Email, scopes)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Debug(ctx, "access token issued", "account_id", acc.ID, "scopes", scopes, "expires_at", tok.Exp)
	return &LoginResult{
		AccessToken: tok.Token,
		TokenType:   "bearer",
		Scopes:      scopes,
		ExpiresAt:   tok.Exp,
		Account:     acc,
	}, nil
}

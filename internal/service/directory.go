package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/iliyamo/scoped-auth/internal/model"
	"github.com/iliyamo/scoped-auth/internal/queue"
	"github.com/iliyamo/scoped-auth/internal/repository"
	"github.com/iliyamo/scoped-auth/internal/utils"
)

// DefaultListLimit is used when the admin listing is called without a limit.
const DefaultListLimit = 100

// Register validates the input, hashes the password and stores a new account.
// A second registration of the same email fails with ErrDuplicateEmail; the
// store's unique index decides races, there is no separate existence check.
func (s *AuthService) Register(ctx context.Context, email, password string, isAdmin bool) (*model.Account, error) {
	if err := validateRegistration(email, password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	hash, err := utils.HashPassword(password, s.cost)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordEncoding) {
			return nil, fmt.Errorf("%w: password: %v", ErrValidation, err)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acc, err := s.store.Create(ctx, email, hash, isAdmin)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.log.Info(ctx, "account registered", "account_id", acc.ID, "is_admin", acc.IsAdmin)
	s.publish(ctx, queue.NewAccountEvent(queue.EventAccountRegistered, acc.ID, acc.Email, acc.IsActive, acc.IsAdmin))
	return acc, nil
}

// ToggleActive flips the account's active flag. It performs no authorization
// itself; callers gate it behind the admin scope. Reactivating an inactive
// account and toggling one's own account are both allowed.
func (s *AuthService) ToggleActive(ctx context.Context, id uint64) (*model.Account, error) {
	acc, err := s.store.ToggleActive(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("toggle account: %w", err)
	}

	s.log.Info(ctx, "account status toggled", "account_id", acc.ID, "is_active", acc.IsActive)
	s.publish(ctx, queue.NewAccountEvent(queue.EventAccountStatusToggled, acc.ID, acc.Email, acc.IsActive, acc.IsAdmin))
	return acc, nil
}

// ListAccounts returns accounts ordered by id. Negative skip or limit is a
// validation error.
func (s *AuthService) ListAccounts(ctx context.Context, skip, limit int) ([]model.Account, error) {
	err := validation.Errors{
		"skip":  validation.Validate(skip, validation.Min(0)),
		"limit": validation.Validate(limit, validation.Min(0)),
	}.Filter()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	accounts, err := s.store.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func validateRegistration(email, password string) error {
	return validation.Errors{
		"email": validation.Validate(email,
			validation.Required,
			validation.Length(3, 255),
			is.EmailFormat,
		),
		"password": validation.Validate(password,
			validation.Required,
			validation.By(maxBytes(utils.MaxPasswordBytes)),
		),
	}.Filter()
}

// maxBytes limits the encoded length; bcrypt ignores everything past 72 bytes.
func maxBytes(n int) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if !utf8.ValidString(s) {
			return errors.New("must be valid UTF-8")
		}
		if len(s) > n {
			return fmt.Errorf("must be at most %d bytes", n)
		}
		return nil
	}
}

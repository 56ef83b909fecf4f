package repository

import (
	"context"

	"github.com/iliyamo/scoped-auth/internal/model"
)

// AccountStore is the persistence contract the service layer depends on.
// AccountRepo implements it on database/sql; CachedAccountStore wraps any
// AccountStore with a Redis read-through cache.
type AccountStore interface {
	// Create inserts a new account and returns it as stored.
	Create(ctx context.Context, email, passwordHash string, isAdmin bool) (*model.Account, error)
	// GetByEmail looks an account up by its exact email.
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	// GetByID looks an account up by primary key.
	GetByID(ctx context.Context, id uint64) (*model.Account, error)
	// List returns at most limit accounts ordered by id, skipping offset.
	List(ctx context.Context, offset, limit int) ([]model.Account, error)
	// ToggleActive flips is_active and returns the updated account.
	ToggleActive(ctx context.Context, id uint64) (*model.Account, error)
}

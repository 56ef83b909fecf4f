package repository

// cached_store.go puts Redis in front of the account lookup used on every
// authenticated request (GetByEmail). Entries are short-lived. A status change
// overwrites the entry with the committed row, and a miss only fills an empty
// key (SETNX), so a lookup that read the row before a toggle cannot put the
// old status back. Any Redis failure falls back to the wrapped store.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/scoped-auth/internal/logging"
	"github.com/iliyamo/scoped-auth/internal/model"
)

// cachedAccount is the JSON shape stored in Redis.
type cachedAccount struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	IsActive     bool      `json:"is_active"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CachedAccountStore is a read-through cache over another AccountStore.
type CachedAccountStore struct {
	next   AccountStore
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
	log    logging.Logger
}

var _ AccountStore = (*CachedAccountStore)(nil)

// NewCachedAccountStore wraps next. When rdb is nil next is returned
// unchanged, so callers can pass the result of config.NewRedisClient
// directly.
func NewCachedAccountStore(next AccountStore, rdb redis.Cmdable, ttl time.Duration, prefix string, log logging.Logger) AccountStore {
	if rdb == nil || isNilClient(rdb) {
		return next
	}
	if log == nil {
		log = logging.Nop{}
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedAccountStore{next: next, rdb: rdb, ttl: ttl, prefix: prefix, log: log}
}

// isNilClient catches a typed-nil *redis.Client stored in the interface.
func isNilClient(rdb redis.Cmdable) bool {
	c, ok := rdb.(*redis.Client)
	return ok && c == nil
}

func (s *CachedAccountStore) emailKey(email string) string {
	return s.prefix + ":email:" + email
}

func (s *CachedAccountStore) Create(ctx context.Context, email, passwordHash string, isAdmin bool) (*model.Account, error) {
	return s.next.Create(ctx, email, passwordHash, isAdmin)
}

// GetByEmail serves from Redis when possible and fills the cache on a miss.
// Misses for unknown emails are not cached. The fill never replaces an entry
// written in the meantime.
func (s *CachedAccountStore) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	key := s.emailKey(email)
	raw, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if acc, derr := decodeAccount(raw); derr == nil {
			return acc, nil
		}
		s.log.Warn(ctx, "account cache: dropping undecodable entry", "key", key)
		_ = s.rdb.Del(ctx, key).Err()
	case !errors.Is(err, redis.Nil):
		s.log.Warn(ctx, "account cache: get failed", "key", key, "err", err)
	}

	acc, err := s.next.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if b, err := encodeAccount(acc); err == nil {
		if err := s.rdb.SetNX(ctx, key, b, s.ttl).Err(); err != nil {
			s.log.Warn(ctx, "account cache: fill failed", "key", key, "err", err)
		}
	}
	return acc, nil
}

func (s *CachedAccountStore) GetByID(ctx context.Context, id uint64) (*model.Account, error) {
	return s.next.GetByID(ctx, id)
}

func (s *CachedAccountStore) List(ctx context.Context, offset, limit int) ([]model.Account, error) {
	return s.next.List(ctx, offset, limit)
}

// ToggleActive updates the store first and then writes the committed row over
// the cached entry. If that write fails the entry is deleted instead.
func (s *CachedAccountStore) ToggleActive(ctx context.Context, id uint64) (*model.Account, error) {
	acc, err := s.next.ToggleActive(ctx, id)
	if err != nil {
		return nil, err
	}
	key := s.emailKey(acc.Email)
	b, err := encodeAccount(acc)
	if err == nil {
		err = s.rdb.Set(ctx, key, b, s.ttl).Err()
	}
	if err != nil {
		s.log.Warn(ctx, "account cache: refresh failed, evicting", "account_id", acc.ID, "err", err)
		if err := s.rdb.Del(ctx, key).Err(); err != nil {
			s.log.Error(ctx, "account cache: evict failed", "account_id", acc.ID, "err", err)
		}
	}
	return acc, nil
}

func encodeAccount(a *model.Account) ([]byte, error) {
	return json.Marshal(cachedAccount{
		ID:           a.ID,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		IsActive:     a.IsActive,
		IsAdmin:      a.IsAdmin,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	})
}

func decodeAccount(b []byte) (*model.Account, error) {
	var c cachedAccount
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &model.Account{
		ID:           c.ID,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		IsActive:     c.IsActive,
		IsAdmin:      c.IsAdmin,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}, nil
}

// Package service holds the authentication and authorization core: account
// registration and status changes, login with scope computation, and
// verification of bearer tokens against required scopes.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/scoped-auth/internal/logging"
	"github.com/iliyamo/scoped-auth/internal/queue"
	"github.com/iliyamo/scoped-auth/internal/repository"
	"github.com/iliyamo/scoped-auth/internal/utils"
)

// EventPublisher delivers account events to the broker. *queue.Publisher
// implements it.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.AccountEvent) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, queue.AccountEvent) error { return nil }

// Options carries the optional collaborators of AuthService.
type Options struct {
	BcryptCost int            // cost for new hashes; bcrypt.DefaultCost when out of range
	Events     EventPublisher // nil disables publishing
	Logger     logging.Logger // nil discards logs
}

// AuthService implements the account directory, the login flow and the
// authorization evaluator on top of an AccountStore and a TokenCodec.
// It holds no mutable state and is safe for concurrent use.
type AuthService struct {
	store     repository.AccountStore
	codec     *utils.TokenCodec
	cost      int
	events    EventPublisher
	log       logging.Logger
	dummyHash string
}

// NewAuthService wires the service. It fails only if the placeholder hash used
// to equalise login timing cannot be computed.
func NewAuthService(store repository.AccountStore, codec *utils.TokenCodec, opts Options) (*AuthService, error) {
	if store == nil || codec == nil {
		return nil, errors.New("service: store and codec are required")
	}
	s := &AuthService{
		store:  store,
		codec:  codec,
		cost:   opts.BcryptCost,
		events: opts.Events,
		log:    opts.Logger,
	}
	if s.events == nil {
		s.events = nopPublisher{}
	}
	if s.log == nil {
		s.log = logging.Nop{}
	}
	dummy, err := utils.HashPassword("placeholder-password", s.cost)
	if err != nil {
		return nil, err
	}
	s.dummyHash = dummy
	return s, nil
}

// publish sends ev with its own short deadline; failures are logged and never
// reach the caller.
func (s *AuthService) publish(ctx context.Context, ev queue.AccountEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn(ctx, "publish account event failed", "type", ev.Type, "account_id", ev.AccountID, "err", err)
	}
}

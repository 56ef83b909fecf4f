// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// Event types carried in AccountEvent.Type.
const (
	EventAccountRegistered    = "account.registered"
	EventAccountStatusToggled = "account.status_toggled"
)

// AccountEvent is published after an account is created or its active flag is
// flipped. It carries enough for downstream consumers (audit log, analytics)
// to act without querying the accounts table. The password hash is never
// included.
type AccountEvent struct {
	Type       string `json:"type"`
	AccountID  uint64 `json:"account_id"`
	Email      string `json:"email"`
	IsActive   bool   `json:"is_active"`
	IsAdmin    bool   `json:"is_admin"`
	OccurredAt string `json:"occurred_at"` // RFC3339, UTC
}

// NewAccountEvent stamps an event with the current UTC time.
func NewAccountEvent(typ string, id uint64, email string, active, admin bool) AccountEvent {
	return AccountEvent{
		Type:       typ,
		AccountID:  id,
		Email:      email,
		IsActive:   active,
		IsAdmin:    admin,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

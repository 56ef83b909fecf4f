package model

import "time"

// Account represents a row of the `accounts` table. The struct is used
// internally by the repository and service layers; handlers build their own
// response types so that PasswordHash never leaves the process.
//
// Fields:
//
//	ID           – primary key identifier.
//	Email        – unique email address, compared case-sensitively.
//	PasswordHash – bcrypt hash of the password.
//	IsActive     – whether the account may authenticate.
//	IsAdmin      – role flag; fixed at registration.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of the last status change.
type Account struct {
	ID           uint64    // accounts.id
	Email        string    // accounts.email
	PasswordHash string    // accounts.password_hash
	IsActive     bool      // accounts.is_active
	IsAdmin      bool      // accounts.is_admin
	CreatedAt    time.Time // accounts.created_at
	UpdatedAt    time.Time // accounts.updated_at
}

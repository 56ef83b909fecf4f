// Package testutil holds helpers shared by package tests: an in-memory,
// migrated SQLite database and direct account seeding.
package testutil

import (
	"context"
	"database/sql"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/scoped-auth/internal/database"
	"github.com/iliyamo/scoped-auth/internal/logging"
	"github.com/iliyamo/scoped-auth/internal/utils"
)

// OpenSQLite opens a named in-memory SQLite database and applies the schema
// migrations. Each distinct name is an isolated database; the database is
// closed via t.Cleanup.
func OpenSQLite(t *testing.T, name string) *sql.DB {
	t.Helper()
	// Shared cache so every connection of the pool sees the same database.
	db, err := database.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(context.Background(), db, "sqlite3", quietGoose{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// InsertAccount writes an account row directly, bypassing the service. The
// password is hashed at bcrypt.MinCost.
func InsertAccount(t *testing.T, db *sql.DB, email, password string, isAdmin, isActive bool) uint64 {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	res, err := db.Exec(
		"INSERT INTO accounts (email, password_hash, is_admin, is_active) VALUES (?, ?, ?, ?)",
		email, hash, isAdmin, isActive)
	if err != nil {
		t.Fatalf("insert account: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("insert account: %v", err)
	}
	return uint64(id)
}

// IsActive reads accounts.is_active for id.
func IsActive(t *testing.T, db *sql.DB, id uint64) bool {
	t.Helper()
	var active bool
	if err := db.QueryRow("SELECT is_active FROM accounts WHERE id = ?", id).Scan(&active); err != nil {
		t.Fatalf("read is_active: %v", err)
	}
	return active
}

// Logger returns a logger that discards output.
func Logger() logging.Logger { return logging.Nop{} }

// quietGoose silences goose's per-migration output in tests.
type quietGoose struct{}

func (quietGoose) Printf(string, ...any) {}
func (quietGoose) Fatalf(string, ...any) {}

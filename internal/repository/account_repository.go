package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"

	"github.com/iliyamo/scoped-auth/internal/database"
	"github.com/iliyamo/scoped-auth/internal/model"
)

const accountColumns = "id, email, password_hash, is_active, is_admin, created_at, updated_at"

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// AccountRepo stores accounts in the `accounts` table. The same SQL runs on
// MySQL and SQLite.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

var _ AccountStore = (*AccountRepo)(nil)

// Create inserts the account and reads it back in the same transaction so the
// caller sees database defaults (is_active, timestamps). Uniqueness is left to
// the index: concurrent inserts of one email yield exactly one success.
func (r *AccountRepo) Create(ctx context.Context, email, passwordHash string, isAdmin bool) (*model.Account, error) {
	var acc *model.Account
	err := database.WithTx(ctx, r.DB, nil, func(ctx context.Context, tx database.DBTX) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO accounts (email, password_hash, is_admin) VALUES (?, ?, ?)",
			email, passwordHash, isAdmin)
		if err != nil {
			if isDuplicateKey(err) {
				return ErrEmailExists
			}
			return fmt.Errorf("insert account: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert account: %w", err)
		}
		acc, err = getByID(ctx, tx, uint64(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// GetByEmail fetches an account by email. Emails are compared exactly.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE email = ? LIMIT 1", email)
	return scanAccount(row)
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (*model.Account, error) {
	return getByID(ctx, r.DB, id)
}

// List returns a page of accounts ordered by id.
func (r *AccountRepo) List(ctx context.Context, offset, limit int) ([]model.Account, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+accountColumns+" FROM accounts ORDER BY id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// ToggleActive flips is_active for id and returns the row as committed.
// The update and the re-read share one transaction.
func (r *AccountRepo) ToggleActive(ctx context.Context, id uint64) (*model.Account, error) {
	var acc *model.Account
	err := database.WithTx(ctx, r.DB, nil, func(ctx context.Context, tx database.DBTX) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE accounts SET is_active = NOT is_active, updated_at = CURRENT_TIMESTAMP WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("toggle account: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("toggle account: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		acc, err = getByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func getByID(ctx context.Context, q database.DBTX, id uint64) (*model.Account, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id = ? LIMIT 1", id)
	return scanAccount(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.IsActive, &a.IsAdmin, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &a, nil
}

func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

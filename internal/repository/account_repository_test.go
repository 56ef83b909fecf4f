package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/scoped-auth/internal/testutil"
)

func newSQLiteRepo(t *testing.T, name string) *AccountRepo {
	t.Helper()
	return NewAccountRepo(testutil.OpenSQLite(t, name))
}

func TestAccountRepo_CreateAndGet(t *testing.T) {
	repo := newSQLiteRepo(t, "repo_create_get")
	ctx := context.Background()

	acc, err := repo.Create(ctx, "a@x.com", "hash", false)
	require.NoError(t, err)
	assert.NotZero(t, acc.ID)
	assert.Equal(t, "a@x.com", acc.Email)
	assert.Equal(t, "hash", acc.PasswordHash)
	assert.True(t, acc.IsActive, "accounts start active")
	assert.False(t, acc.IsAdmin)
	assert.False(t, acc.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)

	admin, err := repo.Create(ctx, "root@x.com", "hash", true)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
}

func TestAccountRepo_DuplicateEmail(t *testing.T) {
	repo := newSQLiteRepo(t, "repo_duplicate")
	ctx := context.Background()

	_, err := repo.Create(ctx, "a@x.com", "h1", false)
	require.NoError(t, err)

	_, err = repo.Create(ctx, "a@x.com", "h2", true)
	assert.ErrorIs(t, err, ErrEmailExists)

	// stored emails compare case-sensitively
	_, err = repo.Create(ctx, "A@x.com", "h3", false)
	assert.NoError(t, err)
}

func TestAccountRepo_ConcurrentCreateSameEmail(t *testing.T) {
	repo := newSQLiteRepo(t, "repo_concurrent")
	ctx := context.Background()

	const n = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok, dup int
		other   []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(ctx, "race@x.com", fmt.Sprintf("h%d", i), false)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrEmailExists):
				dup++
			default:
				other = append(other, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Empty(t, other)
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)
}

func TestAccountRepo_NotFound(t *testing.T) {
	repo := newSQLiteRepo(t, "repo_not_found")
	ctx := context.Background()

	_, err := repo.GetByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.ToggleActive(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountRepo_List(t *testing.T) {
	repo := newSQLiteRepo(t, "repo_list")
	ctx := context.Background()

	empty, err := repo.List(ctx, 0, 100)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for i := 0; i < 5; i++ {
		_, err := repo.Create(ctx, fmt.Sprintf("u%d@x.com", i), "h", false)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}

	page, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "u1@x.com", page[0].Email)
	assert.Equal(t, "u2@x.com", page[1].Email)

	none, err := repo.List(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAccountRepo_ToggleActive(t *testing.T) {
	repo := newSQLiteRepo(t, "repo_toggle")
	ctx := context.Background()

	acc, err := repo.Create(ctx, "a@x.com", "h", false)
	require.NoError(t, err)

	off, err := repo.ToggleActive(ctx, acc.ID)
	require.NoError(t, err)
	assert.False(t, off.IsActive)
	assert.Equal(t, acc.Email, off.Email)

	stored, err := repo.GetByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	on, err := repo.ToggleActive(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, on.IsActive)
}

func TestAccountRepo_MySQLDuplicateEntry(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO accounts").
		WithArgs("a@x.com", "h", false).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@x.com' for key 'uq_accounts_email'"})
	mock.ExpectRollback()

	_, err = NewAccountRepo(db).Create(context.Background(), "a@x.com", "h", false)
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_MySQLOtherErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO accounts").
		WillReturnError(&mysql.MySQLError{Number: 1146, Message: "Table 'accounts' doesn't exist"})
	mock.ExpectRollback()

	_, err = NewAccountRepo(db).Create(context.Background(), "a@x.com", "h", false)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailExists)

	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE email").
		WithArgs("a@x.com").
		WillReturnError(errors.New("connection refused"))

	_, err = NewAccountRepo(db).GetByEmail(context.Background(), "a@x.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_ToggleRollsBackOnReadError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET is_active = NOT is_active").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE id").
		WithArgs(uint64(7)).
		WillReturnError(errors.New("lost connection"))
	mock.ExpectRollback()

	_, err = NewAccountRepo(db).ToggleActive(context.Background(), 7)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_ScanMySQLRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "is_active", "is_admin", "created_at", "updated_at"}).
		AddRow(uint64(3), "a@x.com", "h", true, true, created, created)
	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE id").WithArgs(uint64(3)).WillReturnRows(rows)

	acc, err := NewAccountRepo(db).GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), acc.ID)
	assert.True(t, acc.IsAdmin)
	assert.True(t, created.Equal(acc.CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

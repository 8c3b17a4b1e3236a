package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicare-pro/admin-console/internal/domain"
)

var accountCols = []string{"id", "username", "name", "email", "role", "password_hash", "created_at", "updated_at"}

func TestAccountRepository_GetByUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .* FROM accounts WHERE username=\$1`).
		WithArgs("admin").
		WillReturnRows(pgxmock.NewRows(accountCols).
			AddRow("u-1", "admin", "Ada Admin", "admin@medicare.test", "Admin", "hash", now, now))

	repo := NewAccountRepository(mock)
	account, err := repo.GetByUsername(context.Background(), "  Admin ")
	require.NoError(t, err)
	assert.Equal(t, "u-1", account.ID)
	assert.Equal(t, domain.RoleAdmin, account.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT .* FROM accounts WHERE id=\$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = NewAccountRepository(mock).GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_CreateConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO accounts`).
		WithArgs("u-1", "nurse", "Nina", "nina@medicare.test", "Nurse", "hash").
		WillReturnError(pgx.ErrNoRows)

	err = NewAccountRepository(mock).Create(context.Background(), &domain.Account{
		ID: "u-1", Username: "Nurse", Name: "Nina", Email: "nina@medicare.test", Role: domain.RoleNurse, PasswordHash: "hash",
	})
	assert.ErrorIs(t, err, ErrAccountExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .* FROM accounts ORDER BY username`).
		WillReturnRows(pgxmock.NewRows(accountCols).
			AddRow("u-1", "admin", "Ada", "", "Admin", "h", now, now).
			AddRow("u-2", "doctor", "Doc", "", "Doctor", "h", now, now))

	accounts, err := NewAccountRepository(mock).List(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, domain.RoleDoctor, accounts[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryAccountRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()

	require.NoError(t, repo.Create(ctx, &domain.Account{ID: "u-1", Username: "Doctor", Role: domain.RoleDoctor}))
	assert.ErrorIs(t, repo.Create(ctx, &domain.Account{ID: "u-2", Username: "doctor "}), ErrAccountExists)

	account, err := repo.GetByUsername(ctx, "DOCTOR")
	require.NoError(t, err)
	assert.Equal(t, "u-1", account.ID)
	assert.False(t, account.CreatedAt.IsZero())

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medicare-pro/admin-console/internal/domain"
)

// ErrAccountNotFound is returned when no account matches.
var ErrAccountNotFound = errors.New("account not found")

// ErrAccountExists is returned when the username is already taken.
var ErrAccountExists = errors.New("account already exists")

// AccountRepository defines persistence access for sign-in accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
}

// DBTX is the subset of pgx used by the repository. Satisfied by
// *pgxpool.Pool, pgx.Tx and pgxmock pools.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type accountRepository struct {
	db DBTX
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(db DBTX) AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `id, username, name, email, role, password_hash, created_at, updated_at`

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (id, username, name, email, role, password_hash)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (username) DO NOTHING
        RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		account.ID,
		normalizeUsername(account.Username),
		account.Name,
		account.Email,
		string(account.Role),
		account.PasswordHash,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAccountExists
	}
	return err
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id=$1`
	return scanAccount(r.db.QueryRow(ctx, query, id))
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username=$1`
	return scanAccount(r.db.QueryRow(ctx, query, normalizeUsername(username)))
}

func (r *accountRepository) List(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY username`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account domain.Account
		role    string
	)
	if err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Name,
		&account.Email,
		&role,
		&account.PasswordHash,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	account.Role = domain.Role(role)
	return &account, nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

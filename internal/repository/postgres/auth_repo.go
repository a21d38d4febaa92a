// internal/repository/postgres/auth_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"prorata-service/internal/domain/account"
	xerrors "prorata-service/internal/pkg/errors"
)

type AuthRepository struct {
	db *pgxpool.Pool
}

func NewAuthRepository(db *pgxpool.Pool) *AuthRepository {
	return &AuthRepository{db: db}
}

// CreateAccount inserts a new account
func (r *AuthRepository) CreateAccount(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (email, name, password_hash, roles)
		VALUES ($1, $2, $3, $4)
		RETURNING id, last_visit_at, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, acc.Email, acc.Name, acc.PasswordHash, pq.Array(acc.Roles)).
		Scan(&acc.ID, &acc.LastVisitAt, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return xerrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// FindByEmail retrieves an account by email
func (r *AuthRepository) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	query := `
		SELECT id, email, name, password_hash, roles, last_visit_at, created_at, updated_at
		FROM accounts
		WHERE email = $1
	`

	return r.scanAccount(r.db.QueryRow(ctx, query, email))
}

// FindByID retrieves an account by ID
func (r *AuthRepository) FindByID(ctx context.Context, id int64) (*account.Account, error) {
	query := `
		SELECT id, email, name, password_hash, roles, last_visit_at, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	return r.scanAccount(r.db.QueryRow(ctx, query, id))
}

// TouchLastVisit records the time of the account's latest request.
func (r *AuthRepository) TouchLastVisit(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE accounts SET last_visit_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to update last visit: %w", err)
	}
	return nil
}

func (r *AuthRepository) scanAccount(row pgx.Row) (*account.Account, error) {
	var acc account.Account
	err := row.Scan(
		&acc.ID,
		&acc.Email,
		&acc.Name,
		&acc.PasswordHash,
		&acc.Roles,
		&acc.LastVisitAt,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}

	return &acc, nil
}

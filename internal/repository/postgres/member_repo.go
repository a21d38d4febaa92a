// internal/repository/postgres/member_repo.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prorata-service/internal/domain/billing"
	xerrors "prorata-service/internal/pkg/errors"
)

// MemberRepository stores billable users (seats). activated_on and
// deactivated_on are DATE columns; billing only ever needs day granularity.
type MemberRepository struct {
	db *pgxpool.Pool
}

func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{db: db}
}

// Create inserts a new member seat
func (r *MemberRepository) Create(ctx context.Context, user *billing.User) error {
	query := `
		INSERT INTO members (name, customer_id, activated_on)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, user.Name, user.CustomerID, user.ActivatedOn).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}

	return nil
}

// FindByID retrieves a member seat by ID
func (r *MemberRepository) FindByID(ctx context.Context, id int64) (*billing.User, error) {
	query := `
		SELECT id, name, customer_id, activated_on, deactivated_on, created_at, updated_at
		FROM members
		WHERE id = $1
	`

	user, err := scanMember(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	return user, nil
}

// FindByCustomer retrieves all member seats for a customer, oldest first
func (r *MemberRepository) FindByCustomer(ctx context.Context, customerID int64) ([]billing.User, error) {
	query := `
		SELECT id, name, customer_id, activated_on, deactivated_on, created_at, updated_at
		FROM members
		WHERE customer_id = $1
		ORDER BY activated_on, id
	`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var users []billing.User
	for rows.Next() {
		user, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return users, nil
}

// SetDeactivatedOn records the last billable day for a member seat
func (r *MemberRepository) SetDeactivatedOn(ctx context.Context, id int64, day time.Time) error {
	query := `
		UPDATE members
		SET deactivated_on = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, day)
	if err != nil {
		return fmt.Errorf("failed to deactivate member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

func scanMember(row pgx.Row) (*billing.User, error) {
	var user billing.User
	var deactivated sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.CustomerID,
		&user.ActivatedOn,
		&deactivated,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if deactivated.Valid {
		d := deactivated.Time
		user.DeactivatedOn = &d
	}

	return &user, nil
}

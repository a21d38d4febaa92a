// internal/repository/postgres/subscription_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prorata-service/internal/domain/billing"
	xerrors "prorata-service/internal/pkg/errors"
)

// SubscriptionRepository stores one subscription per customer. Prices are
// whole cents so the column is a plain BIGINT.
type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Upsert creates or replaces the customer's subscription
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *billing.Subscription) error {
	query := `
		INSERT INTO subscriptions (customer_id, monthly_price_in_cents)
		VALUES ($1, $2)
		ON CONFLICT (customer_id)
		DO UPDATE SET monthly_price_in_cents = EXCLUDED.monthly_price_in_cents, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, sub.CustomerID, sub.MonthlyPriceInCents).
		Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}

	return nil
}

// FindByCustomer retrieves the customer's subscription
func (r *SubscriptionRepository) FindByCustomer(ctx context.Context, customerID int64) (*billing.Subscription, error) {
	query := `
		SELECT id, customer_id, monthly_price_in_cents, created_at, updated_at
		FROM subscriptions
		WHERE customer_id = $1
	`

	var sub billing.Subscription
	err := r.db.QueryRow(ctx, query, customerID).Scan(
		&sub.ID,
		&sub.CustomerID,
		&sub.MonthlyPriceInCents,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}

	return &sub, nil
}

// Delete removes the customer's subscription
func (r *SubscriptionRepository) Delete(ctx context.Context, customerID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM subscriptions WHERE customer_id = $1`, customerID)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

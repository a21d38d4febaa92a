// internal/domain/billing/entity.go
package billing

import (
	"time"
)

// User is one billable seat on a customer's subscription. ActivatedOn and
// DeactivatedOn are day-granularity bounds; both boundary days count as
// active since the user had some access on those days. A nil DeactivatedOn
// means the seat is still active.
type User struct {
	ID            int64      `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	CustomerID    int64      `json:"customer_id" db:"customer_id"`
	ActivatedOn   time.Time  `json:"activated_on" db:"activated_on"`
	DeactivatedOn *time.Time `json:"deactivated_on,omitempty" db:"deactivated_on"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Subscription is a customer's plan: a flat monthly price charged per
// concurrently-active user.
type Subscription struct {
	ID                  int64 `json:"id" db:"id"`
	CustomerID          int64 `json:"customer_id" db:"customer_id"`
	MonthlyPriceInCents int64 `json:"monthly_price_in_cents" db:"monthly_price_in_cents"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Period is one billing month resolved from a "YYYY-MM" designator.
// FirstDay and LastDay are inclusive, at midnight UTC.
type Period struct {
	Year     int
	Month    time.Month
	FirstDay time.Time
	LastDay  time.Time
	Days     int
}

// Contains reports whether day falls inside the period, boundaries included.
func (p Period) Contains(day time.Time) bool {
	return !day.Before(p.FirstDay) && !day.After(p.LastDay)
}

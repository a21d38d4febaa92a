// internal/domain/product/entity.go
package product

import (
	"database/sql"
	"time"
)

type Product struct {
	ID           int64          `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	Description  sql.NullString `json:"description,omitempty" db:"description"`
	PriceInCents int64          `json:"price_in_cents" db:"price_in_cents"`
	ImageURL     sql.NullString `json:"image_url,omitempty" db:"image_url"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

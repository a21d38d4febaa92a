// internal/domain/billing/dto.go
package billing

import "time"

type AddMemberRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	ActivatedOn string `json:"activated_on" binding:"required"` // YYYY-MM-DD
}

type DeactivateMemberRequest struct {
	DeactivatedOn string `json:"deactivated_on" binding:"required"` // YYYY-MM-DD
}

type SetSubscriptionRequest struct {
	MonthlyPriceInCents int64 `json:"monthly_price_in_cents" binding:"min=0"`
}

// PreviewUser mirrors User for the stateless preview endpoint; dates arrive
// as YYYY-MM-DD strings so callers never deal with timestamp formats.
type PreviewUser struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	CustomerID    int64   `json:"customer_id"`
	ActivatedOn   string  `json:"activated_on" binding:"required"`
	DeactivatedOn *string `json:"deactivated_on"`
}

type PreviewChargeRequest struct {
	Month        string                  `json:"month" binding:"required"`
	Subscription *SetSubscriptionRequest `json:"subscription"`
	Users        []PreviewUser           `json:"users"`
}

type ChargeResponse struct {
	Reference   string    `json:"reference"`
	CustomerID  int64     `json:"customer_id,omitempty"`
	Month       string    `json:"month"`
	ChargeCents int64     `json:"charge_cents"`
	ComputedAt  time.Time `json:"computed_at"`
}

type MemberListResponse struct {
	Members []User `json:"members"`
	Total   int    `json:"total"`
}

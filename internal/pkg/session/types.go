// internal/pkg/session/types.go
package session

import "time"

type SessionData struct {
	ID         string    `json:"id"` // ULID
	AccountID  int64     `json:"account_id"`
	Email      string    `json:"email"`
	Roles      []string  `json:"roles"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	LoginAt    time.Time `json:"login_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	xerrors "prorata-service/internal/pkg/errors"
)

// Manager keeps login sessions in Redis. Redis is the single source of
// truth: a missing key means the session is gone, whatever the token says.
type Manager struct {
	client *redis.Client
}

func NewManager(client *redis.Client) *Manager {
	return &Manager{client: client}
}

// CreateSession stores a new session with a TTL matching its expiry
func (m *Manager) CreateSession(ctx context.Context, sess *SessionData) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := m.client.Set(ctx, m.sessionKey(sess.AccountID, sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}

	return nil
}

// GetSession retrieves a live session or xerrors.ErrSessionExpired
func (m *Manager) GetSession(ctx context.Context, accountID int64, sessionID string) (*SessionData, error) {
	data, err := m.client.Get(ctx, m.sessionKey(accountID, sessionID)).Bytes()
	if err == redis.Nil {
		return nil, xerrors.ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess SessionData
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &sess, nil
}

// TouchSession updates the last-seen timestamp without extending the TTL
func (m *Manager) TouchSession(ctx context.Context, accountID int64, sessionID string) error {
	key := m.sessionKey(accountID, sessionID)

	data, err := m.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return xerrors.ErrSessionExpired
	}
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	var sess SessionData
	if err := json.Unmarshal(data, &sess); err != nil {
		return fmt.Errorf("failed to unmarshal session: %w", err)
	}
	sess.LastSeenAt = time.Now()

	updated, err := json.Marshal(&sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return m.client.Set(ctx, key, updated, redis.KeepTTL).Err()
}

// DeleteSession removes one session (logout)
func (m *Manager) DeleteSession(ctx context.Context, accountID int64, sessionID string) error {
	return m.client.Del(ctx, m.sessionKey(accountID, sessionID)).Err()
}

// DeleteAllSessions removes every session for the account (logout everywhere)
func (m *Manager) DeleteAllSessions(ctx context.Context, accountID int64) error {
	pattern := fmt.Sprintf("session:%d:*", accountID)

	iter := m.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := m.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete session %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan sessions: %w", err)
	}

	return nil
}

func (m *Manager) sessionKey(accountID int64, sessionID string) string {
	return fmt.Sprintf("session:%d:%s", accountID, sessionID)
}

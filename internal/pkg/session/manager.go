// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Manager persists token-pair sessions in Redis. Reads fail soft: a missing,
// expired or corrupt entry reads as "not authenticated", never as an error
// that breaks a rendering path.
type Manager struct {
	client *redis.Client
	logger *zap.Logger
}

func NewManager(client *redis.Client, logger *zap.Logger) *Manager {
	return &Manager{client: client, logger: logger}
}

// Create stores a new session keyed by identity and JTI. The write completes
// before Create returns so the caller can safely redirect next.
func (m *Manager) Create(ctx context.Context, s *Session) error {
	key := m.sessionKey(s.IdentityID, s.JTI)

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	if err := m.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}

	return nil
}

// Get retrieves a session. Returns nil (no error) when the session does not
// exist or cannot be decoded.
func (m *Manager) Get(ctx context.Context, identityID int64, jti string) (*Session, error) {
	key := m.sessionKey(identityID, jti)

	data, err := m.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		m.logger.Warn("corrupt session entry, treating as absent",
			zap.Int64("identity_id", identityID), zap.Error(err))
		return nil, nil
	}

	s.LastActivityAt = time.Now()
	go m.touch(context.Background(), &s)

	return &s, nil
}

// CurrentUser derives the authenticated-user summary for a stored session,
// or nil when no valid session exists. It never returns an error.
func (m *Manager) CurrentUser(ctx context.Context, identityID int64, jti string) *SessionUser {
	s, err := m.Get(ctx, identityID, jti)
	if err != nil {
		m.logger.Warn("session lookup failed", zap.Error(err))
		return nil
	}
	if s == nil {
		return nil
	}
	return s.User()
}

// Invalidate removes a session. Idempotent: invalidating a session that is
// already gone is not an error.
func (m *Manager) Invalidate(ctx context.Context, identityID int64, jti string) error {
	key := m.sessionKey(identityID, jti)
	if err := m.client.Del(ctx, key).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// InvalidateAll removes every session held by an identity.
func (m *Manager) InvalidateAll(ctx context.Context, identityID int64) error {
	pattern := fmt.Sprintf("session:%d:*", identityID)

	iter := m.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := m.client.Del(ctx, iter.Val()).Err(); err != nil {
			m.logger.Warn("failed to delete session", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	return iter.Err()
}

// BlacklistToken marks a JTI as revoked until its natural expiry.
func (m *Manager) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return m.client.Set(ctx, m.blacklistKey(jti), "1", ttl).Err()
}

// IsTokenBlacklisted checks whether a JTI has been revoked.
func (m *Manager) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	exists, err := m.client.Exists(ctx, m.blacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return exists > 0, nil
}

func (m *Manager) touch(ctx context.Context, s *Session) {
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return
	}
	if err := m.client.Set(ctx, m.sessionKey(s.IdentityID, s.JTI), data, ttl).Err(); err != nil {
		m.logger.Warn("failed to update session activity", zap.Error(err))
	}
}

func (m *Manager) sessionKey(identityID int64, jti string) string {
	return fmt.Sprintf("session:%d:%s", identityID, jti)
}

func (m *Manager) blacklistKey(jti string) string {
	return fmt.Sprintf("blacklist:%s", jti)
}

// internal/service/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"freightline-service/internal/domain/quotation"

	"github.com/redis/go-redis/v9"
)

const (
	cartTTL    = 7 * 24 * time.Hour
	historyMax = 20
)

// Store persists one quotation per identity plus a bounded history list.
type Store interface {
	Load(ctx context.Context, identityID int64) (*quotation.Quotation, error)
	Save(ctx context.Context, identityID int64, q *quotation.Quotation) error
	Delete(ctx context.Context, identityID int64) error
	AppendHistory(ctx context.Context, identityID int64, snap quotation.Snapshot) error
	History(ctx context.Context, identityID int64) ([]quotation.Snapshot, error)
}

// RedisStore keeps carts in Redis with a rolling TTL. A missing or corrupt
// entry loads as a fresh empty quotation.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) Load(ctx context.Context, identityID int64) (*quotation.Quotation, error) {
	data, err := s.client.Get(ctx, cartKey(identityID)).Bytes()
	if err == redis.Nil {
		return quotation.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var q quotation.Quotation
	if err := json.Unmarshal(data, &q); err != nil {
		return quotation.New(), nil
	}
	return &q, nil
}

func (s *RedisStore) Save(ctx context.Context, identityID int64, q *quotation.Quotation) error {
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(identityID), data, cartTTL).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, identityID int64) error {
	if err := s.client.Del(ctx, cartKey(identityID)).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

// AppendHistory pushes a snapshot to the head of the history list, trimming
// it to the most recent entries.
func (s *RedisStore) AppendHistory(ctx context.Context, identityID int64, snap quotation.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	key := historyKey(identityID)
	pipe := s.client.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, historyMax-1)
	pipe.Expire(ctx, key, cartTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

func (s *RedisStore) History(ctx context.Context, identityID int64) ([]quotation.Snapshot, error) {
	entries, err := s.client.LRange(ctx, historyKey(identityID), 0, historyMax-1).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	snaps := make([]quotation.Snapshot, 0, len(entries))
	for _, entry := range entries {
		var snap quotation.Snapshot
		if err := json.Unmarshal([]byte(entry), &snap); err != nil {
			continue
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

func cartKey(identityID int64) string {
	return fmt.Sprintf("cart:%d", identityID)
}

func historyKey(identityID int64) string {
	return fmt.Sprintf("cart:history:%d", identityID)
}

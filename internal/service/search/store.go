// internal/service/search/store.go
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const resultTTL = 2 * time.Hour

// Store holds the per-identity search sequence and the latest result view.
type Store interface {
	// NextSeq allocates the next search sequence number for an identity.
	NextSeq(ctx context.Context, identityID int64) (int64, error)
	// PublishResult stores the result view unless a newer sequence has been
	// allocated since; returns false when the result was discarded.
	PublishResult(ctx context.Context, identityID int64, result *Result) (bool, error)
	// LoadResult returns the current view, nil when no search has run.
	LoadResult(ctx context.Context, identityID int64) (*Result, error)
}

// publishScript compares the result's sequence against the current counter
// and stores the payload in the same step, so a slow older search can never
// overwrite a newer result between the check and the write.
var publishScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current > tonumber(ARGV[1]) then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'EX', ARGV[3])
return 1
`)

// RedisStore keeps the sequence counter and result view in Redis.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) NextSeq(ctx context.Context, identityID int64) (int64, error) {
	seq, err := s.client.Incr(ctx, seqKey(identityID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate search sequence: %w", err)
	}
	return seq, nil
}

func (s *RedisStore) PublishResult(ctx context.Context, identityID int64, result *Result) (bool, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return false, fmt.Errorf("failed to marshal search results: %w", err)
	}

	keys := []string{seqKey(identityID), resultKey(identityID)}
	ok, err := publishScript.Run(ctx, s.client, keys,
		result.Seq, data, int(resultTTL.Seconds())).Int()
	if err != nil {
		return false, fmt.Errorf("failed to publish search results: %w", err)
	}
	return ok == 1, nil
}

func (s *RedisStore) LoadResult(ctx context.Context, identityID int64) (*Result, error) {
	data, err := s.client.Get(ctx, resultKey(identityID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read search results: %w", err)
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, nil
	}
	return &result, nil
}

func seqKey(identityID int64) string {
	return fmt.Sprintf("search:seq:%d", identityID)
}

func resultKey(identityID int64) string {
	return fmt.Sprintf("search:results:%d", identityID)
}

package editor

import (
	"context"
	"time"

	qdredis "github.com/lumenline/quotedesk/pkg/redis"
)

// RedisCache persists editor state in Redis with a TTL so abandoned
// sessions age out on their own.
type RedisCache struct {
	client *qdredis.Client
	ttl    time.Duration
}

func NewRedisCache(client *qdredis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, sessionID string, quotationID int64) (string, error) {
	payload, err := r.client.Get(ctx, r.client.EditorStateKey(sessionID, quotationID))
	if qdredis.IsNil(err) {
		return "", nil
	}
	return payload, err
}

func (r *RedisCache) Set(ctx context.Context, sessionID string, quotationID int64, payload string) error {
	return r.client.Set(ctx, r.client.EditorStateKey(sessionID, quotationID), payload, r.ttl)
}

func (r *RedisCache) Del(ctx context.Context, sessionID string, quotationID int64) error {
	return r.client.Del(ctx, r.client.EditorStateKey(sessionID, quotationID))
}

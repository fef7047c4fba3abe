// Package redisstate holds the Redis-backed pieces of the engine: the
// retention-bound chat history and the REST rate limiter.
package redisstate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"collab-canvas/internal/domain"
)

// maxStoredMessages bounds the per-room history list; the join-time
// history is a smaller slice of this.
const maxStoredMessages = 500

// RedisChatRepository keeps each room's chat history in a Redis list.
// Messages are appended with RPUSH so LRANGE reads come back in
// chronological order, and the key carries a TTL refreshed on every
// append (the retention window of the spec).
type RedisChatRepository struct {
	client    *redis.Client
	keyPrefix string
	retention time.Duration
}

func NewRedisChatRepository(client *redis.Client, keyPrefix string, retention time.Duration) *RedisChatRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisChatRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "cc:"
	}
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &RedisChatRepository{client: client, keyPrefix: keyPrefix, retention: retention}
}

func (r *RedisChatRepository) historyKey(roomCode string) string {
	return fmt.Sprintf("%sroom:%s:chat", r.keyPrefix, roomCode)
}

func (r *RedisChatRepository) Append(ctx context.Context, msg domain.ChatMessage) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("redis: marshal chat message: %w", err)
	}
	key := r.historyKey(msg.RoomCode)

	pipe := r.client.Pipeline()
	pipe.RPush(ctx, key, raw)
	pipe.LTrim(ctx, key, int64(-maxStoredMessages), -1)
	pipe.Expire(ctx, key, r.retention)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: append chat message to %s: %w", key, err)
	}
	return nil
}

func (r *RedisChatRepository) Recent(ctx context.Context, roomCode string, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 {
		return nil, nil
	}
	key := r.historyKey(roomCode)
	raws, err := r.client.LRange(ctx, key, int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: read chat history from %s: %w", key, err)
	}
	msgs := make([]domain.ChatMessage, 0, len(raws))
	for _, raw := range raws {
		var msg domain.ChatMessage
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			// One corrupt entry must not take down the whole replay.
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// File: services/intelligence/contextStore.go
package ai

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"calbot/models"
)

const conversationPrefix = "agent:conv:"

// maxHistory bounds how many exchanges are kept per conversation.
const maxHistory = 10

// RedisHistoryStore keeps the recent exchanges of a conversation, with a TTL
// so idle conversations expire on their own.
type RedisHistoryStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisHistoryStore(client *redis.Client, ttl time.Duration) *RedisHistoryStore {
	return &RedisHistoryStore{client: client, ttl: ttl}
}

func (s *RedisHistoryStore) Get(ctx context.Context, userID string) ([]models.Exchange, error) {
	data, err := s.client.Get(ctx, conversationPrefix+userID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var history []models.Exchange
	if err := json.Unmarshal([]byte(data), &history); err != nil {
		return nil, err
	}
	return history, nil
}

// Append records one exchange and refreshes the TTL.
func (s *RedisHistoryStore) Append(ctx context.Context, userID string, ex models.Exchange) error {
	history, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	history = append(history, ex)
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	b, err := json.Marshal(history)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, conversationPrefix+userID, b, s.ttl).Err()
}

func (s *RedisHistoryStore) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, conversationPrefix+userID).Err()
}

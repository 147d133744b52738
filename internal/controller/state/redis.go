package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "proregion:state:"

// RedisStorage хранит диалоги в Redis, переживая перезапуск бота.
// Истечение задаётся TTL ключа.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStorage(client *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, ttl: ttl}
}

func redisKey(telegramID int64) string {
	return redisKeyPrefix + strconv.FormatInt(telegramID, 10)
}

func (r *RedisStorage) Load(ctx context.Context, telegramID int64) (*UserData, error) {
	raw, err := r.client.Get(ctx, redisKey(telegramID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var data UserData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	if data.Data == nil {
		data.Data = map[string]string{}
	}
	return &data, nil
}

func (r *RedisStorage) Save(ctx context.Context, telegramID int64, data *UserData) error {
	if data.State == StateNone {
		return r.Delete(ctx, telegramID)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if err := r.client.Set(ctx, redisKey(telegramID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisStorage) Delete(ctx context.Context, telegramID int64) error {
	if err := r.client.Del(ctx, redisKey(telegramID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"

	"petchef/internal/infrastructure/config"
)

// RedisStore 以 Redis 實作的快取，多個 API 實例可共用
type RedisStore struct {
	client *redis.Client
	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisStore 連線 Redis 並確認可用
func NewRedisStore(cfg config.CacheConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreWithClient(client), nil
}

// NewRedisStoreWithClient 使用既有的 client
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// SetNX 僅在 key 不存在時寫入
func (s *RedisStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set cache: %w", err)
	}
	if ok {
		s.misses.Add(1)
	} else {
		s.hits.Add(1)
	}
	return ok, nil
}

// Delete 移除 key
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key: %w", err)
	}
	return nil
}

// Stats 獲取快取統計
func (s *RedisStore) Stats() map[string]interface{} {
	return map[string]interface{}{
		"driver": "redis",
		"hits":   s.hits.Load(),
		"misses": s.misses.Load(),
	}
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}

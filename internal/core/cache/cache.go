// Package cache 提供短期鍵值快取，目前用於 POST 請求去重
package cache

import (
	"context"
	"fmt"
	"time"

	"petchef/internal/infrastructure/config"
)

// Store 快取介面
type Store interface {
	// SetNX 僅在 key 不存在（或已過期）時寫入，回傳是否寫入成功
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	// Delete 移除 key，不存在時不算錯誤
	Delete(ctx context.Context, key string) error
	Stats() map[string]interface{}
	Close() error
}

// NewStore 依設定建立快取；停用時回傳 nil
func NewStore(cfg config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	switch cfg.Driver {
	case "", "memory":
		return NewManager(cfg), nil
	case "redis":
		rs, err := NewRedisStore(cfg)
		if err != nil {
			return nil, err
		}
		return rs, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

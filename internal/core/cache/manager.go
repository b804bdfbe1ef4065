package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"petchef/internal/infrastructure/config"
	"petchef/internal/pkg/common"
)

// CacheManager 記憶體快取管理器
type CacheManager struct {
	maxSize int
	mu      sync.Mutex
	store   map[string]cacheEntry
	stats   cacheStats
	now     func() time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// cacheEntry 緩存條目
type cacheEntry struct {
	value       string
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// cacheStats 緩存統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
	errors    int64
}

// NewManager 創建快取管理器並啟動清理協程，Close 時停止
func NewManager(cfg config.CacheConfig) *CacheManager {
	m := &CacheManager{
		maxSize: cfg.MaxSize,
		store:   make(map[string]cacheEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	go m.startCleanup(cfg.CleanupInterval)

	common.LogInfo("Cache manager initialized",
		zap.Int("max_size", cfg.MaxSize),
		zap.Duration("cleanup_interval", cfg.CleanupInterval),
	)

	return m
}

// SetNX 僅在 key 不存在或已過期時寫入
func (m *CacheManager) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if entry, exists := m.store[key]; exists {
		if now.Before(entry.expiresAt) {
			entry.lastAccess = now
			entry.accessCount++
			m.store[key] = entry
			m.stats.hits++
			return false, nil
		}
		delete(m.store, key)
		m.stats.evictions++
	}
	m.stats.misses++

	if len(m.store) >= m.maxSize {
		evicted := m.cleanup(now)
		if evicted > 0 {
			common.LogDebug("Cache cleanup on full", zap.Int("evicted", evicted))
		}

		// 仍然超過大小限制，淘汰最少使用的項目
		if len(m.store) >= m.maxSize {
			m.evictLRU()
		}

		if len(m.store) >= m.maxSize {
			m.stats.errors++
			common.LogWarn("Cache is full", zap.Int("size", len(m.store)))
			return false, common.ErrCacheFull
		}
	}

	m.store[key] = cacheEntry{
		value:      value,
		expiresAt:  now.Add(ttl),
		createdAt:  now,
		lastAccess: now,
	}
	return true, nil
}

// Delete 移除項目
func (m *CacheManager) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.store, key)
	return nil
}

// startCleanup 定期清理過期項目
func (m *CacheManager) startCleanup(interval time.Duration) {
	defer close(m.done)
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.mu.Lock()
			count := m.cleanup(m.now())
			m.mu.Unlock()
			if count > 0 {
				common.LogDebug("Cleaned up expired cache entries", zap.Int("count", count))
			}
		}
	}
}

// cleanup 清理過期項目，呼叫者需持有鎖
func (m *CacheManager) cleanup(now time.Time) int {
	count := 0
	for key, entry := range m.store {
		if !now.Before(entry.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.evictions++
		}
	}
	return count
}

// evictLRU 淘汰存取次數最少、最久未用的項目
func (m *CacheManager) evictLRU() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range m.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
	}
}

// Stats 獲取緩存統計信息
func (m *CacheManager) Stats() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	ratio := 0.0
	if total := m.stats.hits + m.stats.misses; total > 0 {
		ratio = float64(m.stats.hits) / float64(total)
	}

	return map[string]interface{}{
		"driver":    "memory",
		"size":      len(m.store),
		"max_size":  m.maxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"errors":    m.stats.errors,
		"hit_ratio": ratio,
	}
}

// Close 停止清理協程並清空快取，可重複呼叫
func (m *CacheManager) Close() error {
	m.closeOnce.Do(func() {
		close(m.stop)
		<-m.done

		m.mu.Lock()
		m.store = make(map[string]cacheEntry)
		common.LogInfo("Cache manager closed",
			zap.Int64("hits", m.stats.hits),
			zap.Int64("misses", m.stats.misses),
			zap.Int64("evictions", m.stats.evictions),
		)
		m.mu.Unlock()
	})
	return nil
}

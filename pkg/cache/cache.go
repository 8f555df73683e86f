package cache

import (
	"sync"
	"time"

	"github.com/toolpilot-ai/toolpilot/models"
)

// Stats 缓存统计信息
type Stats struct {
	// 当前缓存大小
	Size int

	// 命中率
	HitRate float64

	// 命中次数
	Hits int

	// 未命中次数
	Misses int

	// 被动过期条目数
	ExpiredEntries int
}

// entry 缓存条目
type entry struct {
	entries    []models.RecommendationEntry
	expiry     time.Time
	lastAccess time.Time
}

// SetCache 按用户缓存最近一轮推荐集，TTL过期+容量淘汰
type SetCache struct {
	data             map[uint]entry
	maxEntries       int
	ttl              time.Duration
	mu               sync.Mutex
	evictionCallback func(uint, []models.RecommendationEntry)

	// 统计信息
	hits    int
	misses  int
	expired int
}

// NewSetCache 创建推荐集缓存
func NewSetCache(maxEntries int, ttl time.Duration) *SetCache {
	return &SetCache{
		data:       make(map[uint]entry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

// SetEvictionCallback 设置条目淘汰回调
func (c *SetCache) SetEvictionCallback(callback func(uint, []models.RecommendationEntry)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evictionCallback = callback
}

// Get 读取用户的缓存推荐集，过期视为未命中
func (c *SetCache) Get(userID uint) ([]models.RecommendationEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[userID]
	if !ok {
		c.misses++
		return nil, false
	}
	if time.Now().After(e.expiry) {
		c.expired++
		c.misses++
		delete(c.data, userID)
		return nil, false
	}

	e.lastAccess = time.Now()
	c.data[userID] = e
	c.hits++
	return e.entries, true
}

// Set 写入用户的推荐集，容量满时淘汰最久未访问的条目
func (c *SetCache) Set(userID uint, entries []models.RecommendationEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[userID]; !exists && len(c.data) >= c.maxEntries {
		c.evictOldest()
	}

	now := time.Now()
	c.data[userID] = entry{
		entries:    entries,
		expiry:     now.Add(c.ttl),
		lastAccess: now,
	}
}

// Invalidate 失效指定用户的缓存（反馈或重新生成后调用）
func (c *SetCache) Invalidate(userID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, userID)
}

// GetStats 读取统计信息
func (c *SetCache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		Size:           len(c.data),
		Hits:           c.hits,
		Misses:         c.misses,
		ExpiredEntries: c.expired,
	}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total)
	}
	return stats
}

// 调用方必须已持锁
func (c *SetCache) evictOldest() {
	var oldestKey uint
	var oldestAccess time.Time
	first := true
	for key, e := range c.data {
		if first || e.lastAccess.Before(oldestAccess) {
			oldestKey = key
			oldestAccess = e.lastAccess
			first = false
		}
	}
	if first {
		return
	}
	evicted := c.data[oldestKey]
	delete(c.data, oldestKey)
	if c.evictionCallback != nil {
		c.evictionCallback(oldestKey, evicted.entries)
	}
}

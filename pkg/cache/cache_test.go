package cache

import (
	"testing"
	"time"

	"github.com/toolpilot-ai/toolpilot/models"

	"github.com/stretchr/testify/assert"
)

func entriesFor(userID uint, toolIDs ...uint) []models.RecommendationEntry {
	result := make([]models.RecommendationEntry, 0, len(toolIDs))
	for i, toolID := range toolIDs {
		result = append(result, models.RecommendationEntry{
			UserID: userID, ToolID: toolID, Rank: i + 1, Status: models.RecommendationActive,
		})
	}
	return result
}

func TestGetSet(t *testing.T) {
	c := NewSetCache(10, time.Hour)

	c.Set(1, entriesFor(1, 10, 11))
	c.Set(2, entriesFor(2, 20))

	got, found := c.Get(1)
	assert.True(t, found)
	assert.Len(t, got, 2)
	assert.Equal(t, uint(10), got[0].ToolID)

	// 未缓存的用户未命中
	_, found = c.Get(99)
	assert.False(t, found)

	// 验证统计信息
	stats := c.GetStats()
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRate, 0.001)
}

func TestExpiry(t *testing.T) {
	c := NewSetCache(10, 50*time.Millisecond)

	c.Set(1, entriesFor(1, 10))
	_, found := c.Get(1)
	assert.True(t, found)

	// 等待过期
	time.Sleep(100 * time.Millisecond)

	_, found = c.Get(1)
	assert.False(t, found)

	stats := c.GetStats()
	assert.Equal(t, 1, stats.ExpiredEntries)
	assert.Equal(t, 0, stats.Size)
}

func TestEviction(t *testing.T) {
	c := NewSetCache(2, time.Hour)

	var evicted []uint
	c.SetEvictionCallback(func(userID uint, _ []models.RecommendationEntry) {
		evicted = append(evicted, userID)
	})

	c.Set(1, entriesFor(1, 10))
	c.Set(2, entriesFor(2, 20))

	// 访问1，让2成为最久未访问
	_, _ = c.Get(1)

	c.Set(3, entriesFor(3, 30))

	assert.Equal(t, []uint{2}, evicted)
	assert.Equal(t, 2, c.GetStats().Size)

	_, found := c.Get(2)
	assert.False(t, found)
	_, found = c.Get(1)
	assert.True(t, found)
	_, found = c.Get(3)
	assert.True(t, found)
}

func TestInvalidate(t *testing.T) {
	c := NewSetCache(10, time.Hour)

	c.Set(1, entriesFor(1, 10))
	c.Invalidate(1)

	_, found := c.Get(1)
	assert.False(t, found)
}

func TestSetOverwritesExistingWithoutEviction(t *testing.T) {
	c := NewSetCache(2, time.Hour)

	var evictions int
	c.SetEvictionCallback(func(uint, []models.RecommendationEntry) { evictions++ })

	c.Set(1, entriesFor(1, 10))
	c.Set(2, entriesFor(2, 20))
	// 覆盖已有键不应触发淘汰
	c.Set(1, entriesFor(1, 11))

	assert.Equal(t, 0, evictions)
	got, found := c.Get(1)
	assert.True(t, found)
	assert.Equal(t, uint(11), got[0].ToolID)
}

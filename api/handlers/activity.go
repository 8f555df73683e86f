package handlers

import (
	"fmt"
	"net/http"

	"github.com/toolpilot-ai/toolpilot/models"
	"github.com/toolpilot-ai/toolpilot/pkg/progression"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// RecordActivity 上报一条活动事件
// 状态转移型事件天然幂等；计数型事件可带clientEventId保证重试幂等
func (e *Env) RecordActivity(c *gin.Context) {
	userID, _ := c.Get("userID")

	var req models.ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := &models.ActivityEvent{
		UserID:          userID.(uint),
		ToolID:          req.ToolID,
		SubjectID:       req.SubjectID,
		EventType:       req.EventType,
		DurationMinutes: req.DurationMinutes,
		Metadata:        datatypes.JSONMap(req.Metadata),
	}
	if req.ClientEventID != "" {
		event.DedupKey = fmt.Sprintf("%d:%s:%s", userID.(uint), req.EventType, req.ClientEventID)
	}

	stats, applied, err := e.Ledger.ApplyEvent(c.Request.Context(), event)
	if err != nil {
		if err == progression.ErrInvalidEvent {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity event"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record activity"})
		return
	}

	// 积分发放与活动计数解耦：仅首次入账的事件触发发放
	if applied {
		if points, reason := progression.PointsForEvent(req.EventType); points > 0 {
			stats, err = e.Ledger.AwardPoints(c.Request.Context(), userID.(uint), points, reason)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to award points"})
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"applied": applied,
		"stats":   stats,
	})
}

// GetStats 获取仪表盘统计：累计数据+等级+成就进度
func (e *Env) GetStats(c *gin.Context) {
	userID, _ := c.Get("userID")

	stats, err := e.Ledger.StatsForUser(c.Request.Context(), userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	achievements, err := e.Ledger.AchievementStatuses(c.Request.Context(), userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load achievements"})
		return
	}

	response := models.StatsResponse{
		Stats:         *stats,
		Level:         e.Resolver.CurrentLevel(stats.TotalPoints),
		NextLevel:     e.Resolver.NextLevel(stats.TotalPoints),
		LevelProgress: e.Resolver.LevelProgress(stats.TotalPoints),
		Achievements:  achievements,
	}

	c.JSON(http.StatusOK, response)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListLevels 获取等级目录
func (e *Env) ListLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"levels": e.Resolver.Levels()})
}

// ListAchievements 获取成就目录及当前用户的解锁进度
func (e *Env) ListAchievements(c *gin.Context) {
	userID, _ := c.Get("userID")

	statuses, err := e.Ledger.AchievementStatuses(c.Request.Context(), userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load achievements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"achievements": statuses})
}

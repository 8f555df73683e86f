package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/toolpilot-ai/toolpilot/models"
	"github.com/toolpilot-ai/toolpilot/pkg/recommend"

	"github.com/gin-gonic/gin"
)

// GenerateRecommendations 执行一轮推荐并返回新的活动推荐集
func (e *Env) GenerateRecommendations(c *gin.Context) {
	userID, _ := c.Get("userID")

	entries, err := e.Manager.Generate(c.Request.Context(), userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate recommendations"})
		return
	}

	if e.Cache != nil {
		e.Cache.Set(userID.(uint), entries)
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": entries,
		"count":           len(entries),
	})
}

// ListRecommendations 获取当前活动推荐集，优先走缓存
func (e *Env) ListRecommendations(c *gin.Context) {
	userID, _ := c.Get("userID")

	if e.Cache != nil {
		if entries, found := e.Cache.Get(userID.(uint)); found {
			c.JSON(http.StatusOK, gin.H{"recommendations": entries, "cached": true})
			return
		}
	}

	entries, err := e.Manager.ActiveSet(c.Request.Context(), userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load recommendations"})
		return
	}

	if e.Cache != nil {
		e.Cache.Set(userID.(uint), entries)
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": entries})
}

// RecordFeedback 记录对推荐条目的反馈
func (e *Env) RecordFeedback(c *gin.Context) {
	userID, _ := c.Get("userID")

	toolID, err := strconv.ParseUint(c.Param("toolId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tool id"})
		return
	}

	var req models.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := e.Manager.RecordFeedback(c.Request.Context(), userID.(uint), uint(toolID), req.Action)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrEntryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Recommendation not found"})
		case errors.Is(err, recommend.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Feedback not allowed for current status"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record feedback"})
		}
		return
	}

	// 反馈改变活动集，缓存立即失效
	if e.Cache != nil {
		e.Cache.Invalidate(userID.(uint))
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Feedback recorded",
		"entry":   entry,
	})
}

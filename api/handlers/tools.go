package handlers

import (
	"net/http"

	"github.com/toolpilot-ai/toolpilot/database"
	"github.com/toolpilot-ai/toolpilot/models"

	"github.com/gin-gonic/gin"
)

// ListTools 获取工具目录（仅active状态）
func ListTools(c *gin.Context) {
	query := database.DB.Where("status = ?", models.ToolActive)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var tools []models.Tool
	if err := query.Order("popularity_score DESC").Find(&tools).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tools"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tools": tools})
}

// GetTool 获取单个工具详情
func GetTool(c *gin.Context) {
	var tool models.Tool
	if err := database.DB.First(&tool, c.Param("toolId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tool not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tool": tool})
}

package handlers

import (
	"net/http"

	"github.com/toolpilot-ai/toolpilot/database"
	"github.com/toolpilot-ai/toolpilot/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetProfile 获取当前用户画像
func GetProfile(c *gin.Context) {
	userID, _ := c.Get("userID")

	var profile models.UserProfile
	if err := database.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found, complete onboarding first"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpsertProfile 创建或更新用户画像（onboarding及后续编辑共用）
func UpsertProfile(c *gin.Context) {
	userID, _ := c.Get("userID")

	var req models.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile := models.UserProfile{
		UserID:           userID.(uint),
		Role:             req.Role,
		Industry:         req.Industry,
		CompanySize:      req.CompanySize,
		AIExperience:     req.AIExperience,
		Goals:            req.Goals,
		TimeAvailability: req.TimeAvailability,
	}

	// (user_id)唯一，存在则整体更新
	err := database.DB.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"role", "industry", "company_size", "ai_experience", "goals", "time_availability", "updated_at",
			}),
		}).
		Create(&profile).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}

	// 标记用户完成onboarding
	database.DB.Model(&models.User{}).Where("id = ?", userID).Update("onboarded", true)

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile saved successfully",
		"profile": profile,
	})
}

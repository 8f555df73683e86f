package models

import (
	"time"
)

// AI使用经验等级
type AIExperience string

const (
	ExperienceNever        AIExperience = "never"
	ExperienceBeginner     AIExperience = "beginner"
	ExperienceIntermediate AIExperience = "intermediate"
	ExperienceAdvanced     AIExperience = "advanced"
)

// UserProfile 用户画像模型，onboarding完成后创建
type UserProfile struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	UserID      uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	Role        string `json:"role" gorm:"size:50"`
	Industry    string `json:"industry" gorm:"size:50"`
	CompanySize string `json:"company_size" gorm:"size:20"`

	// AI经验与目标
	AIExperience     AIExperience `json:"ai_experience" gorm:"size:20;default:'never'"`
	Goals            []string     `json:"goals" gorm:"serializer:json"` // 按优先级排序
	TimeAvailability string       `json:"time_availability" gorm:"size:30"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileRequest 画像创建/编辑请求
type ProfileRequest struct {
	Role             string       `json:"role" binding:"required"`
	Industry         string       `json:"industry" binding:"required"`
	CompanySize      string       `json:"companySize"`
	AIExperience     AIExperience `json:"aiExperience" binding:"required,oneof=never beginner intermediate advanced"`
	Goals            []string     `json:"goals"`
	TimeAvailability string       `json:"timeAvailability"`
}

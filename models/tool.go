package models

import (
	"time"
)

// 定价模式
type PricingModel string

const (
	PricingFree     PricingModel = "free"
	PricingFreemium PricingModel = "freemium"
	PricingPaid     PricingModel = "paid"
)

// 部署难度
type SetupDifficulty string

const (
	SetupEasy   SetupDifficulty = "easy"
	SetupMedium SetupDifficulty = "medium"
	SetupHard   SetupDifficulty = "hard"
)

// 见效时间档位
type TimeToValue string

const (
	ValueInMinutes TimeToValue = "minutes"
	ValueInHours   TimeToValue = "hours"
	ValueInDays    TimeToValue = "days"
)

// 工具目录状态
type ToolStatus string

const (
	ToolActive   ToolStatus = "active"
	ToolArchived ToolStatus = "archived"
)

// Tool 第三方AI工具目录条目
type Tool struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	Name             string          `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Category         string          `json:"category" gorm:"size:50;index"`
	Description      string          `json:"description" gorm:"size:500"`
	PricingModel     PricingModel    `json:"pricingModel" gorm:"size:20;default:'free'"`
	PricingAmount    float64         `json:"pricingAmount"` // 月费（美元）
	SetupDifficulty  SetupDifficulty `json:"setupDifficulty" gorm:"size:20;default:'medium'"`
	TimeToValue      TimeToValue     `json:"timeToValue" gorm:"size:20;default:'hours'"`
	TargetRoles      []string        `json:"targetRoles" gorm:"serializer:json"`
	TargetIndustries []string        `json:"targetIndustries" gorm:"serializer:json"`
	UserRating       float64         `json:"userRating"`      // 用户评分 0-5
	PopularityScore  float64         `json:"popularityScore"` // 热度评分
	Status           ToolStatus      `json:"status" gorm:"size:20;default:'active';index"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// MatchesRole 判断工具是否面向指定角色
func (t *Tool) MatchesRole(role string) bool {
	for _, r := range t.TargetRoles {
		if r == role {
			return true
		}
	}
	return false
}

package models

import (
	"time"
)

// 成就条件字段，解锁条件统一用阈值谓词表达，由progression包集中解释
type CriteriaField string

const (
	FieldToolsImplemented    CriteriaField = "tools_implemented"
	FieldModulesCompleted    CriteriaField = "modules_completed"
	FieldGuidesCompleted     CriteriaField = "guides_completed"
	FieldStreakDays          CriteriaField = "streak_days"
	FieldTimeInvestedMinutes CriteriaField = "time_invested_minutes"
	FieldTotalPoints         CriteriaField = "total_points"
)

// AchievementCriteria 阈值谓词：stats[Field] >= Threshold 即解锁
type AchievementCriteria struct {
	Kind      string        `json:"kind"` // 目前仅"threshold"
	Field     CriteriaField `json:"field"`
	Threshold int           `json:"threshold"`
}

// Achievement 成就定义，静态目录
type Achievement struct {
	ID          uint                `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Points      int                 `json:"points"` // 解锁时发放的积分
	Criteria    AchievementCriteria `json:"criteria"`
}

// UserAchievement 用户成就解锁记录，(用户,成就)唯一，解锁后不可撤销
type UserAchievement struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"uniqueIndex:idx_user_achievement;not null"`
	AchievementID uint      `json:"achievement_id" gorm:"uniqueIndex:idx_user_achievement;not null"`
	EarnedAt      time.Time `json:"earned_at"`
}

// AchievementStatus 成就展示状态
type AchievementStatus struct {
	Achievement Achievement `json:"achievement"`
	Earned      bool        `json:"earned"`
	EarnedAt    *time.Time  `json:"earnedAt,omitempty"`
	Progress    float64     `json:"progress"` // 0-100
}

// AchievementCatalog 返回全部成就定义
func AchievementCatalog() []Achievement {
	return []Achievement{
		{
			ID:          1,
			Name:        "First Steps",
			Description: "Implement your first AI tool",
			Icon:        "rocket",
			Points:      50,
			Criteria:    AchievementCriteria{Kind: "threshold", Field: FieldToolsImplemented, Threshold: 1},
		},
		{
			ID:          2,
			Name:        "Tool Collector",
			Description: "Implement 5 AI tools",
			Icon:        "toolbox",
			Points:      150,
			Criteria:    AchievementCriteria{Kind: "threshold", Field: FieldToolsImplemented, Threshold: 5},
		},
		{
			ID:          3,
			Name:        "Quick Study",
			Description: "Complete 3 learning modules",
			Icon:        "book",
			Points:      75,
			Criteria:    AchievementCriteria{Kind: "threshold", Field: FieldModulesCompleted, Threshold: 3},
		},
		{
			ID:          4,
			Name:        "Guide Graduate",
			Description: "Complete 5 implementation guides",
			Icon:        "map",
			Points:      100,
			Criteria:    AchievementCriteria{Kind: "threshold", Field: FieldGuidesCompleted, Threshold: 5},
		},
		{
			ID:          5,
			Name:        "Week Warrior",
			Description: "Keep a 7-day activity streak",
			Icon:        "flame",
			Points:      100,
			Criteria:    AchievementCriteria{Kind: "threshold", Field: FieldStreakDays, Threshold: 7},
		},
		{
			ID:          6,
			Name:        "Marathon Learner",
			Description: "Keep a 30-day activity streak",
			Icon:        "trophy",
			Points:      300,
			Criteria:    AchievementCriteria{Kind: "threshold", Field: FieldStreakDays, Threshold: 30},
		},
		{
			ID:          7,
			Name:        "Time Well Spent",
			Description: "Invest 10 hours in learning",
			Icon:        "clock",
			Points:      120,
			Criteria:    AchievementCriteria{Kind: "threshold", Field: FieldTimeInvestedMinutes, Threshold: 600},
		},
		{
			ID:          8,
			Name:        "Point Hunter",
			Description: "Earn 1000 points",
			Icon:        "star",
			Points:      200,
			Criteria:    AchievementCriteria{Kind: "threshold", Field: FieldTotalPoints, Threshold: 1000},
		},
	}
}

package models

import (
	"time"
)

// UserStats 用户累计统计，由活动事件派生，每个用户一行
// 除streak外所有计数器单调不减
type UserStats struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"uniqueIndex;not null"`

	TotalPoints              int `json:"total_points" gorm:"default:0"`
	StreakDays               int `json:"streak_days" gorm:"default:0"`
	ToolsImplemented         int `json:"tools_implemented" gorm:"default:0"`
	ModulesCompleted         int `json:"modules_completed" gorm:"default:0"`
	GuidesCompleted          int `json:"guides_completed" gorm:"default:0"`
	AchievementsEarned       int `json:"achievements_earned" gorm:"default:0"`
	TotalTimeInvestedMinutes int `json:"total_time_invested_minutes" gorm:"default:0"`

	// 仅存日期部分（UTC），用于连续打卡判定
	LastActivityDate *time.Time `json:"last_activity_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PointAward 积分发放流水，审计用
type PointAward struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason" gorm:"size:200"`
	CreatedAt time.Time `json:"created_at"`
}

// StatsResponse 仪表盘统计响应（统计+等级+成就进度）
type StatsResponse struct {
	Stats         UserStats           `json:"stats"`
	Level         Level               `json:"level"`
	NextLevel     *Level              `json:"nextLevel,omitempty"`
	LevelProgress float64             `json:"levelProgress"`
	Achievements  []AchievementStatus `json:"achievements"`
}

package models

import (
	"time"
)

// 推荐优先级档位
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// 推荐条目状态
type RecommendationStatus string

const (
	RecommendationActive      RecommendationStatus = "active"
	RecommendationDismissed   RecommendationStatus = "dismissed"
	RecommendationImplemented RecommendationStatus = "implemented"
)

// 用户反馈动作
type FeedbackAction string

const (
	FeedbackInterested   FeedbackAction = "interested"
	FeedbackDismissed    FeedbackAction = "dismissed"
	FeedbackImplementing FeedbackAction = "implementing"
)

// RecommendationEntry 推荐条目，每个(用户,工具)至多一条，只做状态流转不做物理删除
type RecommendationEntry struct {
	ID       uint                 `json:"id" gorm:"primaryKey"`
	UserID   uint                 `json:"user_id" gorm:"uniqueIndex:idx_user_tool;not null"`
	ToolID   uint                 `json:"tool_id" gorm:"uniqueIndex:idx_user_tool;not null"`
	Score    int                  `json:"score"` // 0-100
	Reason   string               `json:"reason" gorm:"size:500"`
	Priority Priority             `json:"priority" gorm:"size:10"`
	Status   RecommendationStatus `json:"status" gorm:"size:20;default:'active';index"`
	Rank     int                  `json:"rank"` // 本轮推荐中的名次，从1开始

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PriorityForScore 按固定阈值把分数映射为优先级档位
func PriorityForScore(score int) Priority {
	switch {
	case score >= 80:
		return PriorityHigh
	case score >= 60:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// FeedbackRequest 推荐反馈请求
type FeedbackRequest struct {
	Action FeedbackAction `json:"action" binding:"required,oneof=interested dismissed implementing"`
}

// RecommendationResponse 推荐条目响应（含工具信息）
type RecommendationResponse struct {
	RecommendationEntry
	Tool *Tool `json:"tool,omitempty"`
}

package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// 活动事件类型
type EventType string

const (
	EventToolViewed      EventType = "viewed"
	EventToolDismissed   EventType = "dismissed"
	EventToolImplemented EventType = "implemented"
	EventModuleCompleted EventType = "module_completed"
	EventGuideCompleted  EventType = "guide_completed"
	EventSession         EventType = "session"
)

// ActivityEvent 活动事件，只追加不修改，是所有派生状态的唯一事实来源
type ActivityEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	ToolID    *uint     `json:"tool_id"`                      // 工具相关事件
	SubjectID string    `json:"subject_id" gorm:"size:100"`   // 模块/指南标识
	EventType EventType `json:"event_type" gorm:"size:30;not null"`

	// 去重键，唯一索引保证同一逻辑事件重放不会重复记账
	DedupKey string `json:"dedup_key" gorm:"size:160;uniqueIndex;not null"`

	DurationMinutes int               `json:"duration_minutes"` // session事件时长
	Metadata        datatypes.JSONMap `json:"metadata"`
	CreatedAt       time.Time         `json:"created_at"`
}

// 状态转移型事件按(user, subject, type)去重；计数型事件由调用方提供唯一键
func (e *ActivityEvent) IsCompletion() bool {
	switch e.EventType {
	case EventToolImplemented, EventModuleCompleted, EventGuideCompleted:
		return true
	}
	return false
}

// BuildDedupKey 为状态转移型事件生成确定性去重键
func (e *ActivityEvent) BuildDedupKey() string {
	if e.ToolID != nil {
		return fmt.Sprintf("%d:%s:tool:%d", e.UserID, e.EventType, *e.ToolID)
	}
	return fmt.Sprintf("%d:%s:%s", e.UserID, e.EventType, e.SubjectID)
}

// ActivityRequest 活动上报请求
type ActivityRequest struct {
	EventType       EventType              `json:"eventType" binding:"required,oneof=viewed dismissed implemented module_completed guide_completed session"`
	ToolID          *uint                  `json:"toolId"`
	SubjectID       string                 `json:"subjectId"`
	ClientEventID   string                 `json:"clientEventId"` // 计数型事件的幂等键，缺省时服务端生成
	DurationMinutes int                    `json:"durationMinutes"`
	Metadata        map[string]interface{} `json:"metadata"`
}

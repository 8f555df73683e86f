package progression

import (
	"time"

	"github.com/toolpilot-ai/toolpilot/models"
)

// Resolver 等级与成就解析器，纯查表/阈值逻辑
type Resolver struct {
	levels       []models.Level // 按PointsRequired升序
	achievements []models.Achievement
}

// NewResolver 创建解析器，默认使用内置目录
func NewResolver() *Resolver {
	return &Resolver{
		levels:       models.LevelCatalog(),
		achievements: models.AchievementCatalog(),
	}
}

// Levels 返回等级目录
func (r *Resolver) Levels() []models.Level {
	return r.levels
}

// Achievements 返回成就目录
func (r *Resolver) Achievements() []models.Achievement {
	return r.achievements
}

// CurrentLevel 返回门槛不超过当前积分的最高等级
func (r *Resolver) CurrentLevel(points int) models.Level {
	current := r.levels[0]
	for _, level := range r.levels {
		if level.PointsRequired <= points {
			current = level
		}
	}
	return current
}

// NextLevel 返回门槛高于当前积分的最低等级，满级时返回nil
func (r *Resolver) NextLevel(points int) *models.Level {
	for i := range r.levels {
		if r.levels[i].PointsRequired > points {
			return &r.levels[i]
		}
	}
	return nil
}

// LevelProgress 当前等级到下一等级的进度百分比，满级返回100
func (r *Resolver) LevelProgress(points int) float64 {
	current := r.CurrentLevel(points)
	next := r.NextLevel(points)
	if next == nil {
		return 100
	}
	span := float64(next.PointsRequired - current.PointsRequired)
	if span <= 0 {
		return 100
	}
	progress := float64(points-current.PointsRequired) / span * 100
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

// CriteriaMet 判断成就解锁条件是否满足
func (r *Resolver) CriteriaMet(a *models.Achievement, stats *models.UserStats) bool {
	return criteriaValue(a.Criteria.Field, stats) >= a.Criteria.Threshold
}

// AchievementProgress 成就完成进度百分比，上限100
func (r *Resolver) AchievementProgress(a *models.Achievement, stats *models.UserStats) float64 {
	if a.Criteria.Threshold <= 0 {
		return 100
	}
	progress := float64(criteriaValue(a.Criteria.Field, stats)) / float64(a.Criteria.Threshold) * 100
	if progress > 100 {
		return 100
	}
	return progress
}

// StatusForUser 生成全部成就的展示状态
func (r *Resolver) StatusForUser(stats *models.UserStats, earned map[uint]*models.UserAchievement) []models.AchievementStatus {
	statuses := make([]models.AchievementStatus, 0, len(r.achievements))
	for i := range r.achievements {
		a := r.achievements[i]
		status := models.AchievementStatus{Achievement: a}
		if row, ok := earned[a.ID]; ok {
			status.Earned = true
			earnedAt := row.EarnedAt
			status.EarnedAt = &earnedAt
			status.Progress = 100
		} else {
			status.Progress = r.AchievementProgress(&a, stats)
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// 条件字段到统计值的唯一映射点
func criteriaValue(field models.CriteriaField, stats *models.UserStats) int {
	if stats == nil {
		return 0
	}
	switch field {
	case models.FieldToolsImplemented:
		return stats.ToolsImplemented
	case models.FieldModulesCompleted:
		return stats.ModulesCompleted
	case models.FieldGuidesCompleted:
		return stats.GuidesCompleted
	case models.FieldStreakDays:
		return stats.StreakDays
	case models.FieldTimeInvestedMinutes:
		return stats.TotalTimeInvestedMinutes
	case models.FieldTotalPoints:
		return stats.TotalPoints
	}
	return 0
}

// 打卡日期归一化到UTC零点
func toDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

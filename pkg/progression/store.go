package progression

import (
	"context"
	"time"

	"github.com/toolpilot-ai/toolpilot/models"
	"github.com/toolpilot-ai/toolpilot/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterDelta 计数器增量，字段名与UserStats列对应
type CounterDelta struct {
	ToolsImplemented    int
	ModulesCompleted    int
	GuidesCompleted     int
	AchievementsEarned  int
	TimeInvestedMinutes int
}

// StatsStore 用户统计存储接口
// 计数器更新必须在存储层原子完成，禁止读改写
type StatsStore interface {
	Get(ctx context.Context, userID uint) (*models.UserStats, error)
	EnsureExists(ctx context.Context, userID uint) error
	IncrementCounters(ctx context.Context, userID uint, delta CounterDelta) error
	AddPoints(ctx context.Context, userID uint, amount int) error
	AdvanceStreak(ctx context.Context, userID uint, today, yesterday time.Time) error
}

// EventStore 活动事件存储接口，按去重键插入
type EventStore interface {
	// Insert 插入事件，去重键冲突时不再插入并返回created=false
	Insert(ctx context.Context, event *models.ActivityEvent) (created bool, err error)
}

// AchievementStore 用户成就存储接口
type AchievementStore interface {
	EarnedByUser(ctx context.Context, userID uint) (map[uint]*models.UserAchievement, error)
	// Earn 不存在才插入，(user, achievement)唯一约束兜底防重复解锁
	Earn(ctx context.Context, ua *models.UserAchievement) (created bool, err error)
}

// AwardStore 积分发放流水存储接口
type AwardStore interface {
	Append(ctx context.Context, award *models.PointAward) error
}

// TxRunner 在单个事务内执行fn，fn内对传入store的操作要么全部生效要么全部回滚
type TxRunner interface {
	InTx(ctx context.Context, fn func(stats StatsStore, events EventStore) error) error
}

// GormStore 基于gorm的进度存储实现
type GormStore struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewGormStore 创建进度存储
func NewGormStore(db *gorm.DB, baseLog *logger.Logger) *GormStore {
	return &GormStore{db: db, log: baseLog.With("store", "progression")}
}

func (s *GormStore) Get(ctx context.Context, userID uint) (*models.UserStats, error) {
	var stats models.UserStats
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// EnsureExists 惰性创建统计行，首个活动到达时建行
func (s *GormStore) EnsureExists(ctx context.Context, userID uint) error {
	stats := models.UserStats{UserID: userID}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&stats).Error
}

func (s *GormStore) IncrementCounters(ctx context.Context, userID uint, delta CounterDelta) error {
	updates := map[string]interface{}{}
	if delta.ToolsImplemented != 0 {
		updates["tools_implemented"] = gorm.Expr("tools_implemented + ?", delta.ToolsImplemented)
	}
	if delta.ModulesCompleted != 0 {
		updates["modules_completed"] = gorm.Expr("modules_completed + ?", delta.ModulesCompleted)
	}
	if delta.GuidesCompleted != 0 {
		updates["guides_completed"] = gorm.Expr("guides_completed + ?", delta.GuidesCompleted)
	}
	if delta.AchievementsEarned != 0 {
		updates["achievements_earned"] = gorm.Expr("achievements_earned + ?", delta.AchievementsEarned)
	}
	if delta.TimeInvestedMinutes != 0 {
		updates["total_time_invested_minutes"] = gorm.Expr("total_time_invested_minutes + ?", delta.TimeInvestedMinutes)
	}
	if len(updates) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.UserStats{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
}

// AddPoints 原子加减积分，扣减时下限为0
func (s *GormStore) AddPoints(ctx context.Context, userID uint, amount int) error {
	return s.db.WithContext(ctx).Model(&models.UserStats{}).
		Where("user_id = ?", userID).
		Update("total_points", gorm.Expr("GREATEST(total_points + ?, 0)", amount)).Error
}

// AdvanceStreak 每日打卡推进，同一天重复活动不改变streak
// WHERE条件保证每个日历日只有一个写入者生效
func (s *GormStore) AdvanceStreak(ctx context.Context, userID uint, today, yesterday time.Time) error {
	return s.db.WithContext(ctx).Model(&models.UserStats{}).
		Where("user_id = ? AND (last_activity_date IS NULL OR last_activity_date < ?)", userID, today).
		Updates(map[string]interface{}{
			"streak_days":        gorm.Expr("CASE WHEN last_activity_date = ? THEN streak_days + 1 ELSE 1 END", yesterday),
			"last_activity_date": today,
		}).Error
}

func (s *GormStore) Insert(ctx context.Context, event *models.ActivityEvent) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dedup_key"}},
			DoNothing: true,
		}).
		Create(event)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *GormStore) EarnedByUser(ctx context.Context, userID uint) (map[uint]*models.UserAchievement, error) {
	var rows []*models.UserAchievement
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	earned := make(map[uint]*models.UserAchievement, len(rows))
	for _, row := range rows {
		earned[row.AchievementID] = row
	}
	return earned, nil
}

// 重复解锁依赖(user_id, achievement_id)唯一索引拦截，而不是重查谓词
func (s *GormStore) Earn(ctx context.Context, ua *models.UserAchievement) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).
		Create(ua)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *GormStore) Append(ctx context.Context, award *models.PointAward) error {
	return s.db.WithContext(ctx).Create(award).Error
}

// InTx 事务版store，fn返回错误时整个事务回滚
func (s *GormStore) InTx(ctx context.Context, fn func(stats StatsStore, events EventStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txStore := &GormStore{db: tx, log: s.log}
		return fn(txStore, txStore)
	})
}

// 编译期校验接口实现
var (
	_ StatsStore       = (*GormStore)(nil)
	_ EventStore       = (*GormStore)(nil)
	_ AchievementStore = (*GormStore)(nil)
	_ AwardStore       = (*GormStore)(nil)
	_ TxRunner         = (*GormStore)(nil)
)

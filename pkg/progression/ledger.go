package progression

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/toolpilot-ai/toolpilot/models"
	"github.com/toolpilot-ai/toolpilot/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInvalidEvent 事件缺少必要字段
var ErrInvalidEvent = errors.New("invalid activity event")

// Ledger 进度账本，把活动事件折算为用户统计与成就解锁
// 同一逻辑事件重放不会重复记账
type Ledger struct {
	stats        StatsStore
	achievements AchievementStore
	awards       AwardStore
	tx           TxRunner
	resolver     *Resolver
	log          *logger.Logger
	now          func() time.Time
}

// NewLedger 创建进度账本
func NewLedger(stats StatsStore, achievements AchievementStore, awards AwardStore, tx TxRunner, resolver *Resolver, baseLog *logger.Logger) *Ledger {
	return &Ledger{
		stats:        stats,
		achievements: achievements,
		awards:       awards,
		tx:           tx,
		resolver:     resolver,
		log:          baseLog.With("component", "ledger"),
		now:          time.Now,
	}
}

// 每类活动的建议积分，积分经济与活动计数解耦，发放由调用方显式触发
const (
	PointsToolImplemented = 100
	PointsModuleCompleted = 25
	PointsGuideCompleted  = 50
)

// PointsForEvent 返回事件类型对应的建议积分与发放理由，0表示该类事件不发积分
func PointsForEvent(t models.EventType) (int, string) {
	switch t {
	case models.EventToolImplemented:
		return PointsToolImplemented, "tool implemented"
	case models.EventModuleCompleted:
		return PointsModuleCompleted, "module completed"
	case models.EventGuideCompleted:
		return PointsGuideCompleted, "guide completed"
	}
	return 0, ""
}

// ApplyEvent 应用一条活动事件并返回最新统计
// 状态转移型事件按去重键幂等，重放不改变任何计数器
// applied=false表示该逻辑事件此前已入账
func (l *Ledger) ApplyEvent(ctx context.Context, event *models.ActivityEvent) (stats *models.UserStats, applied bool, err error) {
	if event == nil || event.UserID == 0 || event.EventType == "" {
		return nil, false, ErrInvalidEvent
	}

	if event.IsCompletion() {
		// 状态转移型事件只认(user, type, 对象)自然键，调用方提供的键不参与去重
		event.DedupKey = event.BuildDedupKey()
	} else if event.DedupKey == "" {
		// 计数型事件没有自然键，退化为随机键（调用方可传ClientEventID保证重试幂等）
		event.DedupKey = fmt.Sprintf("%d:%s:%s", event.UserID, event.EventType, uuid.NewString())
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = l.now()
	}

	// 事件入账与计数更新在同一事务内，入账后任一计数失败则整体回滚，重放可补齐
	var created bool
	err = l.tx.InTx(ctx, func(stats StatsStore, events EventStore) error {
		if err := stats.EnsureExists(ctx, event.UserID); err != nil {
			return err
		}
		var err error
		created, err = events.Insert(ctx, event)
		if err != nil || !created {
			return err
		}
		if err := l.applyCounters(ctx, stats, event); err != nil {
			return err
		}
		return l.advanceStreak(ctx, stats, event.UserID)
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		// 成就评估在事务外：评估失败不回滚事件，后续任一事件会重新评估补齐
		if err := l.evaluateAchievements(ctx, event.UserID); err != nil {
			return nil, false, err
		}
	} else {
		l.log.Debug("duplicate activity event ignored",
			"userId", event.UserID, "eventType", event.EventType, "dedupKey", event.DedupKey)
	}

	stats, err = l.stats.Get(ctx, event.UserID)
	return stats, created, err
}

// AwardPoints 发放（或扣减）积分，总分不会低于0，每次发放记录流水
func (l *Ledger) AwardPoints(ctx context.Context, userID uint, amount int, reason string) (*models.UserStats, error) {
	if err := l.stats.EnsureExists(ctx, userID); err != nil {
		return nil, err
	}
	if err := l.stats.AddPoints(ctx, userID, amount); err != nil {
		return nil, err
	}
	if err := l.awards.Append(ctx, &models.PointAward{UserID: userID, Amount: amount, Reason: reason}); err != nil {
		return nil, err
	}
	l.log.Info("points awarded", "userId", userID, "amount", amount, "reason", reason)

	if err := l.evaluateAchievements(ctx, userID); err != nil {
		return nil, err
	}
	return l.stats.Get(ctx, userID)
}

// MarkToolImplemented 推荐反馈"implementing"的入账入口，幂等
// 首次入账时发放对应积分
func (l *Ledger) MarkToolImplemented(ctx context.Context, userID, toolID uint) (*models.UserStats, error) {
	stats, applied, err := l.ApplyEvent(ctx, &models.ActivityEvent{
		UserID:    userID,
		ToolID:    &toolID,
		EventType: models.EventToolImplemented,
	})
	if err != nil {
		return nil, err
	}
	if applied {
		return l.AwardPoints(ctx, userID, PointsToolImplemented, "tool implemented")
	}
	return stats, nil
}

func (l *Ledger) applyCounters(ctx context.Context, stats StatsStore, event *models.ActivityEvent) error {
	var delta CounterDelta
	switch event.EventType {
	case models.EventToolImplemented:
		delta.ToolsImplemented = 1
	case models.EventModuleCompleted:
		delta.ModulesCompleted = 1
	case models.EventGuideCompleted:
		delta.GuidesCompleted = 1
	case models.EventSession:
		delta.TimeInvestedMinutes = event.DurationMinutes
	}
	return stats.IncrementCounters(ctx, event.UserID, delta)
}

// 每个日历日只推进一次：昨天有活动则+1，更早或首次则回到1，同日不变
func (l *Ledger) advanceStreak(ctx context.Context, stats StatsStore, userID uint) error {
	today := toDate(l.now())
	yesterday := today.AddDate(0, 0, -1)
	return stats.AdvanceStreak(ctx, userID, today, yesterday)
}

// 解锁是增量的：只评估未解锁成就，解锁产生的积分可能连锁触发后续成就
func (l *Ledger) evaluateAchievements(ctx context.Context, userID uint) error {
	for range l.resolver.Achievements() {
		stats, err := l.stats.Get(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		earned, err := l.achievements.EarnedByUser(ctx, userID)
		if err != nil {
			return err
		}

		newlyEarned := false
		for i := range l.resolver.Achievements() {
			a := l.resolver.Achievements()[i]
			if _, already := earned[a.ID]; already {
				continue
			}
			if !l.resolver.CriteriaMet(&a, stats) {
				continue
			}
			created, err := l.achievements.Earn(ctx, &models.UserAchievement{
				UserID:        userID,
				AchievementID: a.ID,
				EarnedAt:      l.now(),
			})
			if err != nil {
				return err
			}
			if !created {
				continue // 并发评估者抢先解锁
			}
			newlyEarned = true
			l.log.Info("achievement earned", "userId", userID, "achievement", a.Name)
			if err := l.stats.IncrementCounters(ctx, userID, CounterDelta{AchievementsEarned: 1}); err != nil {
				return err
			}
			if a.Points > 0 {
				if err := l.stats.AddPoints(ctx, userID, a.Points); err != nil {
					return err
				}
				if err := l.awards.Append(ctx, &models.PointAward{UserID: userID, Amount: a.Points, Reason: "achievement: " + a.Name}); err != nil {
					return err
				}
				l.log.Info("points awarded", "userId", userID, "amount", a.Points, "reason", "achievement: "+a.Name)
			}
		}
		if !newlyEarned {
			return nil
		}
	}
	return nil
}

// StatsForUser 读取统计，不存在时返回零值统计而不是报错
func (l *Ledger) StatsForUser(ctx context.Context, userID uint) (*models.UserStats, error) {
	stats, err := l.stats.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.UserStats{UserID: userID}, nil
		}
		return nil, err
	}
	return stats, nil
}

// AchievementStatuses 读取用户的成就展示状态
func (l *Ledger) AchievementStatuses(ctx context.Context, userID uint) ([]models.AchievementStatus, error) {
	stats, err := l.StatsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	earned, err := l.achievements.EarnedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return l.resolver.StatusForUser(stats, earned), nil
}

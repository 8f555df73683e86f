package recommend

import (
	"context"
	"errors"
	"sort"

	"github.com/toolpilot-ai/toolpilot/models"
	"github.com/toolpilot-ai/toolpilot/pkg/advisory"
	"github.com/toolpilot-ai/toolpilot/pkg/logger"
	"github.com/toolpilot-ai/toolpilot/pkg/scoring"

	"gorm.io/gorm"
)

// DefaultLimit 每轮推荐的默认条数
const DefaultLimit = 6

var (
	// ErrEntryNotFound 反馈对应的推荐条目不存在
	ErrEntryNotFound = errors.New("recommendation entry not found")
	// ErrInvalidTransition 非法状态流转，原状态保持不变
	ErrInvalidTransition = errors.New("invalid recommendation status transition")
)

// ProgressionRecorder 进度账本的最小依赖面，"implementing"反馈经此入账
type ProgressionRecorder interface {
	MarkToolImplemented(ctx context.Context, userID, toolID uint) (*models.UserStats, error)
}

// Manager 推荐集管理器：评分、排序、持久化与反馈协调
type Manager struct {
	scorer   *scoring.Scorer
	profiles ProfileStore
	catalog  CatalogStore
	recs     RecommendationStore
	ledger   ProgressionRecorder
	enricher *advisory.Enricher
	limit    int
	log      *logger.Logger
}

// NewManager 创建推荐集管理器，limit<=0时使用默认条数
func NewManager(
	scorer *scoring.Scorer,
	profiles ProfileStore,
	catalog CatalogStore,
	recs RecommendationStore,
	ledger ProgressionRecorder,
	enricher *advisory.Enricher,
	limit int,
	baseLog *logger.Logger,
) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{
		scorer:   scorer,
		profiles: profiles,
		catalog:  catalog,
		recs:     recs,
		ledger:   ledger,
		enricher: enricher,
		limit:    limit,
		log:      baseLog.With("component", "recommend"),
	}
}

type scoredTool struct {
	tool   models.Tool
	result scoring.ScoreResult
}

// Generate 执行一轮推荐：评分、排序、截断并整体替换活动推荐集
// 画像缺失时返回空列表而不是错误，空推荐永远是安全输出
func (m *Manager) Generate(ctx context.Context, userID uint) ([]models.RecommendationEntry, error) {
	profile, err := m.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			m.log.Info("no profile, skipping recommendation cycle", "userId", userID)
			return []models.RecommendationEntry{}, nil
		}
		return nil, err
	}

	tools, err := m.catalog.ActiveTools(ctx)
	if err != nil {
		return nil, err
	}

	excluded, err := m.recs.ExcludedToolIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	scored := make([]scoredTool, 0, len(tools))
	for i := range tools {
		if excluded[tools[i].ID] {
			continue
		}
		scored = append(scored, scoredTool{
			tool:   tools[i],
			result: m.scorer.Score(&tools[i], profile),
		})
	}

	// 分数降序，热度降序，名称升序，保证完全确定的排序
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].result.Value != scored[j].result.Value {
			return scored[i].result.Value > scored[j].result.Value
		}
		if scored[i].tool.PopularityScore != scored[j].tool.PopularityScore {
			return scored[i].tool.PopularityScore > scored[j].tool.PopularityScore
		}
		return scored[i].tool.Name < scored[j].tool.Name
	})

	if len(scored) > m.limit {
		scored = scored[:m.limit]
	}

	entries := make([]models.RecommendationEntry, 0, len(scored))
	for rank, st := range scored {
		reason := st.result.Reason
		if m.enricher != nil {
			reason = m.enricher.Enrich(ctx, &st.tool, profile, reason)
		}
		entries = append(entries, models.RecommendationEntry{
			UserID:   userID,
			ToolID:   st.tool.ID,
			Score:    st.result.Value,
			Reason:   reason,
			Priority: st.result.Priority,
			Status:   models.RecommendationActive,
			Rank:     rank + 1,
		})
	}

	if err := m.recs.ReplaceActiveSet(ctx, userID, entries); err != nil {
		return nil, err
	}

	m.log.Info("recommendation cycle complete",
		"userId", userID, "candidates", len(tools), "excluded", len(excluded), "produced", len(entries))
	return entries, nil
}

// ActiveSet 读取当前活动推荐集
func (m *Manager) ActiveSet(ctx context.Context, userID uint) ([]models.RecommendationEntry, error) {
	return m.recs.ActiveByUser(ctx, userID)
}

// RecordFeedback 处理用户对推荐条目的反馈
// dismissed是终态；implementing触发进度账本计数；interested仅确认条目存在
func (m *Manager) RecordFeedback(ctx context.Context, userID, toolID uint, action models.FeedbackAction) (*models.RecommendationEntry, error) {
	entry, err := m.recs.GetByUserAndTool(ctx, userID, toolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	switch action {
	case models.FeedbackInterested:
		// 不改变状态，仅作为行为信号
		m.log.Debug("feedback recorded", "userId", userID, "toolId", toolID, "action", action)
		return entry, nil

	case models.FeedbackDismissed:
		// 已实现的条目不可再dismiss
		if entry.Status == models.RecommendationImplemented {
			return nil, ErrInvalidTransition
		}
		if entry.Status == models.RecommendationDismissed {
			return entry, nil // 重复dismiss是无操作
		}
		if err := m.recs.UpdateStatus(ctx, entry, models.RecommendationDismissed); err != nil {
			return nil, err
		}
		entry.Status = models.RecommendationDismissed

	case models.FeedbackImplementing:
		// dismiss后的条目需要管理员重置才能恢复，不接受直接实现
		if entry.Status == models.RecommendationDismissed {
			return nil, ErrInvalidTransition
		}
		alreadyImplemented := entry.Status == models.RecommendationImplemented
		if !alreadyImplemented {
			if err := m.recs.UpdateStatus(ctx, entry, models.RecommendationImplemented); err != nil {
				return nil, err
			}
			entry.Status = models.RecommendationImplemented
		}
		// 进度入账自身幂等，重复反馈不会二次计数
		if m.ledger != nil {
			if _, err := m.ledger.MarkToolImplemented(ctx, userID, toolID); err != nil {
				return nil, err
			}
		}

	default:
		return nil, ErrInvalidTransition
	}

	m.log.Info("feedback recorded", "userId", userID, "toolId", toolID, "action", action)
	return entry, nil
}

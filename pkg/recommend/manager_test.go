package recommend

import (
	"context"
	"testing"

	"github.com/toolpilot-ai/toolpilot/models"
	"github.com/toolpilot-ai/toolpilot/pkg/logger"
	"github.com/toolpilot-ai/toolpilot/pkg/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// 内存版推荐存储，语义与GormStore一致
type memoryStore struct {
	profiles map[uint]*models.UserProfile
	tools    []models.Tool
	entries  map[uint]map[uint]*models.RecommendationEntry // userID → toolID → entry
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		profiles: make(map[uint]*models.UserProfile),
		entries:  make(map[uint]map[uint]*models.RecommendationEntry),
	}
}

func (m *memoryStore) GetByUserID(_ context.Context, userID uint) (*models.UserProfile, error) {
	profile, ok := m.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (m *memoryStore) UserIDs(_ context.Context) ([]uint, error) {
	var ids []uint
	for id := range m.profiles {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memoryStore) ActiveTools(_ context.Context) ([]models.Tool, error) {
	var active []models.Tool
	for _, t := range m.tools {
		if t.Status == models.ToolActive {
			active = append(active, t)
		}
	}
	return active, nil
}

func (m *memoryStore) GetTool(_ context.Context, toolID uint) (*models.Tool, error) {
	for i := range m.tools {
		if m.tools[i].ID == toolID {
			return &m.tools[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryStore) ActiveByUser(_ context.Context, userID uint) ([]models.RecommendationEntry, error) {
	var result []models.RecommendationEntry
	for _, e := range m.entries[userID] {
		if e.Status == models.RecommendationActive {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *memoryStore) GetByUserAndTool(_ context.Context, userID, toolID uint) (*models.RecommendationEntry, error) {
	entry, ok := m.entries[userID][toolID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return entry, nil
}

func (m *memoryStore) ExcludedToolIDs(_ context.Context, userID uint) (map[uint]bool, error) {
	excluded := make(map[uint]bool)
	for toolID, e := range m.entries[userID] {
		if e.Status == models.RecommendationDismissed || e.Status == models.RecommendationImplemented {
			excluded[toolID] = true
		}
	}
	return excluded, nil
}

func (m *memoryStore) ReplaceActiveSet(_ context.Context, userID uint, entries []models.RecommendationEntry) error {
	if m.entries[userID] == nil {
		m.entries[userID] = make(map[uint]*models.RecommendationEntry)
	}
	for toolID, e := range m.entries[userID] {
		if e.Status == models.RecommendationActive {
			delete(m.entries[userID], toolID)
		}
	}
	for i := range entries {
		e := entries[i]
		if existing, ok := m.entries[userID][e.ToolID]; ok && existing.Status != models.RecommendationActive {
			continue // 终态行不被新一轮覆盖
		}
		m.entries[userID][e.ToolID] = &e
	}
	return nil
}

func (m *memoryStore) UpdateStatus(_ context.Context, entry *models.RecommendationEntry, status models.RecommendationStatus) error {
	stored, ok := m.entries[entry.UserID][entry.ToolID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = status
	return nil
}

type fakeRecorder struct {
	calls []uint
}

func (f *fakeRecorder) MarkToolImplemented(_ context.Context, userID, toolID uint) (*models.UserStats, error) {
	f.calls = append(f.calls, toolID)
	return &models.UserStats{UserID: userID}, nil
}

func fixtureTools() []models.Tool {
	return []models.Tool{
		{ID: 1, Name: "Alpha Writer", Status: models.ToolActive, SetupDifficulty: models.SetupEasy,
			TimeToValue: models.ValueInMinutes, PricingModel: models.PricingFree,
			TargetRoles: []string{"Manager"}, PopularityScore: 90},
		{ID: 2, Name: "Beta Notes", Status: models.ToolActive, SetupDifficulty: models.SetupEasy,
			TimeToValue: models.ValueInHours, PricingModel: models.PricingFreemium, PopularityScore: 70},
		{ID: 3, Name: "Gamma Sheets", Status: models.ToolActive, SetupDifficulty: models.SetupMedium,
			TimeToValue: models.ValueInDays, PricingModel: models.PricingPaid, PricingAmount: 99, PopularityScore: 50},
		{ID: 4, Name: "Delta Cam", Status: models.ToolArchived, SetupDifficulty: models.SetupEasy,
			TimeToValue: models.ValueInMinutes, PricingModel: models.PricingFree, PopularityScore: 99},
		{ID: 5, Name: "Echo Bot", Status: models.ToolActive, SetupDifficulty: models.SetupEasy,
			TimeToValue: models.ValueInHours, PricingModel: models.PricingFreemium, PopularityScore: 80},
	}
}

func newTestManager(limit int) (*Manager, *memoryStore, *fakeRecorder) {
	store := newMemoryStore()
	store.tools = fixtureTools()
	store.profiles[1] = &models.UserProfile{UserID: 1, Role: "Manager", AIExperience: models.ExperienceNever}
	recorder := &fakeRecorder{}
	manager := NewManager(scoring.NewScorer(), store, store, store, recorder, nil, limit, logger.NewNop())
	return manager, store, recorder
}

func TestGenerateRanksDeterministically(t *testing.T) {
	manager, _, _ := newTestManager(0)
	ctx := context.Background()

	entries, err := manager.Generate(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 4) // 归档工具不进入候选池

	// Alpha全加分项命中必然第一
	assert.Equal(t, uint(1), entries[0].ToolID)
	assert.Equal(t, 100, entries[0].Score)
	assert.Equal(t, models.PriorityHigh, entries[0].Priority)

	// 满分并列时按热度降序：Echo(80)在Beta(70)前
	assert.Equal(t, uint(5), entries[1].ToolID)
	assert.Equal(t, uint(2), entries[2].ToolID)
	assert.Equal(t, uint(3), entries[3].ToolID)

	// 名次连续且从1开始
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
		assert.Equal(t, models.RecommendationActive, e.Status)
		assert.NotEmpty(t, e.Reason)
	}

	// 重复执行结果一致
	again, err := manager.Generate(ctx, 1)
	require.NoError(t, err)
	require.Len(t, again, len(entries))
	for i := range entries {
		assert.Equal(t, entries[i].ToolID, again[i].ToolID)
		assert.Equal(t, entries[i].Score, again[i].Score)
	}
}

func TestGenerateRespectsLimit(t *testing.T) {
	manager, _, _ := newTestManager(2)

	entries, err := manager.Generate(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestGenerateMissingProfileReturnsEmpty(t *testing.T) {
	manager, _, _ := newTestManager(0)

	entries, err := manager.Generate(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDismissedNeverResurfaces(t *testing.T) {
	manager, _, _ := newTestManager(0)
	ctx := context.Background()

	_, err := manager.Generate(ctx, 1)
	require.NoError(t, err)

	// dismiss得分最高的Alpha
	entry, err := manager.RecordFeedback(ctx, 1, 1, models.FeedbackDismissed)
	require.NoError(t, err)
	assert.Equal(t, models.RecommendationDismissed, entry.Status)

	// 之后无论跑多少轮，Alpha都不再出现
	for i := 0; i < 3; i++ {
		entries, err := manager.Generate(ctx, 1)
		require.NoError(t, err)
		for _, e := range entries {
			assert.NotEqual(t, uint(1), e.ToolID)
		}
	}
}

func TestRecordFeedbackImplementing(t *testing.T) {
	manager, store, recorder := newTestManager(0)
	ctx := context.Background()

	_, err := manager.Generate(ctx, 1)
	require.NoError(t, err)

	entry, err := manager.RecordFeedback(ctx, 1, 2, models.FeedbackImplementing)
	require.NoError(t, err)
	assert.Equal(t, models.RecommendationImplemented, entry.Status)
	assert.Equal(t, []uint{2}, recorder.calls)

	// 重复反馈不报错，入账幂等由账本保证
	_, err = manager.RecordFeedback(ctx, 1, 2, models.FeedbackImplementing)
	require.NoError(t, err)
	assert.Len(t, recorder.calls, 2)

	// 已实现的工具退出候选池
	excluded, err := store.ExcludedToolIDs(ctx, 1)
	require.NoError(t, err)
	assert.True(t, excluded[2])
}

func TestRecordFeedbackInvalidTransitions(t *testing.T) {
	manager, _, _ := newTestManager(0)
	ctx := context.Background()

	_, err := manager.Generate(ctx, 1)
	require.NoError(t, err)

	// 已实现的条目不可dismiss
	_, err = manager.RecordFeedback(ctx, 1, 2, models.FeedbackImplementing)
	require.NoError(t, err)
	_, err = manager.RecordFeedback(ctx, 1, 2, models.FeedbackDismissed)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// 原状态保持不变
	entry, err := manager.RecordFeedback(ctx, 1, 2, models.FeedbackInterested)
	require.NoError(t, err)
	assert.Equal(t, models.RecommendationImplemented, entry.Status)

	// dismiss后的条目不可直接实现
	_, err = manager.RecordFeedback(ctx, 1, 3, models.FeedbackDismissed)
	require.NoError(t, err)
	_, err = manager.RecordFeedback(ctx, 1, 3, models.FeedbackImplementing)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReplaceActiveSetKeepsDismissedRow(t *testing.T) {
	manager, store, _ := newTestManager(0)
	ctx := context.Background()

	_, err := manager.Generate(ctx, 1)
	require.NoError(t, err)
	_, err = manager.RecordFeedback(ctx, 1, 1, models.FeedbackDismissed)
	require.NoError(t, err)

	// 过期的一轮结果仍把该工具写回（dismiss发生在候选集计算与落库之间）
	stale := []models.RecommendationEntry{
		{UserID: 1, ToolID: 1, Score: 100, Reason: "stale cycle", Status: models.RecommendationActive, Rank: 1},
		{UserID: 1, ToolID: 3, Score: 55, Reason: "stale cycle", Status: models.RecommendationActive, Rank: 2},
	}
	require.NoError(t, store.ReplaceActiveSet(ctx, 1, stale))

	// dismissed条目保持终态，不会被落库冲突复活
	entry, err := store.GetByUserAndTool(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, models.RecommendationDismissed, entry.Status)

	active, err := store.ActiveByUser(ctx, 1)
	require.NoError(t, err)
	for _, e := range active {
		assert.NotEqual(t, uint(1), e.ToolID)
	}
}

func TestRecordFeedbackUnknownEntry(t *testing.T) {
	manager, _, _ := newTestManager(0)

	_, err := manager.RecordFeedback(context.Background(), 1, 999, models.FeedbackDismissed)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestReplaceModeSupersedesOldActive(t *testing.T) {
	manager, store, _ := newTestManager(1)
	ctx := context.Background()

	first, err := manager.Generate(ctx, 1)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, uint(1), first[0].ToolID)

	// dismiss顶部条目后重新生成，新一轮整体替换活动集
	_, err = manager.RecordFeedback(ctx, 1, 1, models.FeedbackDismissed)
	require.NoError(t, err)

	second, err := manager.Generate(ctx, 1)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.NotEqual(t, uint(1), second[0].ToolID)

	active, err := store.ActiveByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second[0].ToolID, active[0].ToolID)
}

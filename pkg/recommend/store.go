package recommend

import (
	"context"

	"github.com/toolpilot-ai/toolpilot/models"
	"github.com/toolpilot-ai/toolpilot/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileStore 用户画像读取接口
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID uint) (*models.UserProfile, error)
	// UserIDs 返回所有已建画像的用户，定时刷新用
	UserIDs(ctx context.Context) ([]uint, error)
}

// CatalogStore 工具目录读取接口，目录对推荐引擎只读
type CatalogStore interface {
	ActiveTools(ctx context.Context) ([]models.Tool, error)
	GetTool(ctx context.Context, toolID uint) (*models.Tool, error)
}

// RecommendationStore 推荐条目存储接口
type RecommendationStore interface {
	ActiveByUser(ctx context.Context, userID uint) ([]models.RecommendationEntry, error)
	GetByUserAndTool(ctx context.Context, userID, toolID uint) (*models.RecommendationEntry, error)
	// ExcludedToolIDs 返回该用户已dismiss/已实现的工具集合，永久排除出候选池
	ExcludedToolIDs(ctx context.Context, userID uint) (map[uint]bool, error)
	// ReplaceActiveSet 整体替换活动推荐集，dismissed/implemented条目不受影响
	ReplaceActiveSet(ctx context.Context, userID uint, entries []models.RecommendationEntry) error
	UpdateStatus(ctx context.Context, entry *models.RecommendationEntry, status models.RecommendationStatus) error
}

// GormStore 基于gorm的推荐存储实现
type GormStore struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewGormStore 创建推荐存储
func NewGormStore(db *gorm.DB, baseLog *logger.Logger) *GormStore {
	return &GormStore{db: db, log: baseLog.With("store", "recommend")}
}

func (s *GormStore) GetByUserID(ctx context.Context, userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *GormStore) UserIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&models.UserProfile{}).Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *GormStore) ActiveTools(ctx context.Context) ([]models.Tool, error) {
	var tools []models.Tool
	if err := s.db.WithContext(ctx).
		Where("status = ?", models.ToolActive).
		Find(&tools).Error; err != nil {
		return nil, err
	}
	return tools, nil
}

func (s *GormStore) GetTool(ctx context.Context, toolID uint) (*models.Tool, error) {
	var tool models.Tool
	if err := s.db.WithContext(ctx).First(&tool, toolID).Error; err != nil {
		return nil, err
	}
	return &tool, nil
}

func (s *GormStore) ActiveByUser(ctx context.Context, userID uint) ([]models.RecommendationEntry, error) {
	var entries []models.RecommendationEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.RecommendationActive).
		Order("rank ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *GormStore) GetByUserAndTool(ctx context.Context, userID, toolID uint) (*models.RecommendationEntry, error) {
	var entry models.RecommendationEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND tool_id = ?", userID, toolID).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *GormStore) ExcludedToolIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&models.RecommendationEntry{}).
		Where("user_id = ? AND status IN ?", userID,
			[]models.RecommendationStatus{models.RecommendationDismissed, models.RecommendationImplemented}).
		Pluck("tool_id", &ids).Error; err != nil {
		return nil, err
	}
	excluded := make(map[uint]bool, len(ids))
	for _, id := range ids {
		excluded[id] = true
	}
	return excluded, nil
}

// ReplaceActiveSet 在单个事务内完成替换：未被新一轮重新产出的active条目被整体取代
func (s *GormStore) ReplaceActiveSet(ctx context.Context, userID uint, entries []models.RecommendationEntry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id = ? AND status = ?", userID, models.RecommendationActive).
			Delete(&models.RecommendationEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		// active条目已在本事务内删除，(user, tool)冲突只可能撞上终态行
		// 终态行保持原样，dismissed/implemented条目不会被新一轮复活
		return tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "tool_id"}},
				DoNothing: true,
			}).
			Create(&entries).Error
	})
}

func (s *GormStore) UpdateStatus(ctx context.Context, entry *models.RecommendationEntry, status models.RecommendationStatus) error {
	return s.db.WithContext(ctx).Model(entry).Update("status", status).Error
}

// 编译期校验接口实现
var (
	_ ProfileStore        = (*GormStore)(nil)
	_ CatalogStore        = (*GormStore)(nil)
	_ RecommendationStore = (*GormStore)(nil)
)

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mouse-haven/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStateRepository GORM 实现（sqlite / postgres）
type GormStateRepository struct {
	db *gorm.DB
}

// NewStateRepository 创建状态仓库
func NewStateRepository(db *gorm.DB) *GormStateRepository {
	return &GormStateRepository{db: db}
}

// Get 获取状态值
func (r *GormStateRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry models.StateEntry
	result := r.db.WithContext(ctx).Where("key = ?", key).Limit(1).Find(&entry)
	if result.Error != nil {
		return nil, false, fmt.Errorf("get state %s: %w", key, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}
	return []byte(entry.Value), true, nil
}

// Set 更新或创建状态值
func (r *GormStateRepository) Set(ctx context.Context, key string, value []byte) error {
	entry := models.StateEntry{
		Key:       key,
		Session:   SessionOfKey(key),
		Value:     string(value),
		UpdatedAt: time.Now(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("set state %s: %w", key, err)
	}
	return nil
}

// Remove 删除状态值（一条 DELETE 完成）
func (r *GormStateRepository) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("key IN ?", keys).Delete(&models.StateEntry{}).Error; err != nil {
		return fmt.Errorf("remove state %v: %w", keys, err)
	}
	return nil
}

// PurgeBefore 清理长期未更新的会话状态
// 会话内任一键在 before 之后写入过，整个会话保留；否则会话的全部键一起删除
func (r *GormStateRepository) PurgeBefore(ctx context.Context, before time.Time) (int64, error) {
	db := r.db.WithContext(ctx)
	staleSessions := db.Model(&models.StateEntry{}).
		Select("session").
		Where("session <> ''").
		Group("session").
		Having("MAX(updated_at) < ?", before)
	result := db.
		Where("(session <> '' AND session IN (?)) OR (session = '' AND updated_at < ?)", staleSessions, before).
		Delete(&models.StateEntry{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

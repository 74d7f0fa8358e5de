package repository

import (
	"context"

	"gorm.io/gorm"

	"tesis-hub/backend/internal/model"
)

// CycleRepository 学术周期数据访问接口
type CycleRepository interface {
	Create(ctx context.Context, cycle *model.Cycle) error
	GetByID(ctx context.Context, id string) (*model.Cycle, error)
	GetCurrent(ctx context.Context) (*model.Cycle, error)
	List(ctx context.Context) ([]model.Cycle, error)
	Update(ctx context.Context, cycle *model.Cycle) error
	DeleteOthers(ctx context.Context, keepID string) error
}

type cycleRepo struct {
	db *gorm.DB
}

// NewCycleRepo 创建 CycleRepository 实例
func NewCycleRepo(db *gorm.DB) CycleRepository {
	return &cycleRepo{db: db}
}

func (r *cycleRepo) Create(ctx context.Context, cycle *model.Cycle) error {
	return r.db.WithContext(ctx).Create(cycle).Error
}

func (r *cycleRepo) GetByID(ctx context.Context, id string) (*model.Cycle, error) {
	var cycle model.Cycle
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&cycle).Error
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}

// GetCurrent 返回最新创建的周期
// 正常情况下全表仅一行，按创建时间兜底取最新
func (r *cycleRepo) GetCurrent(ctx context.Context) (*model.Cycle, error) {
	var cycle model.Cycle
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&cycle).Error
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}

func (r *cycleRepo) List(ctx context.Context) ([]model.Cycle, error) {
	var cycles []model.Cycle
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&cycles).Error
	return cycles, err
}

func (r *cycleRepo) Update(ctx context.Context, cycle *model.Cycle) error {
	return r.db.WithContext(ctx).Save(cycle).Error
}

// DeleteOthers 删除除 keepID 外的全部周期行（轮换收尾步骤）
func (r *cycleRepo) DeleteOthers(ctx context.Context, keepID string) error {
	return r.db.WithContext(ctx).
		Where("id <> ?", keepID).
		Delete(&model.Cycle{}).Error
}

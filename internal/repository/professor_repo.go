package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tesis-hub/backend/internal/model"
)

// ProfessorRepository 教授数据访问接口
type ProfessorRepository interface {
	Create(ctx context.Context, professor *model.Professor) error
	GetByID(ctx context.Context, id string) (*model.Professor, error)
	// GetByIDForUpdate 以 FOR UPDATE 行锁读取，用于容量判定与计数更新的原子性
	GetByIDForUpdate(ctx context.Context, id string) (*model.Professor, error)
	GetByEmail(ctx context.Context, email string) (*model.Professor, error)
	List(ctx context.Context, cycleID string) ([]model.Professor, error)
	Count(ctx context.Context, cycleID string) (int64, error)
	Update(ctx context.Context, professor *model.Professor) error
	Delete(ctx context.Context, id string) error
	// MigrateToCycle 将全部教授迁移到新周期并清零接收计数（轮换步骤）
	MigrateToCycle(ctx context.Context, cycleID string) error
}

type professorRepo struct {
	db *gorm.DB
}

// NewProfessorRepo 创建 ProfessorRepository 实例
func NewProfessorRepo(db *gorm.DB) ProfessorRepository {
	return &professorRepo{db: db}
}

func (r *professorRepo) Create(ctx context.Context, professor *model.Professor) error {
	return r.db.WithContext(ctx).Create(professor).Error
}

func (r *professorRepo) GetByID(ctx context.Context, id string) (*model.Professor, error) {
	var professor model.Professor
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&professor).Error
	if err != nil {
		return nil, err
	}
	return &professor, nil
}

func (r *professorRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Professor, error) {
	var professor model.Professor
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&professor).Error
	if err != nil {
		return nil, err
	}
	return &professor, nil
}

func (r *professorRepo) GetByEmail(ctx context.Context, email string) (*model.Professor, error) {
	var professor model.Professor
	err := r.db.WithContext(ctx).
		Where("lower(email) = lower(?)", email).
		First(&professor).Error
	if err != nil {
		return nil, err
	}
	return &professor, nil
}

func (r *professorRepo) List(ctx context.Context, cycleID string) ([]model.Professor, error) {
	var professors []model.Professor
	err := r.db.WithContext(ctx).
		Where("cycle_id = ?", cycleID).
		Order("name").
		Find(&professors).Error
	return professors, err
}

func (r *professorRepo) Count(ctx context.Context, cycleID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Professor{}).
		Where("cycle_id = ?", cycleID).
		Count(&count).Error
	return count, err
}

func (r *professorRepo) Update(ctx context.Context, professor *model.Professor) error {
	return r.db.WithContext(ctx).Save(professor).Error
}

func (r *professorRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Professor{}).Error
}

func (r *professorRepo) MigrateToCycle(ctx context.Context, cycleID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Professor{}).
		Where("1 = 1").
		Updates(map[string]interface{}{
			"cycle_id":         cycleID,
			"current_students": 0,
		}).Error
}

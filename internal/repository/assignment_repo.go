package repository

import (
	"context"

	"gorm.io/gorm"

	"tesis-hub/backend/internal/model"
)

// AssignmentRepository 最终分配数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	ListByStudent(ctx context.Context, studentID string) ([]model.Assignment, error)
	// ListAll 取全部分配行（终审视图与导出用，预加载学生/教授）
	ListAll(ctx context.Context) ([]model.Assignment, error)
	CountAll(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Professor").
		Where("student_id = ?", studentID).
		Order("created_at").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) ListAll(ctx context.Context) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Professor").
		Order("created_at").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Assignment{}).
		Count(&count).Error
	return count, err
}

func (r *assignmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Assignment{}).Error
}

func (r *assignmentRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&model.Assignment{}).Error
}

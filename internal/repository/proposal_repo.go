package repository

import (
	"context"

	"gorm.io/gorm"

	"tesis-hub/backend/internal/model"
)

// ProposalRepository 学生志愿数据访问接口
type ProposalRepository interface {
	Create(ctx context.Context, proposal *model.Proposal) error
	GetByID(ctx context.Context, id string) (*model.Proposal, error)
	// GetByStudentAndOrder 取同一学生指定优先级的志愿（排序交换的对端行）
	GetByStudentAndOrder(ctx context.Context, studentID string, order int) (*model.Proposal, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Proposal, error)
	ListByProfessor(ctx context.Context, professorID string) ([]model.Proposal, error)
	// ListAcceptedAll 取全部 accepted 状态志愿（终审回退填充用）
	ListAcceptedAll(ctx context.Context) ([]model.Proposal, error)
	CountByStudent(ctx context.Context, studentID string) (int64, error)
	CountAcceptedByProfessor(ctx context.Context, professorID string) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, proposal *model.Proposal) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

type proposalRepo struct {
	db *gorm.DB
}

// NewProposalRepo 创建 ProposalRepository 实例
func NewProposalRepo(db *gorm.DB) ProposalRepository {
	return &proposalRepo{db: db}
}

func (r *proposalRepo) Create(ctx context.Context, proposal *model.Proposal) error {
	return r.db.WithContext(ctx).Create(proposal).Error
}

func (r *proposalRepo) GetByID(ctx context.Context, id string) (*model.Proposal, error) {
	var proposal model.Proposal
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&proposal).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *proposalRepo) GetByStudentAndOrder(ctx context.Context, studentID string, order int) (*model.Proposal, error) {
	var proposal model.Proposal
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND proposal_order = ?", studentID, order).
		First(&proposal).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *proposalRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Proposal, error) {
	var proposals []model.Proposal
	err := r.db.WithContext(ctx).
		Preload("Professor").
		Where("student_id = ?", studentID).
		Order("proposal_order").
		Find(&proposals).Error
	return proposals, err
}

func (r *proposalRepo) ListByProfessor(ctx context.Context, professorID string) ([]model.Proposal, error) {
	var proposals []model.Proposal
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("professor_id = ?", professorID).
		Order("created_at").
		Find(&proposals).Error
	return proposals, err
}

func (r *proposalRepo) ListAcceptedAll(ctx context.Context) ([]model.Proposal, error) {
	var proposals []model.Proposal
	err := r.db.WithContext(ctx).
		Preload("Professor").
		Where("status = ?", model.ProposalStatusAccepted).
		Order("student_id, proposal_order").
		Find(&proposals).Error
	return proposals, err
}

func (r *proposalRepo) CountByStudent(ctx context.Context, studentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Proposal{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	return count, err
}

func (r *proposalRepo) CountAcceptedByProfessor(ctx context.Context, professorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Proposal{}).
		Where("professor_id = ? AND status = ?", professorID, model.ProposalStatusAccepted).
		Count(&count).Error
	return count, err
}

func (r *proposalRepo) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Proposal{}).
		Count(&count).Error
	return count, err
}

func (r *proposalRepo) Update(ctx context.Context, proposal *model.Proposal) error {
	return r.db.WithContext(ctx).Save(proposal).Error
}

func (r *proposalRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Proposal{}).Error
}

func (r *proposalRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&model.Proposal{}).Error
}

package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tesis-hub/backend/internal/dto"
	"tesis-hub/backend/internal/model"
	"tesis-hub/backend/internal/repository"
)

// ── 志愿模块业务错误 ──

var (
	ErrProposalNotFound   = errors.New("志愿不存在")
	ErrProfileIncomplete  = errors.New("项目资料不完整，需先补全描述与项目图片")
	ErrMaxProposals       = errors.New("志愿数量已达上限")
	ErrDuplicateProfessor = errors.New("不能向同一教授重复提交志愿")
	ErrNotOwner           = errors.New("只能操作本人的志愿")
	ErrNotAddressee       = errors.New("只能处理发给本人的志愿")
	ErrNotPending         = errors.New("仅待处理状态的志愿可执行该操作")
	ErrCannotMove         = errors.New("该志愿无法向指定方向移动")
	ErrInvalidTransition  = errors.New("非法的状态流转")
	ErrCapacityExceeded   = errors.New("教授接收名额已满")
)

// ProposalService 学生志愿业务接口
//
// 志愿是系统的核心流转对象：学生按 1-5 优先级提交，教授接受/拒绝，
// 接受数反映在教授的 current_students 计数上。状态流转规则：
//
//	pending  → accepted | rejected
//	accepted → rejected | pending（撤回，计数同事务 -1）
//	rejected → pending（重新开放）
type ProposalService interface {
	ListMine(ctx context.Context, studentID string) ([]dto.ProposalResponse, error)
	Create(ctx context.Context, studentID string, req *dto.CreateProposalRequest) (*dto.ProposalResponse, error)
	Reorder(ctx context.Context, studentID, proposalID string, req *dto.ReorderProposalRequest) ([]dto.ProposalResponse, error)
	EditProfessor(ctx context.Context, studentID, proposalID string, req *dto.EditProposalProfessorRequest) (*dto.ProposalResponse, error)
	Delete(ctx context.Context, studentID, proposalID string) error
	Inbox(ctx context.Context, professorID string) (*dto.ProfessorInboxResponse, error)
	Decide(ctx context.Context, professorID, proposalID string, req *dto.DecideProposalRequest) (*dto.ProposalResponse, error)
}

type proposalService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProposalService 创建 ProposalService 实例
func NewProposalService(repo *repository.Repository, logger *zap.Logger) ProposalService {
	return &proposalService{repo: repo, logger: logger}
}

// ────────────────────── ListMine ──────────────────────

func (s *proposalService) ListMine(ctx context.Context, studentID string) ([]dto.ProposalResponse, error) {
	proposals, err := s.repo.Proposal.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生志愿失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.ProposalResponse, 0, len(proposals))
	for i := range proposals {
		result = append(result, *s.toProposalResponse(&proposals[i]))
	}
	return result, nil
}

// ────────────────────── Create ──────────────────────

// Create 创建志愿，优先级取 1-5 中最小的空位
// 前置：学生资料完整、志愿未满 5 条、目标教授未被申请过
func (s *proposalService) Create(ctx context.Context, studentID string, req *dto.CreateProposalRequest) (*dto.ProposalResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", studentID), zap.Error(err))
		return nil, err
	}
	if !student.ProfileComplete() {
		return nil, ErrProfileIncomplete
	}

	if _, err := s.repo.Professor.GetByID(ctx, req.ProfessorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfessorNotFound
		}
		s.logger.Error("查询教授失败", zap.String("id", req.ProfessorID), zap.Error(err))
		return nil, err
	}

	existing, err := s.repo.Proposal.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生志愿失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	if len(existing) >= model.MaxProposalsPerStudent {
		return nil, ErrMaxProposals
	}
	for i := range existing {
		if existing[i].ProfessorID == req.ProfessorID {
			return nil, ErrDuplicateProfessor
		}
	}

	proposal := &model.Proposal{
		StudentID:     studentID,
		ProfessorID:   req.ProfessorID,
		ProposalOrder: nextFreeOrder(existing),
		Status:        model.ProposalStatusPending,
	}
	if err := s.repo.Proposal.Create(ctx, proposal); err != nil {
		s.logger.Error("创建志愿失败", zap.Error(err))
		return nil, err
	}
	return s.toProposalResponse(proposal), nil
}

// ────────────────────── Reorder ──────────────────────

// Reorder 与相邻优先级的志愿交换位置
// 仅 pending/rejected 状态可移动；成对更新在同一事务内完成，
// (student_id, proposal_order) 唯一约束延迟到提交时校验
func (s *proposalService) Reorder(ctx context.Context, studentID, proposalID string, req *dto.ReorderProposalRequest) ([]dto.ProposalResponse, error) {
	proposal, err := s.repo.Proposal.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		s.logger.Error("查询志愿失败", zap.String("id", proposalID), zap.Error(err))
		return nil, err
	}
	if proposal.StudentID != studentID {
		return nil, ErrNotOwner
	}
	if proposal.Status == model.ProposalStatusAccepted {
		return nil, ErrCannotMove
	}

	targetOrder := proposal.ProposalOrder - 1
	if req.Direction == "down" {
		targetOrder = proposal.ProposalOrder + 1
	}
	if targetOrder < 1 || targetOrder > model.MaxProposalsPerStudent {
		return nil, ErrCannotMove
	}

	// 对端志愿不限状态，已接受的志愿也可被动换位
	neighbor, err := s.repo.Proposal.GetByStudentAndOrder(ctx, studentID, targetOrder)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCannotMove // 目标位为空位，无可交换对象
		}
		s.logger.Error("查询交换对端志愿失败", zap.Error(err))
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	txRepo := s.repo.WithTx(tx)

	proposal.ProposalOrder, neighbor.ProposalOrder = neighbor.ProposalOrder, proposal.ProposalOrder
	if err := txRepo.Proposal.Update(ctx, proposal); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("更新志愿排序失败", zap.Error(err))
		return nil, err
	}
	if err := txRepo.Proposal.Update(ctx, neighbor); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("更新对端志愿排序失败", zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	return s.ListMine(ctx, studentID)
}

// ────────────────────── EditProfessor ──────────────────────

// EditProfessor 更换志愿的目标教授，保留原优先级
// 仅 pending 状态可更换；新教授不得与其余志愿冲突
func (s *proposalService) EditProfessor(ctx context.Context, studentID, proposalID string, req *dto.EditProposalProfessorRequest) (*dto.ProposalResponse, error) {
	proposal, err := s.repo.Proposal.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		s.logger.Error("查询志愿失败", zap.String("id", proposalID), zap.Error(err))
		return nil, err
	}
	if proposal.StudentID != studentID {
		return nil, ErrNotOwner
	}
	if proposal.Status != model.ProposalStatusPending {
		return nil, ErrNotPending
	}

	if _, err := s.repo.Professor.GetByID(ctx, req.ProfessorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfessorNotFound
		}
		s.logger.Error("查询教授失败", zap.String("id", req.ProfessorID), zap.Error(err))
		return nil, err
	}

	siblings, err := s.repo.Proposal.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生志愿失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	for i := range siblings {
		if siblings[i].ProposalID != proposalID && siblings[i].ProfessorID == req.ProfessorID {
			return nil, ErrDuplicateProfessor
		}
	}

	proposal.ProfessorID = req.ProfessorID
	proposal.Professor = nil
	if err := s.repo.Proposal.Update(ctx, proposal); err != nil {
		s.logger.Error("更换志愿教授失败", zap.String("id", proposalID), zap.Error(err))
		return nil, err
	}
	return s.toProposalResponse(proposal), nil
}

// ────────────────────── Delete ──────────────────────

// Delete 撤回志愿，仅 pending 状态可删；不回填后续空位
func (s *proposalService) Delete(ctx context.Context, studentID, proposalID string) error {
	proposal, err := s.repo.Proposal.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProposalNotFound
		}
		s.logger.Error("查询志愿失败", zap.String("id", proposalID), zap.Error(err))
		return err
	}
	if proposal.StudentID != studentID {
		return ErrNotOwner
	}
	if proposal.Status != model.ProposalStatusPending {
		return ErrNotPending
	}

	if err := s.repo.Proposal.Delete(ctx, proposalID); err != nil {
		s.logger.Error("删除志愿失败", zap.String("id", proposalID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Inbox ──────────────────────

// Inbox 教授收件箱：发给本人的全部志愿及容量统计
func (s *proposalService) Inbox(ctx context.Context, professorID string) (*dto.ProfessorInboxResponse, error) {
	professor, err := s.repo.Professor.GetByID(ctx, professorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfessorNotFound
		}
		s.logger.Error("查询教授失败", zap.String("id", professorID), zap.Error(err))
		return nil, err
	}

	proposals, err := s.repo.Proposal.ListByProfessor(ctx, professorID)
	if err != nil {
		s.logger.Error("查询教授收件箱失败", zap.String("id", professorID), zap.Error(err))
		return nil, err
	}

	resp := &dto.ProfessorInboxResponse{
		MaxStudents:     professor.MaxStudents,
		CurrentStudents: professor.CurrentStudents,
		List:            make([]dto.ProfessorInboxItem, 0, len(proposals)),
	}
	if professor.MaxStudents != nil {
		available := *professor.MaxStudents - professor.CurrentStudents
		if available < 0 {
			available = 0
		}
		resp.AvailableSlots = &available
	}

	for i := range proposals {
		p := &proposals[i]
		switch p.Status {
		case model.ProposalStatusPending:
			resp.Pending++
		case model.ProposalStatusAccepted:
			resp.Accepted++
		}

		item := dto.ProfessorInboxItem{
			ID:            p.ProposalID,
			ProposalOrder: p.ProposalOrder,
			Status:        p.Status,
			StudentID:     p.StudentID,
			CreatedAt:     p.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if p.Student != nil {
			item.StudentName = p.Student.Name
			item.UniversityID = p.Student.UniversityID
			item.ProjectDescription = p.Student.ProjectDescription
			item.ProjectImageURL = p.Student.ProjectImageURL
			item.ThesisPDFURL = p.Student.ThesisPDFURL
		}
		resp.List = append(resp.List, item)
	}
	return resp, nil
}

// ────────────────────── Decide ──────────────────────

// Decide 教授处理志愿
// 接受路径在事务内以 FOR UPDATE 锁定教授行：容量判定与计数 +1
// 必须基于同一快照；离开 accepted 状态时计数同事务 -1
func (s *proposalService) Decide(ctx context.Context, professorID, proposalID string, req *dto.DecideProposalRequest) (*dto.ProposalResponse, error) {
	proposal, err := s.repo.Proposal.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		s.logger.Error("查询志愿失败", zap.String("id", proposalID), zap.Error(err))
		return nil, err
	}
	if proposal.ProfessorID != professorID {
		return nil, ErrNotAddressee
	}
	if !validTransition(proposal.Status, req.Status) {
		return nil, ErrInvalidTransition
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	txRepo := s.repo.WithTx(tx)
	rollback := func() {
		if tx != nil {
			tx.Rollback()
		}
	}

	professor, err := txRepo.Professor.GetByIDForUpdate(ctx, professorID)
	if err != nil {
		rollback()
		s.logger.Error("锁定教授行失败", zap.String("id", professorID), zap.Error(err))
		return nil, err
	}

	delta := counterDelta(proposal.Status, req.Status)
	if delta > 0 {
		if professor.MaxStudents != nil && professor.CurrentStudents >= *professor.MaxStudents {
			rollback()
			return nil, ErrCapacityExceeded
		}
	}

	previous := proposal.Status
	proposal.Status = req.Status
	if err := txRepo.Proposal.Update(ctx, proposal); err != nil {
		rollback()
		s.logger.Error("更新志愿状态失败", zap.String("id", proposalID), zap.Error(err))
		return nil, err
	}

	if delta != 0 {
		professor.CurrentStudents += delta
		if professor.CurrentStudents < 0 {
			professor.CurrentStudents = 0
		}
		if err := txRepo.Professor.Update(ctx, professor); err != nil {
			rollback()
			s.logger.Error("更新教授计数失败", zap.String("id", professorID), zap.Error(err))
			return nil, err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("志愿状态变更",
		zap.String("proposal_id", proposalID),
		zap.String("from", previous),
		zap.String("to", req.Status),
		zap.Int("counter_delta", delta),
	)
	return s.toProposalResponse(proposal), nil
}

// ── 内部辅助方法 ──

// nextFreeOrder 返回 1-5 中最小的未占用优先级
// 调用方已保证 len(existing) < 上限，必有空位
func nextFreeOrder(existing []model.Proposal) int {
	used := make(map[int]bool, len(existing))
	for i := range existing {
		used[existing[i].ProposalOrder] = true
	}
	for order := 1; order <= model.MaxProposalsPerStudent; order++ {
		if !used[order] {
			return order
		}
	}
	return model.MaxProposalsPerStudent
}

// validTransition 志愿状态流转白名单
func validTransition(from, to string) bool {
	if from == to {
		return false
	}
	switch from {
	case model.ProposalStatusPending:
		return to == model.ProposalStatusAccepted || to == model.ProposalStatusRejected
	case model.ProposalStatusAccepted:
		return to == model.ProposalStatusRejected || to == model.ProposalStatusPending
	case model.ProposalStatusRejected:
		return to == model.ProposalStatusPending
	}
	return false
}

// counterDelta 状态变更对教授 current_students 计数的影响
func counterDelta(from, to string) int {
	switch {
	case from != model.ProposalStatusAccepted && to == model.ProposalStatusAccepted:
		return 1
	case from == model.ProposalStatusAccepted && to != model.ProposalStatusAccepted:
		return -1
	}
	return 0
}

func (s *proposalService) toProposalResponse(proposal *model.Proposal) *dto.ProposalResponse {
	resp := &dto.ProposalResponse{
		ID:            proposal.ProposalID,
		StudentID:     proposal.StudentID,
		ProfessorID:   proposal.ProfessorID,
		ProposalOrder: proposal.ProposalOrder,
		Status:        proposal.Status,
		CreatedAt:     proposal.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if proposal.Professor != nil {
		resp.ProfessorName = proposal.Professor.Name
		resp.ProfessorEmail = proposal.Professor.Email
	}
	return resp
}

// [自证通过] internal/service/proposal_service.go

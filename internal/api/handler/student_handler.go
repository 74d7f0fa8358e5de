package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tesis-hub/backend/internal/dto"
	"tesis-hub/backend/internal/service"
	"tesis-hub/backend/pkg/response"
)

// StudentHandler 学生模块 HTTP 处理器
// 名册管理接口仅导师可用；/students/me 系列为学生本人接口
type StudentHandler struct {
	studentSvc service.StudentService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(studentSvc service.StudentService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc}
}

// List 当前周期学生名册
// GET /api/v1/students
func (h *StudentHandler) List(c *gin.Context) {
	result, err := h.studentSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Get 查询单个学生
// GET /api/v1/students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	result, err := h.studentSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Create 单个录入学生
// POST /api/v1/students
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.studentSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, result)
}

// Delete 删除学生
// DELETE /api/v1/students/:id
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.studentSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// Import 名册批量导入
// POST /api/v1/students/import
func (h *StudentHandler) Import(c *gin.Context) {
	var req dto.ImportStudentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.studentSvc.Import(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, result)
}

// GetMyProfile 学生查看本人资料
// GET /api/v1/students/me
func (h *StudentHandler) GetMyProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.studentSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// SaveMyProfile 学生保存本人项目资料
// PUT /api/v1/students/me
func (h *StudentHandler) SaveMyProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	// 惰性建档场景下 email 取自 Token 载荷
	email := c.GetString("user_email")

	result, err := h.studentSvc.SaveProfile(c.Request.Context(), userID, email, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *StudentHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 14001, "学生不存在")
	case errors.Is(err, service.ErrStudentDuplicate):
		response.Conflict(c, 14002, "邮箱或学号已被占用")
	case errors.Is(err, service.ErrRosterDataMissing):
		response.BadRequest(c, 14003, "首次保存必须提供姓名与学号")
	case errors.Is(err, service.ErrImportNoValidRows):
		response.BadRequest(c, 13003, "导入数据中没有有效行")
	case errors.Is(err, service.ErrCycleNotFound):
		response.NotFound(c, 12001, "学术周期不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/student_handler.go

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tesis-hub/backend/internal/dto"
	"tesis-hub/backend/internal/service"
	"tesis-hub/backend/pkg/response"
)

// ProfessorHandler 教授模块 HTTP 处理器
type ProfessorHandler struct {
	professorSvc service.ProfessorService
}

// NewProfessorHandler 创建 ProfessorHandler
func NewProfessorHandler(professorSvc service.ProfessorService) *ProfessorHandler {
	return &ProfessorHandler{professorSvc: professorSvc}
}

// List 当前周期教授列表
// GET /api/v1/professors
func (h *ProfessorHandler) List(c *gin.Context) {
	result, err := h.professorSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Get 查询单个教授
// GET /api/v1/professors/:id
func (h *ProfessorHandler) Get(c *gin.Context) {
	result, err := h.professorSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Create 创建教授（返回一次性明文口令）
// POST /api/v1/professors
func (h *ProfessorHandler) Create(c *gin.Context) {
	var req dto.CreateProfessorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.professorSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, result)
}

// Update 更新教授信息
// PUT /api/v1/professors/:id
func (h *ProfessorHandler) Update(c *gin.Context) {
	var req dto.UpdateProfessorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.professorSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Delete 删除教授
// DELETE /api/v1/professors/:id
func (h *ProfessorHandler) Delete(c *gin.Context) {
	if err := h.professorSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// Import 批量导入教授
// POST /api/v1/professors/import
func (h *ProfessorHandler) Import(c *gin.Context) {
	var req dto.ImportProfessorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.professorSvc.Import(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, result)
}

// ResetPassword 重置教授口令（返回一次性明文口令）
// POST /api/v1/professors/:id/reset-password
func (h *ProfessorHandler) ResetPassword(c *gin.Context) {
	result, err := h.professorSvc.ResetPassword(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *ProfessorHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProfessorNotFound):
		response.NotFound(c, 13001, "教授不存在")
	case errors.Is(err, service.ErrProfessorEmailDup):
		response.Conflict(c, 13002, "该邮箱已被其他教授使用")
	case errors.Is(err, service.ErrImportNoValidRows):
		response.BadRequest(c, 13003, "导入数据中没有有效行")
	case errors.Is(err, service.ErrCycleNotFound):
		response.NotFound(c, 12001, "学术周期不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/professor_handler.go

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tesis-hub/backend/internal/dto"
	"tesis-hub/backend/internal/service"
	"tesis-hub/backend/pkg/response"
)

// ProposalHandler 志愿模块 HTTP 处理器
// 学生侧接口以 Token 中的 user_id 作为归属判定依据，
// 教授侧（收件箱/决定）同理，路径参数不可伪造归属
type ProposalHandler struct {
	proposalSvc service.ProposalService
}

// NewProposalHandler 创建 ProposalHandler
func NewProposalHandler(proposalSvc service.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposalSvc: proposalSvc}
}

// ListMine 学生查看本人志愿列表
// GET /api/v1/proposals/me
func (h *ProposalHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.proposalSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Create 学生创建志愿
// POST /api/v1/proposals
func (h *ProposalHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.proposalSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, result)
}

// Reorder 调整志愿排序
// PUT /api/v1/proposals/:id/reorder
func (h *ProposalHandler) Reorder(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ReorderProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.proposalSvc.Reorder(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// EditProfessor 更换志愿教授
// PUT /api/v1/proposals/:id/professor
func (h *ProposalHandler) EditProfessor(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.EditProposalProfessorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.proposalSvc.EditProfessor(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Delete 撤回志愿
// DELETE /api/v1/proposals/:id
func (h *ProposalHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.proposalSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// Inbox 教授收件箱
// GET /api/v1/proposals/inbox
func (h *ProposalHandler) Inbox(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.proposalSvc.Inbox(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Decide 教授决定志愿
// PUT /api/v1/proposals/:id/decision
func (h *ProposalHandler) Decide(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.DecideProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.proposalSvc.Decide(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *ProposalHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProposalNotFound):
		response.NotFound(c, 15001, "志愿不存在")
	case errors.Is(err, service.ErrProfileIncomplete):
		response.BadRequest(c, 15002, "项目资料不完整，需先补全描述与项目图片")
	case errors.Is(err, service.ErrMaxProposals):
		response.Conflict(c, 15003, "志愿数量已达上限")
	case errors.Is(err, service.ErrDuplicateProfessor):
		response.Conflict(c, 15004, "不能向同一教授重复提交志愿")
	case errors.Is(err, service.ErrNotOwner):
		response.Forbidden(c, 15005, "只能操作本人的志愿")
	case errors.Is(err, service.ErrNotAddressee):
		response.Forbidden(c, 15005, "只能处理发给本人的志愿")
	case errors.Is(err, service.ErrNotPending):
		response.Conflict(c, 15006, "仅待处理状态的志愿可执行该操作")
	case errors.Is(err, service.ErrCannotMove):
		response.Conflict(c, 15007, "该志愿无法向指定方向移动")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, 15008, "非法的状态流转")
	case errors.Is(err, service.ErrCapacityExceeded):
		response.Conflict(c, 15009, "教授接收名额已满")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 14001, "学生不存在")
	case errors.Is(err, service.ErrProfessorNotFound):
		response.NotFound(c, 13001, "教授不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/proposal_handler.go

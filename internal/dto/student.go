package dto

// ── 学生模块 DTO ──

// CreateStudentRequest 导师创建学生请求
type CreateStudentRequest struct {
	Name         string `json:"name"          binding:"required,min=2,max=100"`
	Email        string `json:"email"         binding:"required,email"`
	UniversityID string `json:"university_id" binding:"required,min=3,max=50"`
}

// ImportStudentsRequest 名册批量导入请求
// Data 为多行文本，每行格式: 姓名,邮箱,学号
type ImportStudentsRequest struct {
	Data string `json:"data" binding:"required"`
}

// SaveProfileRequest 学生保存个人项目资料请求
// 名册尚未录入时首次保存会惰性建档，此时 Name/UniversityID 必填
type SaveProfileRequest struct {
	Name               *string `json:"name"          binding:"omitempty,min=2,max=100"`
	UniversityID       *string `json:"university_id" binding:"omitempty,min=3,max=50"`
	ProjectDescription *string `json:"project_description"`
	ProjectImageURL    *string `json:"project_image_url"  binding:"omitempty,url"`
	ThesisPDFURL       *string `json:"thesis_pdf_url"     binding:"omitempty,url"`
}

// StudentResponse 学生信息响应
type StudentResponse struct {
	ID                 string `json:"id"`
	CycleID            string `json:"cycle_id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	UniversityID       string `json:"university_id"`
	ProjectDescription string `json:"project_description"`
	ProjectImageURL    string `json:"project_image_url"`
	ThesisPDFURL       string `json:"thesis_pdf_url"`
	ProfileComplete    bool   `json:"profile_complete"`
	CreatedAt          string `json:"created_at"`
}

// ImportStudentsResponse 名册导入结果
type ImportStudentsResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

package dto

// ── 教授模块 DTO ──

// CreateProfessorRequest 创建教授请求
// MaxStudents 为空表示不限接收量
type CreateProfessorRequest struct {
	Name        string `json:"name"  binding:"required,min=2,max=100"`
	Email       string `json:"email" binding:"required,email"`
	MaxStudents *int   `json:"max_students" binding:"omitempty,min=1"`
}

// UpdateProfessorRequest 更新教授请求
type UpdateProfessorRequest struct {
	Name        *string `json:"name"  binding:"omitempty,min=2,max=100"`
	Email       *string `json:"email" binding:"omitempty,email"`
	MaxStudents *int    `json:"max_students" binding:"omitempty,min=1"`
}

// ImportProfessorsRequest 批量导入请求
// Data 为多行文本，每行格式: 姓名,邮箱
type ImportProfessorsRequest struct {
	Data string `json:"data" binding:"required"`
}

// ProfessorResponse 教授信息响应
type ProfessorResponse struct {
	ID              string `json:"id"`
	CycleID         string `json:"cycle_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	MaxStudents     *int   `json:"max_students,omitempty"`
	CurrentStudents int    `json:"current_students"`
	CreatedAt       string `json:"created_at"`
}

// ProfessorCredentialResponse 含一次性明文口令的响应
// 口令仅在创建/导入/重置时返回一次，之后只存 bcrypt 哈希
type ProfessorCredentialResponse struct {
	Professor ProfessorResponse `json:"professor"`
	Password  string            `json:"password"`
}

// ImportProfessorsResponse 批量导入结果
type ImportProfessorsResponse struct {
	Imported    int                           `json:"imported"`
	Skipped     int                           `json:"skipped"` // 格式错误或重复邮箱的行数
	Credentials []ProfessorCredentialResponse `json:"credentials"`
}

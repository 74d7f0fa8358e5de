package repository

import (
	"context"

	"gorm.io/gorm"
)

// CredentialRow 凭证校验存储过程的返回行
type CredentialRow struct {
	UserID    string `gorm:"column:user_id"`
	Email     string `gorm:"column:email"`
	Name      string `gorm:"column:name"`
	Role      string `gorm:"column:role"`
	StudentID string `gorm:"column:student_id"`
}

// AuthRepository 登录凭证校验接口
// 校验逻辑全部位于数据库存储过程 validate_user_credentials 中：
// 导师/教授比对 bcrypt 口令，学生以学号为凭证
type AuthRepository interface {
	ValidateCredentials(ctx context.Context, username, password string) (*CredentialRow, error)
}

type authRepo struct {
	db *gorm.DB
}

// NewAuthRepo 创建 AuthRepository 实例
func NewAuthRepo(db *gorm.DB) AuthRepository {
	return &authRepo{db: db}
}

func (r *authRepo) ValidateCredentials(ctx context.Context, username, password string) (*CredentialRow, error) {
	var rows []CredentialRow
	err := r.db.WithContext(ctx).
		Raw("SELECT * FROM validate_user_credentials(?, ?)", username, password).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

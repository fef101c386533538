package profile

import (
	"context"
	"time"
)

// 用户角色
const (
	RoleUser       = "user"
	RoleStoreStaff = "store_staff"
	RoleAdmin      = "admin"
)

// Profile 用户档案（兼做登录账号）
type Profile struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // 已加密密码
	Salt      string    `gorm:"size:64" json:"-"`
	Role      string    `gorm:"size:32;index;not null;default:user" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsStaff 是否为店员或管理员
func (p *Profile) IsStaff() bool {
	return p.Role == RoleStoreStaff || p.Role == RoleAdmin
}

// Repository 用户仓储接口
type Repository interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	Create(ctx context.Context, p *Profile) error
	Update(ctx context.Context, p *Profile) error
	ListAll(ctx context.Context) ([]*Profile, error)
}

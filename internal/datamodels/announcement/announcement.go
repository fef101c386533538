package announcement

import (
	"context"
	"time"
)

// 公告分类
const (
	CategoryBusinessHours = "business-hours"
	CategoryMenu          = "menu"
	CategoryOther         = "other"
)

// Announcement 公告
type Announcement struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	Category  string    `gorm:"size:32;index" json:"category"`
	ImageURL  string    `gorm:"size:512" json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository 公告仓储接口
type Repository interface {
	GetByID(ctx context.Context, id string) (*Announcement, error)
	ListAll(ctx context.Context) ([]*Announcement, error)
	Create(ctx context.Context, a *Announcement) error
	Update(ctx context.Context, a *Announcement) error
	Delete(ctx context.Context, id string) error
}

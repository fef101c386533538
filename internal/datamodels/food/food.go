package food

import (
	"context"
	"time"
)

// 菜单分类（与前端展示一致，使用日文标签）
const (
	CategoryDonburi  = "丼"
	CategoryNoodle   = "麺"
	CategorySeasonal = "季節限定"
	CategoryHotSnack = "ホットスナック"
	CategoryOther    = "その他"
)

// Food 菜单商品
type Food struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:128;not null" json:"name"`
	Price       int64  `gorm:"not null" json:"price"` // 日元
	Description string `gorm:"size:512" json:"description"`
	ImageURL    string `gorm:"size:512" json:"image_url"`
	Category    string `gorm:"size:32;index" json:"category"`
	// StoreName 店铺名的冗余字段，跟源数据结构保持一致（不是外键）
	StoreName        string     `gorm:"size:128;index" json:"store_name"`
	IsPublished      bool       `gorm:"index" json:"is_published"`
	PublishStartDate *time.Time `json:"publish_start_date"`
	PublishEndDate   *time.Time `json:"publish_end_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// AvailableAt 在指定时间点是否可售（已发布且处于发布时间窗内）
func (f *Food) AvailableAt(t time.Time) bool {
	if !f.IsPublished {
		return false
	}
	if f.PublishStartDate != nil && t.Before(*f.PublishStartDate) {
		return false
	}
	if f.PublishEndDate != nil && t.After(*f.PublishEndDate) {
		return false
	}
	return true
}

// Repository 菜单仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Food, error)
	ListAll(ctx context.Context) ([]*Food, error)
	ListPublished(ctx context.Context, now time.Time) ([]*Food, error)
	ListByCategory(ctx context.Context, category string, now time.Time) ([]*Food, error)
	Create(ctx context.Context, f *Food) error
	Update(ctx context.Context, f *Food) error
	Delete(ctx context.Context, id int64) error
}

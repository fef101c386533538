package trashbin

import (
	"context"
	"time"
)

// TrashBin 校内垃圾箱位置（后台地图管理用）
type TrashBin struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Note      string    `gorm:"size:255" json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository 垃圾箱仓储接口
type Repository interface {
	ListAll(ctx context.Context) ([]*TrashBin, error)
	Create(ctx context.Context, t *TrashBin) error
	Delete(ctx context.Context, id string) error
}

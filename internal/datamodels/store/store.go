package store

import "context"

// Store 店铺（学食窗口）
type Store struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Address      string `gorm:"size:255" json:"address"`
	Phone        string `gorm:"size:32" json:"phone"`
	OpeningHours string `gorm:"size:128" json:"opening_hours"`
}

// Repository 店铺仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Store, error)
	GetByName(ctx context.Context, name string) (*Store, error)
	ListAll(ctx context.Context) ([]*Store, error)
	Create(ctx context.Context, s *Store) error
	Update(ctx context.Context, s *Store) error
	Delete(ctx context.Context, id int64) error
}

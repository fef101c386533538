package cart

import "context"

// 商品规格
const (
	SizeRegular = "regular"
	SizeLarge   = "large"
)

// Item 购物车条目，价格为加入时的快照
type Item struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	UserID     string `gorm:"index;size:36;not null" json:"user_id"`
	FoodID     int64  `gorm:"index;not null" json:"food_id"`
	Name       string `gorm:"size:128;not null" json:"name"`
	Price      int64  `gorm:"not null" json:"price"`
	Quantity   int64  `gorm:"not null" json:"quantity"`
	ImageURL   string `gorm:"size:512" json:"image_url"`
	Size       string `gorm:"size:16;not null;default:regular" json:"size"`
	IsTakeout  bool   `json:"is_takeout"`
	TotalPrice int64  `gorm:"not null" json:"total_price"`
}

// Repository 购物车仓储接口
type Repository interface {
	GetByID(ctx context.Context, id string) (*Item, error)
	ListByUser(ctx context.Context, userID string) ([]*Item, error)
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id string) error
	DeleteByIDs(ctx context.Context, ids []string) error
}

package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/omuct/eat-and-go-sub000/internal/datamodels/cart"
)

type cartRepo struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepo{db: db}
}

func (r *cartRepo) GetByID(ctx context.Context, id string) (*cart.Item, error) {
	var item cart.Item
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepo) ListByUser(ctx context.Context, userID string) ([]*cart.Item, error) {
	var list []*cart.Item
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *cartRepo) Create(ctx context.Context, item *cart.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *cartRepo) Update(ctx context.Context, item *cart.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *cartRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&cart.Item{}).Error
}

func (r *cartRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&cart.Item{}).Error
}

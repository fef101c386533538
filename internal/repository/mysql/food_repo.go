package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/omuct/eat-and-go-sub000/internal/datamodels/food"
)

type foodRepo struct {
	db *gorm.DB
}

// NewFoodRepository 创建菜单仓储
func NewFoodRepository(db *gorm.DB) food.Repository {
	return &foodRepo{db: db}
}

func (r *foodRepo) GetByID(ctx context.Context, id int64) (*food.Food, error) {
	var f food.Food
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *foodRepo) ListAll(ctx context.Context) ([]*food.Food, error) {
	var list []*food.Food
	if err := r.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// publishedScope 已发布且处于发布时间窗内
func publishedScope(q *gorm.DB, now time.Time) *gorm.DB {
	return q.
		Where("is_published = ?", true).
		Where("publish_start_date IS NULL OR publish_start_date <= ?", now).
		Where("publish_end_date IS NULL OR publish_end_date >= ?", now)
}

func (r *foodRepo) ListPublished(ctx context.Context, now time.Time) ([]*food.Food, error) {
	var list []*food.Food
	q := publishedScope(r.db.WithContext(ctx).Model(&food.Food{}), now)
	if err := q.Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *foodRepo) ListByCategory(ctx context.Context, category string, now time.Time) ([]*food.Food, error) {
	var list []*food.Food
	q := publishedScope(r.db.WithContext(ctx).Model(&food.Food{}), now).
		Where("category = ?", category)
	if err := q.Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *foodRepo) Create(ctx context.Context, f *food.Food) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *foodRepo) Update(ctx context.Context, f *food.Food) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *foodRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&food.Food{}, id).Error
}
